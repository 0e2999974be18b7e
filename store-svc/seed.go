package main

import (
	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/storage"

	"github.com/shopspring/decimal"
)

var demoMenu = []domain.MenuItem{
	{ID: "m1", Name: "Dal Makhani", Description: "Slow-cooked black lentils in butter and tomato gravy.", Price: 299, Category: "main-course", IsVeg: true},
	{ID: "m3", Name: "Pindi Chhole", Description: "Punjabi chickpeas in aromatic masala.", Price: 299, Category: "main-course", IsVeg: true},
	{ID: "p2", Name: "Mattar Paneer", Description: "Cottage cheese and green peas in tomato curry.", Price: 299, Category: "paneer", IsVeg: true},
	{ID: "b1", Name: "Butter Naan", Price: 60, Category: "breads", IsVeg: true},
	{ID: "r1", Name: "Jeera Rice", Price: 179, Category: "rice", IsVeg: true},
	{ID: "t1", Name: "Chicken Tikka", Price: 349, Category: "tandoori"},
	{ID: "d1", Name: "Sweet Lassi", Price: 99, Category: "drinks", IsVeg: true},
}

// seededMemoryStore is the local demo shop: one outlet, a short menu, two
// offers and a demo customer with wallet money and points.
func seededMemoryStore() *storage.MemoryStore {
	store := storage.NewMemoryStore()
	store.SetOutlet(domain.StoreLocation{
		OutletName: "Curry Craft Dwarka",
		Location:   domain.Location{Latitude: 28.5114747, Longitude: 77.0740924},
	})
	for _, item := range demoMenu {
		store.PutMenuItem(item)
	}

	maxDiscount := int64(150)
	store.PutOffer(domain.Offer{ID: "of-1", Code: "WELCOME20", Description: "20% off your first order",
		DiscountType: domain.DiscountPercentage, DiscountValue: 20, MinOrderValue: 300, MaxDiscountValue: &maxDiscount, IsActive: true})
	store.PutOffer(domain.Offer{ID: "of-2", Code: "FLAT50", Description: "₹50 off above ₹499",
		DiscountType: domain.DiscountFixed, DiscountValue: 50, MinOrderValue: 499, IsActive: true})

	settings := domain.DefaultLoyaltySettings()
	settings.Tiers = domain.DefaultLoyaltyTiers()
	store.SetLoyaltySettings(settings)

	store.OpenAccount("demo-user", decimal.NewFromInt(1000), 250)
	return store
}
