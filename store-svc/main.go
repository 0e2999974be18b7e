package main

import (
	"context"
	"net/http"

	"curry-craft/config"
	httpapi "curry-craft/store-svc/internal/api/http"
	"curry-craft/store-svc/internal/pricing"
	"curry-craft/store-svc/internal/service"
	"curry-craft/store-svc/internal/storage"

	"go.uber.org/zap"
)

// backend bundles every collaborator the services need. Postgres, Redis and
// Kafka in production; one MemoryStore for local runs.
type backend struct {
	menu      service.MenuRepository
	offers    service.OfferRepository
	orders    service.OrderRepository
	wallet    service.WalletLedger
	loyalty   service.LoyaltyLedger
	settings  service.StoreConfig
	addresses service.AddressBook
	carts     service.CartStore
	tx        service.TxRunner
	publisher service.EventPublisher
	closers   []func() error
}

func postgresBackend(cfg *config.Config, logger *zap.Logger) *backend {
	db := config.MustInitPostgres(cfg, logger)
	pg := storage.NewPostgresStore(db)
	if err := pg.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}
	rdb := config.MustInitRedis(cfg, logger)
	writer := config.NewKafkaWriter(cfg)

	return &backend{
		menu:      pg.Menu(),
		offers:    pg.Offers(),
		orders:    pg.Orders(),
		wallet:    pg.Wallet(),
		loyalty:   pg.Loyalty(),
		settings:  pg.Settings(),
		addresses: pg.Addresses(),
		carts:     storage.NewRedisCartStore(rdb, cfg.CartTTL),
		tx:        pg,
		publisher: storage.NewKafkaPublisher(writer),
		closers:   []func() error{writer.Close, rdb.Close, db.Close},
	}
}

func memoryBackend(store *storage.MemoryStore) *backend {
	return &backend{
		menu:      store,
		offers:    store,
		orders:    store,
		wallet:    store,
		loyalty:   store,
		settings:  store,
		addresses: store,
		carts:     store,
		tx:        store,
	}
}

func newHandler(b *backend, cfg *config.Config, logger *zap.Logger) *httpapi.Handler {
	retry := service.NewRetrier(cfg.RetryAttempts, cfg.RetryBackoff, logger)
	coupons := pricing.NewCouponEngine(b.offers)

	return &httpapi.Handler{
		Menu: service.NewMenuService(b.menu, retry),
		Cart: service.NewCartService(b.carts, b.menu, coupons, retry, logger),
		Checkout: service.NewCheckoutService(service.CheckoutDeps{
			Carts:     b.carts,
			Addresses: b.addresses,
			Store:     b.settings,
			Coupons:   coupons,
			Loyalty:   b.loyalty,
			Wallet:    b.wallet,
			Tx:        b.tx,
			Publisher: b.publisher,
		}, retry, logger),
		Orders:    service.NewOrderService(b.orders, b.tx, service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL}, b.publisher, retry, logger),
		Wallet:    service.NewWalletService(b.wallet, b.loyalty, retry, logger),
		Addresses: service.NewAddressService(b.addresses, retry),
		Offers:    service.NewOfferService(b.offers, retry),
		Logger:    logger,
	}
}

func newServer(cfg *config.Config, logger *zap.Logger) (http.Handler, *backend) {
	var b *backend
	if cfg.Backend == "memory" {
		logger.Warn("using the in-memory backend; data is lost on restart")
		b = memoryBackend(seededMemoryStore())
	} else {
		b = postgresBackend(cfg, logger)
	}
	return httpapi.NewRouter(newHandler(b, cfg, logger)), b
}

func main() {
	cfg := config.Load(":8081")
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	handler, b := newServer(cfg, logger)
	defer func() {
		for _, c := range b.closers {
			if err := c(); err != nil {
				logger.Warn("close failed", zap.Error(err))
			}
		}
	}()

	httpapi.StartServer(cfg.HTTPAddr, handler, logger)
}
