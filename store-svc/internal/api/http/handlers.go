package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handler struct {
	Menu      service.MenuServiceInterface
	Cart      service.CartServiceInterface
	Checkout  service.CheckoutServiceInterface
	Orders    service.OrderServiceInterface
	Wallet    service.WalletServiceInterface
	Addresses service.AddressServiceInterface
	Offers    service.OfferServiceInterface
	Logger    *zap.Logger
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/menu", h.listMenu).Methods("GET")
	r.HandleFunc("/api/menu/{itemId}", h.getMenuItem).Methods("GET")
	r.HandleFunc("/api/offers", h.listOffers).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(requireUser)

	api.HandleFunc("/cart", h.getCart).Methods("GET")
	api.HandleFunc("/cart", h.clearCart).Methods("DELETE")
	api.HandleFunc("/cart/items", h.addCartItem).Methods("POST")
	api.HandleFunc("/cart/items/{itemId}", h.updateCartItem).Methods("PATCH")
	api.HandleFunc("/cart/items/{itemId}", h.removeCartItem).Methods("DELETE")
	api.HandleFunc("/cart/coupon", h.applyCoupon).Methods("POST")
	api.HandleFunc("/cart/coupon", h.removeCoupon).Methods("DELETE")

	api.HandleFunc("/checkout/quote", h.quote).Methods("POST")
	api.HandleFunc("/checkout", h.placeOrder).Methods("POST")

	api.HandleFunc("/orders", h.listOrders).Methods("GET")
	api.HandleFunc("/orders/{id}", h.getOrder).Methods("GET")
	api.HandleFunc("/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")

	api.HandleFunc("/wallet", h.getWallet).Methods("GET")
	api.HandleFunc("/wallet/topup", h.topUp).Methods("POST")

	api.HandleFunc("/addresses", h.listAddresses).Methods("GET")
	api.HandleFunc("/addresses", h.addAddress).Methods("POST")
	api.HandleFunc("/addresses/{id}", h.updateAddress).Methods("PATCH")
	api.HandleFunc("/addresses/{id}", h.deleteAddress).Methods("DELETE")
	api.HandleFunc("/addresses/{id}/default", h.setDefaultAddress).Methods("PUT")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(requireStaff)
	admin.HandleFunc("/orders", h.adminListOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}/{action}", h.adminTransition).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "store-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Menu.Get(r.Context(), mux.Vars(r)["itemId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type cartItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.Cart.Get(r.Context(), userFrom(r).ID)
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Cart.Clear(r.Context(), userFrom(r).ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decode(w, r, &req) {
		return
	}
	view, err := h.Cart.AddItem(r.Context(), userFrom(r).ID, req.ItemID, req.Quantity)
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decode(w, r, &req) {
		return
	}
	view, err := h.Cart.UpdateQuantity(r.Context(), userFrom(r).ID, mux.Vars(r)["itemId"], req.Quantity)
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.Cart.RemoveItem(r.Context(), userFrom(r).ID, mux.Vars(r)["itemId"])
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decode(w, r, &req) {
		return
	}
	view, err := h.Cart.ApplyCoupon(r.Context(), userFrom(r).ID, req.Code)
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) removeCoupon(w http.ResponseWriter, r *http.Request) {
	view, err := h.Cart.RemoveCoupon(r.Context(), userFrom(r).ID)
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) checkoutRequest(w http.ResponseWriter, r *http.Request) (service.CheckoutRequest, bool) {
	var req service.CheckoutRequest
	if !decode(w, r, &req) {
		return req, false
	}
	user := userFrom(r)
	req.UserID = user.ID
	req.UserName = user.Name
	return req, true
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	req, ok := h.checkoutRequest(w, r)
	if !ok {
		return
	}
	q, err := h.Checkout.Quote(r.Context(), req)
	h.respond(w, r, http.StatusOK, q, err)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	req, ok := h.checkoutRequest(w, r)
	if !ok {
		return
	}
	order, err := h.Checkout.PlaceOrder(r.Context(), req)
	h.respond(w, r, http.StatusCreated, order, err)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListForUser(r.Context(), userFrom(r).ID)
	h.respond(w, r, http.StatusOK, orders, err)
}

// visibleOrder hides other customers' orders behind a 404.
func (h *Handler) visibleOrder(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	order, err := h.Orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	user := userFrom(r)
	if order.UserID != user.ID && !user.Role.IsStaff() {
		h.writeError(w, r, domain.ErrNotFound)
		return nil, false
	}
	return order, true
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	if order, ok := h.visibleOrder(w, r); ok {
		writeJSON(w, http.StatusOK, order)
	}
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	order, ok := h.visibleOrder(w, r)
	if !ok {
		return
	}
	png, err := h.Orders.QRCode(r.Context(), order.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) getWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.Wallet.Get(r.Context(), userFrom(r).ID)
	h.respond(w, r, http.StatusOK, wallet, err)
}

func (h *Handler) topUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if !decode(w, r, &req) {
		return
	}
	wallet, err := h.Wallet.TopUp(r.Context(), userFrom(r).ID, req.Amount)
	h.respond(w, r, http.StatusOK, wallet, err)
}

func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	addrs, err := h.Addresses.List(r.Context(), userFrom(r).ID)
	h.respond(w, r, http.StatusOK, addrs, err)
}

func (h *Handler) addAddress(w http.ResponseWriter, r *http.Request) {
	var addr domain.Address
	if !decode(w, r, &addr) {
		return
	}
	addr.ID = ""
	addr.UserID = userFrom(r).ID
	err := h.Addresses.Add(r.Context(), &addr)
	h.respond(w, r, http.StatusCreated, addr, err)
}

func (h *Handler) updateAddress(w http.ResponseWriter, r *http.Request) {
	var patch service.AddressPatch
	if !decode(w, r, &patch) {
		return
	}
	addr, err := h.Addresses.Update(r.Context(), userFrom(r).ID, mux.Vars(r)["id"], patch)
	h.respond(w, r, http.StatusOK, addr, err)
}

func (h *Handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := h.Addresses.Delete(r.Context(), userFrom(r).ID, mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.Offers.ListActive(r.Context())
	h.respond(w, r, http.StatusOK, offers, err)
}

func (h *Handler) setDefaultAddress(w http.ResponseWriter, r *http.Request) {
	if err := h.Addresses.SetDefault(r.Context(), userFrom(r).ID, mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListAll(r.Context(), domain.Status(r.URL.Query().Get("status")))
	h.respond(w, r, http.StatusOK, orders, err)
}

type transitionBody struct {
	ExpectedStatus domain.Status `json:"expected_status"`
	Reason         string        `json:"reason"`
	Provider       string        `json:"provider"`
	TrackingURL    string        `json:"tracking_url"`
	CourierDetails string        `json:"courier_details"`
}

func (h *Handler) adminTransition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	event, ok := domain.EventForAction(vars["action"])
	if !ok {
		http.Error(w, "Unknown action", http.StatusNotFound)
		return
	}

	var body transitionBody
	if r.ContentLength != 0 && !decode(w, r, &body) {
		return
	}

	req := service.TransitionRequest{
		OrderID:  vars["id"],
		Event:    event,
		Expected: body.ExpectedStatus,
		Reason:   body.Reason,
		ActorID:  userFrom(r).ID,
	}
	if event == domain.EventDispatch {
		req.Dispatch = &domain.DispatchInfo{
			Provider:       body.Provider,
			TrackingURL:    body.TrackingURL,
			CourierDetails: body.CourierDetails,
		}
	}

	order, err := h.Orders.Transition(r.Context(), req)
	h.respond(w, r, http.StatusOK, order, err)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, body interface{}, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsInsufficientFunds(err):
		return http.StatusPaymentRequired
	case domain.IsConflict(err), domain.IsDuplicateOrder(err), domain.IsTransition(err):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsDependency(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		msg = http.StatusText(status)
	} else if status == http.StatusNotFound {
		msg = "Not found"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON format: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
