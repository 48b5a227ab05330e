package handler

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/core/pricing"
	"github.com/rl1809/primo-pizza/internal/core/service"
	"github.com/rl1809/primo-pizza/internal/core/session"
	"github.com/rl1809/primo-pizza/internal/logging"
	"github.com/rl1809/primo-pizza/internal/port"
)

const (
	SessionHeader    = "X-Session-ID"
	AdminTokenHeader = "X-Admin-Token"
)

type HTTPHandler struct {
	svc      *service.Services
	sessions *session.Manager
	store    port.DocumentStore
	logger   *zap.Logger
}

func NewHTTPHandler(svc *service.Services, sessions *session.Manager, store port.DocumentStore, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:      svc,
		sessions: sessions,
		store:    store,
		logger:   logging.OrNop(logger).Named("http"),
	}
}

// Routes builds the storefront and admin API. Admin routes require
// adminToken in the X-Admin-Token header.
func (h *HTTPHandler) Routes(adminToken string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", h.ListMenu)
		r.Get("/menu/{id}", h.GetMenuItem)
		r.Get("/zones", h.ListZones)
		r.Get("/flash-sale", h.GetFlashSale)
		r.Get("/rewards", h.ListRewards)

		r.Get("/cart", h.GetCart)
		r.Delete("/cart", h.ClearCart)
		r.Post("/cart/items", h.AddCartItem)
		r.Patch("/cart/items/{id}", h.UpdateCartItem)
		r.Delete("/cart/items/{id}", h.RemoveCartItem)
		r.Post("/cart/promotion", h.ApplyPromotion)
		r.Delete("/cart/promotion", h.RemovePromotion)
		r.Post("/checkout", h.Checkout)

		r.Post("/session/login", h.Login)
		r.Post("/session/code", h.RequestCode)
		r.Post("/session/verify", h.VerifyCode)
		r.Post("/session/logout", h.Logout)

		r.Get("/me/orders", h.MyOrders)
		r.Post("/me/orders/{id}/reorder", h.Reorder)
		r.Get("/me/points", h.MyPoints)
		r.Get("/me/favorites", h.MyFavorites)
		r.Post("/me/favorites/{itemId}", h.ToggleFavorite)
		r.Post("/me/rewards/{tier}", h.RedeemReward)

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin(adminToken))

			r.Get("/orders", h.SearchOrders)
			r.Get("/orders/{id}", h.GetOrder)
			r.Patch("/orders/{id}/status", h.UpdateOrderStatus)
			r.Put("/orders/{id}/customer", h.UpdateOrderCustomer)
			r.Get("/stats", h.Stats)

			r.Get("/inventory", h.ListInventory)
			r.Get("/inventory/low", h.LowStock)
			r.Put("/inventory/{id}", h.AdjustStock)

			r.Get("/promotions", h.ListPromotions)
			r.Post("/promotions", h.CreatePromotion)
			r.Patch("/promotions/{id}", h.SetPromotionActive)
			r.Delete("/promotions/{id}", h.DeletePromotion)

			r.Get("/flash-sale", h.GetFlashSale)
			r.Put("/flash-sale", h.SaveFlashSale)

			r.Post("/zones", h.SaveZone)
			r.Put("/zones/{id}", h.SaveZone)
			r.Delete("/zones/{id}", h.DeleteZone)
		})
	})

	return r
}

func requireAdmin(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(AdminTokenHeader)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "admin token required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *HTTPHandler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

type quoteResponse struct {
	Subtotal     float64 `json:"subtotal"`
	Discount     float64 `json:"discount"`
	DeliveryFee  float64 `json:"deliveryFee"`
	Total        float64 `json:"total"`
	TotalDisplay string  `json:"totalDisplay"`
}

func toQuoteResponse(q pricing.Quote) quoteResponse {
	r := q.Rounded()
	return quoteResponse{
		Subtotal:     r.Subtotal,
		Discount:     r.Discount,
		DeliveryFee:  r.DeliveryFee,
		Total:        r.Total,
		TotalDisplay: pricing.Format(q.Total),
	}
}

type cartResponse struct {
	Lines     []domain.CartLine `json:"lines"`
	Promotion *domain.Promotion `json:"promotion,omitempty"`
	Quote     quoteResponse     `json:"quote"`
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// session resolves the caller's session from the X-Session-ID header and
// echoes the (possibly new) id back.
func (h *HTTPHandler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	id, s := h.sessions.Get(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, id)
	return s
}

func (h *HTTPHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	q := service.MenuQuery{
		Category: r.URL.Query().Get("category"),
		Term:     r.URL.Query().Get("q"),
		Sort:     service.MenuSort(r.URL.Query().Get("sort")),
	}
	if q.Category == service.CategoryFavorites {
		favs, err := h.session(w, r).Favorites(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		q.Favorites = favs
	}

	items, err := h.svc.Menu.Search(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}

	avail, err := h.svc.Menu.Available(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	ok := make(map[string]bool, len(avail))
	for _, a := range avail {
		ok[a.ID] = a.Available
	}

	out := make([]service.AvailableItem, len(items))
	for i, item := range items {
		out[i] = service.AvailableItem{MenuItem: item, Available: ok[item.ID]}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Menu.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *HTTPHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.svc.Zones.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, zones)
}

func (h *HTTPHandler) GetFlashSale(w http.ResponseWriter, r *http.Request) {
	sale, active, err := h.svc.FlashSales.Current(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		domain.FlashSale
		EffectiveActive bool `json:"effectiveActive"`
	}{sale, active})
}

func (h *HTTPHandler) ListRewards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Loyalty.Tiers())
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	h.writeCart(w, r, s, http.StatusOK)
}

func (h *HTTPHandler) writeCart(w http.ResponseWriter, r *http.Request, s *session.Session, status int) {
	quote, err := s.Quote(r.Context(), r.URL.Query().Get("zone"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := cartResponse{Lines: s.Lines(), Quote: toQuoteResponse(quote)}
	if p, ok := s.ActivePromotion(); ok {
		resp.Promotion = &p
	}
	writeJSON(w, status, resp)
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	s.Clear()
	h.writeCart(w, r, s, http.StatusOK)
}

type addItemRequest struct {
	ItemID string `json:"itemId"`
}

func (h *HTTPHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decode(w, r, &req) {
		return
	}
	s := h.session(w, r)
	if _, err := s.AddByID(r.Context(), req.ItemID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCart(w, r, s, http.StatusOK)
}

type updateItemRequest struct {
	Delta int `json:"delta"`
}

func (h *HTTPHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if !decode(w, r, &req) {
		return
	}
	s := h.session(w, r)
	s.UpdateQuantity(chi.URLParam(r, "id"), req.Delta)
	h.writeCart(w, r, s, http.StatusOK)
}

func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	s.Remove(chi.URLParam(r, "id"))
	h.writeCart(w, r, s, http.StatusOK)
}

type promotionRequest struct {
	Code string `json:"code"`
}

func (h *HTTPHandler) ApplyPromotion(w http.ResponseWriter, r *http.Request) {
	var req promotionRequest
	if !decode(w, r, &req) {
		return
	}
	s := h.session(w, r)
	if _, err := s.ApplyPromotion(r.Context(), req.Code); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCart(w, r, s, http.StatusOK)
}

func (h *HTTPHandler) RemovePromotion(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	s.RemovePromotion()
	h.writeCart(w, r, s, http.StatusOK)
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var form session.CheckoutForm
	if !decode(w, r, &form) {
		return
	}
	order, err := h.session(w, r).Checkout(r.Context(), form)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

type codeRequest struct {
	Code string `json:"code"`
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.session(w, r).Login(req.Phone); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"phone": req.Phone})
}

// RequestCode returns the code in the response body; there is no SMS gateway.
func (h *HTTPHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if !decode(w, r, &req) {
		return
	}
	code, err := h.session(w, r).RequestCode(req.Phone)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, codeRequest{Code: code})
}

func (h *HTTPHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decode(w, r, &req) {
		return
	}
	s := h.session(w, r)
	if err := s.VerifyCode(req.Code); err != nil {
		h.writeError(w, err)
		return
	}
	phone, _ := s.Phone()
	writeJSON(w, http.StatusOK, map[string]string{"phone": phone})
}

func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session(w, r).Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.session(w, r).Orders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *HTTPHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	skipped, err := s.ReorderByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": s.Lines(), "skipped": skipped})
}

func (h *HTTPHandler) MyPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.session(w, r).Points(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"points": points})
}

func (h *HTTPHandler) MyFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.session(w, r).Favorites(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

func (h *HTTPHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	favs, err := h.session(w, r).ToggleFavorite(r.Context(), chi.URLParam(r, "itemId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

func (h *HTTPHandler) RedeemReward(w http.ResponseWriter, r *http.Request) {
	tier, err := strconv.Atoi(chi.URLParam(r, "tier"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid reward tier"})
		return
	}
	promo, err := h.session(w, r).RedeemReward(r.Context(), tier)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, promo)
}

func (h *HTTPHandler) SearchOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Orders.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *HTTPHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	order, err := h.svc.Orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *HTTPHandler) UpdateOrderCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.Customer
	if !decode(w, r, &req) {
		return
	}
	order, err := h.svc.Orders.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Orders.Stats(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *HTTPHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	levels, err := h.svc.Inventory.Levels(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, levels)
}

func (h *HTTPHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	low, err := h.svc.Inventory.LowStock(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, low)
}

type stockRequest struct {
	Quantity float64 `json:"quantity"`
}

func (h *HTTPHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if !decode(w, r, &req) {
		return
	}
	ing, err := h.svc.Inventory.AdjustStock(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ing)
}

func (h *HTTPHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	promos, err := h.svc.Promotions.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promos)
}

func (h *HTTPHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req domain.Promotion
	if !decode(w, r, &req) {
		return
	}
	promo, err := h.svc.Promotions.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, promo)
}

type activeRequest struct {
	Active bool `json:"active"`
}

func (h *HTTPHandler) SetPromotionActive(w http.ResponseWriter, r *http.Request) {
	var req activeRequest
	if !decode(w, r, &req) {
		return
	}
	promo, err := h.svc.Promotions.SetActive(r.Context(), chi.URLParam(r, "id"), req.Active)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promo)
}

func (h *HTTPHandler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Promotions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) SaveFlashSale(w http.ResponseWriter, r *http.Request) {
	var req domain.FlashSale
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.FlashSales.Save(r.Context(), req); err != nil {
		h.writeError(w, err)
		return
	}
	h.GetFlashSale(w, r)
}

func (h *HTTPHandler) SaveZone(w http.ResponseWriter, r *http.Request) {
	var req domain.DeliveryZone
	if !decode(w, r, &req) {
		return
	}
	status := http.StatusCreated
	if id := chi.URLParam(r, "id"); id != "" {
		if _, err := h.svc.Zones.Get(r.Context(), id); err != nil {
			h.writeError(w, err)
			return
		}
		req.ID = id
		status = http.StatusOK
	}
	zone, err := h.svc.Zones.Save(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, status, zone)
}

func (h *HTTPHandler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Zones.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// httpStatus maps core errors to response codes. Unknown errors are 500.
func httpStatus(err error) int {
	switch {
	case service.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, service.ErrDuplicateCode),
		errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, port.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrOutOfStock):
		return http.StatusGone
	case errors.Is(err, service.ErrInsufficientPoints):
		return http.StatusPaymentRequired
	case errors.Is(err, session.ErrNotLoggedIn),
		errors.Is(err, session.ErrInvalidCode):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrEmptyCode),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPromotion),
		errors.Is(err, service.ErrInvalidZone),
		errors.Is(err, service.ErrNegativeQuantity),
		errors.Is(err, service.ErrUnknownReward),
		errors.Is(err, session.ErrInvalidPhone),
		errors.Is(err, session.ErrNoCodeRequested):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		message = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
