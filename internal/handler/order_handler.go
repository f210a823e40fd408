package handler

import (
	"net/http"

	"github.com/02loveslollipop/MiPedido/internal/auth"
	"github.com/02loveslollipop/MiPedido/internal/service"
	"github.com/02loveslollipop/MiPedido/pkg/logger"
)

// OrderHandler exposes the order lifecycle over HTTP. Create, join and cart
// edits are open to any holder of the order link; finalize and fulfill
// require a bearer token naming a restaurant operator.
type OrderHandler struct {
	orderService service.OrderServiceInterface
	jwtSecret    string
	logger       *logger.Logger
}

func NewOrderHandler(orderService service.OrderServiceInterface, jwtSecret string, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		jwtSecret:    jwtSecret,
		logger:       log.WithComponent("order_handler"),
	}
}

// RequireAuth guards a route behind bearer-token authentication. The parsed
// principal is stashed in the request context for the wrapped handler.
func (h *OrderHandler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := auth.ParseFromRequest(r, h.jwtSecret)
		if err != nil {
			h.logger.Warn("Request rejected: bad credentials", "path", r.URL.Path, "error", err)
			writeErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
			return
		}
		next(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	}
}

type createOrderRequest struct {
	RestaurantID string `json:"restaurant_id"`
}

type createOrderResponse struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

// CreateOrder handles POST /api/v1/order
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for create order", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RestaurantID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "Restaurant ID is required")
		return
	}

	orderID, userID, err := h.orderService.CreateOrder(r.Context(), req.RestaurantID)
	if err != nil {
		h.logger.Warn("Failed to create order", "restaurant_id", req.RestaurantID, "error", err)
		statusCode := statusFromError(err)
		writeErrorResponse(w, statusCode, errorMessage(err, statusCode))
		return
	}

	writeJSONResponse(w, http.StatusCreated, createOrderResponse{OrderID: orderID, UserID: userID})
}

type joinOrderResponse struct {
	UserID string `json:"user_id"`
}

// JoinOrder handles PUT /api/v1/order/{orderID}
func (h *OrderHandler) JoinOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderID")

	userID, err := h.orderService.JoinOrder(r.Context(), orderID)
	if err != nil {
		h.logger.Warn("Failed to join order", "order_id", orderID, "error", err)
		statusCode := statusFromError(err)
		writeErrorResponse(w, statusCode, errorMessage(err, statusCode))
		return
	}

	writeJSONResponse(w, http.StatusCreated, joinOrderResponse{UserID: userID})
}

type modifyCartResponse struct {
	Status string `json:"status"`
}

// ModifyCart handles PUT /api/v1/order/{orderID}/{userID}
func (h *OrderHandler) ModifyCart(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderID")
	userID := r.PathValue("userID")

	var req service.ModifyCartRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for modify cart", "order_id", orderID, "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	result, err := h.orderService.ModifyCart(r.Context(), orderID, userID, req)
	if err != nil {
		h.logger.Warn("Failed to modify cart",
			"order_id", orderID, "user_id", userID, "product_id", req.ProductID, "error", err)
		statusCode := statusFromError(err)
		writeErrorResponse(w, statusCode, errorMessage(err, statusCode))
		return
	}

	writeJSONResponse(w, http.StatusOK, modifyCartResponse{Status: string(result)})
}

// GetParticipantCart handles GET /api/v1/order/{orderID}/{userID}
func (h *OrderHandler) GetParticipantCart(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderID")
	userID := r.PathValue("userID")

	lines, err := h.orderService.GetParticipantCart(r.Context(), orderID, userID)
	if err != nil {
		h.logger.Warn("Failed to get participant cart",
			"order_id", orderID, "user_id", userID, "error", err)
		statusCode := statusFromError(err)
		writeErrorResponse(w, statusCode, errorMessage(err, statusCode))
		return
	}

	writeJSONResponse(w, http.StatusOK, lines)
}

// FinalizeOrder handles POST /api/v1/order/{orderID}/finalize. Routed
// behind RequireAuth.
func (h *OrderHandler) FinalizeOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderID")

	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}

	result, err := h.orderService.FinalizeOrder(r.Context(), orderID, principal.UserID)
	if err != nil {
		h.logger.Warn("Failed to finalize order",
			"order_id", orderID, "user_id", principal.UserID, "error", err)
		statusCode := statusFromError(err)
		writeErrorResponse(w, statusCode, errorMessage(err, statusCode))
		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}

type fulfillOrderResponse struct {
	FulfilledAt string `json:"fulfilled_at"`
}

// FulfillOrder handles POST /api/v1/order/{orderID}/fulfill. Routed behind
// RequireAuth.
func (h *OrderHandler) FulfillOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderID")

	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}

	fulfilledAt, err := h.orderService.FulfillOrder(r.Context(), orderID, principal.UserID)
	if err != nil {
		h.logger.Warn("Failed to fulfill order",
			"order_id", orderID, "user_id", principal.UserID, "error", err)
		statusCode := statusFromError(err)
		writeErrorResponse(w, statusCode, errorMessage(err, statusCode))
		return
	}

	writeJSONResponse(w, http.StatusOK, fulfillOrderResponse{
		FulfilledAt: fulfilledAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}
