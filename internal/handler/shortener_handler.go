package handler

import (
	"net/http"

	"github.com/02loveslollipop/MiPedido/internal/service"
	"github.com/02loveslollipop/MiPedido/pkg/logger"
)

// ShortenerHandler exposes short code creation and resolution.
type ShortenerHandler struct {
	shortenerService service.ShortenerServiceInterface
	logger           *logger.Logger
}

func NewShortenerHandler(shortenerService service.ShortenerServiceInterface, log *logger.Logger) *ShortenerHandler {
	return &ShortenerHandler{
		shortenerService: shortenerService,
		logger:           log.WithComponent("shortener_handler"),
	}
}

type createShortCodeRequest struct {
	OrderID string `json:"order_id"`
}

type createShortCodeResponse struct {
	ShortCode string `json:"short_code"`
}

// CreateShortCode handles POST /api/v1/shortener
func (h *ShortenerHandler) CreateShortCode(w http.ResponseWriter, r *http.Request) {
	var req createShortCodeRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for create short code", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OrderID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "Order ID is required")
		return
	}

	code, err := h.shortenerService.CreateShortCode(r.Context(), req.OrderID)
	if err != nil {
		h.logger.Warn("Failed to create short code", "order_id", req.OrderID, "error", err)
		statusCode := statusFromError(err)
		writeErrorResponse(w, statusCode, errorMessage(err, statusCode))
		return
	}

	writeJSONResponse(w, http.StatusCreated, createShortCodeResponse{ShortCode: code})
}

type resolveShortCodeResponse struct {
	OrderID string `json:"order_id"`
}

// ResolveShortCode handles GET /api/v1/shortener/{code}
func (h *ShortenerHandler) ResolveShortCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	orderID, err := h.shortenerService.ResolveShortCode(r.Context(), code)
	if err != nil {
		h.logger.Warn("Failed to resolve short code", "short_code", code, "error", err)
		statusCode := statusFromError(err)
		writeErrorResponse(w, statusCode, errorMessage(err, statusCode))
		return
	}

	writeJSONResponse(w, http.StatusOK, resolveShortCodeResponse{OrderID: orderID})
}
