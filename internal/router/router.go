package router

import (
	"net/http"

	"github.com/02loveslollipop/MiPedido/internal/handler"
)

// NewRouter builds the HTTP route table. Finalize and fulfill are
// registered before the {userID} wildcard routes they would otherwise
// shadow; the mux prefers the more specific literal segment.
func NewRouter(orderHandler *handler.OrderHandler, shortenerHandler *handler.ShortenerHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/order", orderHandler.CreateOrder)
	mux.HandleFunc("PUT /api/v1/order/{orderID}", orderHandler.JoinOrder)
	mux.HandleFunc("POST /api/v1/order/{orderID}/finalize", orderHandler.RequireAuth(orderHandler.FinalizeOrder))
	mux.HandleFunc("POST /api/v1/order/{orderID}/fulfill", orderHandler.RequireAuth(orderHandler.FulfillOrder))
	mux.HandleFunc("PUT /api/v1/order/{orderID}/{userID}", orderHandler.ModifyCart)
	mux.HandleFunc("GET /api/v1/order/{orderID}/{userID}", orderHandler.GetParticipantCart)

	mux.HandleFunc("POST /api/v1/shortener", shortenerHandler.CreateShortCode)
	mux.HandleFunc("GET /api/v1/shortener/{code}", shortenerHandler.ResolveShortCode)

	return mux
}
