package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"clubrenting-backend/internal/security"
	"clubrenting-backend/internal/service"
)

// NewRouter assembles the API surface. Everything under /api/v1 needs a
// valid member token.
func NewRouter(renting service.RentingService, tokens security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	handler := NewRentingHandler(renting)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))
	api.HandleFunc("/inventory", handler.GetInventory).Methods(http.MethodGet)
	api.HandleFunc("/inventory/available", handler.GetAvailableItems).Methods(http.MethodGet)
	api.HandleFunc("/rentals", handler.GetMyRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals", handler.Checkout).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/return", handler.Return).Methods(http.MethodPost)
	api.HandleFunc("/cache/invalidate", handler.InvalidateCache).Methods(http.MethodPost)

	return router
}
