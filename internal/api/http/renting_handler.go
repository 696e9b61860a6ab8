package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"clubrenting-backend/internal/domain"
	"clubrenting-backend/internal/logger"
	"clubrenting-backend/internal/service"
)

// RentingHandler exposes the renting façade over JSON. It does no
// business logic of its own; every decision happens in the service
// layer and errors map onto HTTP statuses by taxonomy.
type RentingHandler struct {
	renting service.RentingService
}

func NewRentingHandler(renting service.RentingService) *RentingHandler {
	return &RentingHandler{renting: renting}
}

type sectionPayload struct {
	Section domain.Section         `json:"section"`
	Items   []domain.InventoryItem `json:"items"`
}

type availabilitySectionPayload struct {
	Section domain.Section                    `json:"section"`
	Items   []domain.ConstrainedInventoryItem `json:"items"`
}

type checkoutRecord struct {
	ItemID    string     `json:"item_id"`
	Amount    int64      `json:"amount"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type checkoutRequest struct {
	Records []checkoutRecord `json:"records"`
}

type checkoutResponse struct {
	IDs   []string `json:"ids"`
	Error string   `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var malformedErr *domain.MalformedRecordError
	var validationErr *domain.ValidationError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, domain.ErrInvalidRange):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyReturned):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrRemoteUnavailable):
		status = http.StatusServiceUnavailable
	case errors.As(err, &malformedErr):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// groupedPayload flattens the section map into a slice sorted by
// section id so the response body is stable.
func groupedPayload(catalog map[domain.Section][]domain.InventoryItem) []sectionPayload {
	payload := make([]sectionPayload, 0, len(catalog))
	for section, items := range catalog {
		payload = append(payload, sectionPayload{Section: section, Items: items})
	}
	sort.Slice(payload, func(i, j int) bool { return payload[i].Section.ID < payload[j].Section.ID })
	return payload
}

func (h *RentingHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.renting.GetInventory(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupedPayload(catalog))
}

func (h *RentingHandler) GetAvailableItems(w http.ResponseWriter, r *http.Request) {
	available, err := h.renting.GetAvailableItems(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	// ?grouped=true folds the flat list into per-section blocks for the
	// catalog view; the default flat shape serves the checkout form.
	if r.URL.Query().Get("grouped") == "true" {
		grouped := domain.GroupBySections(available)
		payload := make([]availabilitySectionPayload, 0, len(grouped))
		for section, items := range grouped {
			payload = append(payload, availabilitySectionPayload{Section: section, Items: items})
		}
		sort.Slice(payload, func(i, j int) bool { return payload[i].Section.ID < payload[j].Section.ID })
		writeJSON(w, http.StatusOK, payload)
		return
	}

	writeJSON(w, http.StatusOK, available)
}

func (h *RentingHandler) GetMyRentals(w http.ResponseWriter, r *http.Request) {
	uid := UserUIDFromContext(r.Context())
	rentals, err := h.renting.GetUserRentals(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	if rentals == nil {
		rentals = []domain.RentingData{}
	}
	writeJSON(w, http.StatusOK, rentals)
}

// Checkout resolves the requested item ids against the catalog, builds
// the rental records for the authenticated member and submits them as a
// batch. A mid-batch remote failure answers 502 with the ids that were
// committed before it.
func (h *RentingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Records) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty checkout"})
		return
	}

	catalog, err := h.renting.GetInventory(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	itemsByID := make(map[string]domain.InventoryItem)
	for _, items := range catalog {
		for _, item := range items {
			itemsByID[item.ID] = item
		}
	}

	uid := UserUIDFromContext(r.Context())
	records := make([]domain.RentingData, 0, len(req.Records))
	for _, rec := range req.Records {
		item, ok := itemsByID[rec.ItemID]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown item " + rec.ItemID})
			return
		}
		records = append(records, domain.RentingData{
			UserUID:   uid,
			Item:      item,
			Amount:    rec.Amount,
			StartDate: rec.StartDate,
			EndDate:   rec.EndDate,
		})
	}

	ids, err := h.renting.SubmitRental(r.Context(), records)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusBadRequest, checkoutResponse{Error: err.Error()})
			return
		}
		// Partial success: surface what was committed.
		writeJSON(w, http.StatusBadGateway, checkoutResponse{IDs: ids, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, checkoutResponse{IDs: ids})
}

func (h *RentingHandler) Return(w http.ResponseWriter, r *http.Request) {
	rentalID := mux.Vars(r)["id"]
	uid := UserUIDFromContext(r.Context())

	rentals, err := h.renting.GetUserRentals(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	var record *domain.RentingData
	for i := range rentals {
		if rentals[i].ID == rentalID {
			record = &rentals[i]
			break
		}
	}
	if record == nil {
		writeError(w, domain.ErrNotFound)
		return
	}

	updated, err := h.renting.ReturnRental(r.Context(), record, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *RentingHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if err := h.renting.Invalidate(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
