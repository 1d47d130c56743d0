package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sleepr-io/sleepr/backend/internal/auth/guard"
	commonhttp "github.com/sleepr-io/sleepr/backend/internal/common/http"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	"github.com/sleepr-io/sleepr/backend/internal/reservation/domain"
	"github.com/sleepr-io/sleepr/backend/internal/reservation/service"
)

type createReservationRequest struct {
	PlaceID   string    `json:"place_id" validate:"required,uuid4"`
	InvoiceID string    `json:"invoice_id" validate:"required,uuid4"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

type updateReservationRequest struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

type reservationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PlaceID   string    `json:"place_id"`
	InvoiceID string    `json:"invoice_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Handler struct {
	reservations *service.ReservationService
	log          *logger.Logger
}

func NewHandler(reservations *service.ReservationService, log *logger.Logger) *Handler {
	return &Handler{reservations: reservations, log: log}
}

// Mount registers the reservation routes. Every route requires a bearer
// token; the user id always comes from the verified claims, never the body.
func (h *Handler) Mount(mux *http.ServeMux) {
	mux.HandleFunc("/api/reservations", h.handleCollection)
	mux.HandleFunc("/api/reservations/", h.handleItem)
}

func (h *Handler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) handleItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/reservations/")
	if id == "" || strings.Contains(id, "/") || commonhttp.ValidateUUID(id) != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "invalid reservation id", nil, "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPatch:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req createReservationRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if details, err := commonhttp.ValidateStruct(req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeValidationFailed, "validation failed", details, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.reservations.Create(ctx, service.CreateReservationInput{
		UserID:    userID,
		PlaceID:   req.PlaceID,
		InvoiceID: req.InvoiceID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toResponse(res))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.reservations.List(ctx, userID, queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	responses := make([]reservationResponse, 0, len(out))
	for _, res := range out {
		responses = append(responses, toResponse(res))
	}
	commonhttp.WriteJSON(w, http.StatusOK, responses)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.reservations.Get(ctx, id, userID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toResponse(res))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req updateReservationRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if details, err := commonhttp.ValidateStruct(req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeValidationFailed, "validation failed", details, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.reservations.UpdateDates(ctx, id, userID, req.StartDate, req.EndDate)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toResponse(res))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.reservations.Delete(ctx, id, userID); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func principalID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := guard.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authentication required", nil, "")
		return "", false
	}
	return claims.UserID, true
}

func toResponse(res domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:        res.ID,
		UserID:    res.UserID,
		PlaceID:   res.PlaceID,
		InvoiceID: res.InvoiceID,
		StartDate: res.StartDate,
		EndDate:   res.EndDate,
		CreatedAt: res.CreatedAt,
		UpdatedAt: res.UpdatedAt,
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
