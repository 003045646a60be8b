package slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

// SlotLister reads bookable capacity.
type SlotLister interface {
	ListOpen(ctx context.Context, doctorID string, date string) ([]*Slot, error)
}

// Holder manages advisory slot holds.
type Holder interface {
	Acquire(ctx context.Context, slotID, patientID string) error
	Release(ctx context.Context, slotID, patientID string) error
}

// Handler exposes slot browsing and the booking-form hold.
type Handler struct {
	store  SlotLister
	holds  Holder
	logger *logging.Logger
}

// NewHandler creates a slots handler. holds may be nil when Redis is not
// configured; the hold endpoints then return 503.
func NewHandler(store SlotLister, holds Holder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, holds: holds, logger: logger}
}

// Routes returns the slots sub-router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/{id}/hold", h.Hold)
	r.Delete("/{id}/hold", h.ReleaseHold)
	return r
}

// List handles GET /slots?doctor_id=&date=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	doctorID := strings.TrimSpace(r.URL.Query().Get("doctor_id"))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if doctorID == "" || date == "" {
		writeError(w, http.StatusBadRequest, "doctor_id y date son requeridos")
		return
	}

	open, err := h.store.ListOpen(r.Context(), doctorID, date)
	if err != nil {
		h.logger.Error("list slots failed", "error", err, "doctor_id", doctorID)
		writeError(w, http.StatusInternalServerError, "error interno del servidor")
		return
	}
	if open == nil {
		open = []*Slot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": open})
}

type holdBody struct {
	PatientID string `json:"patient_id"`
}

// Hold handles POST /slots/{id}/hold.
func (h *Handler) Hold(w http.ResponseWriter, r *http.Request) {
	if h.holds == nil {
		writeError(w, http.StatusServiceUnavailable, "reservas temporales no disponibles")
		return
	}
	slotID := chi.URLParam(r, "id")
	var req holdBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.PatientID) == "" {
		writeError(w, http.StatusBadRequest, "patient_id es requerido")
		return
	}

	if err := h.holds.Acquire(r.Context(), slotID, req.PatientID); err != nil {
		if errors.Is(err, ErrSlotHeld) {
			writeError(w, http.StatusConflict, "el horario está siendo reservado por otro paciente")
			return
		}
		h.logger.Error("acquire hold failed", "error", err, "slot_id", slotID)
		writeError(w, http.StatusInternalServerError, "error interno del servidor")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"held": true})
}

// ReleaseHold handles DELETE /slots/{id}/hold.
func (h *Handler) ReleaseHold(w http.ResponseWriter, r *http.Request) {
	if h.holds == nil {
		writeError(w, http.StatusServiceUnavailable, "reservas temporales no disponibles")
		return
	}
	slotID := chi.URLParam(r, "id")
	var req holdBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.PatientID) == "" {
		writeError(w, http.StatusBadRequest, "patient_id es requerido")
		return
	}

	if err := h.holds.Release(r.Context(), slotID, req.PatientID); err != nil {
		h.logger.Error("release hold failed", "error", err, "slot_id", slotID)
		writeError(w, http.StatusInternalServerError, "error interno del servidor")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"held": false})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
