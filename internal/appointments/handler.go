package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sanavida/clinic-booking-platform/internal/slots"
	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

// Handler exposes the appointment lifecycle over HTTP. User-facing
// messages are Spanish; everything else is English.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes returns the appointment sub-router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/confirm", h.Confirm)
	r.Post("/reject", h.Reject)
	r.Post("/cancel", h.Cancel)
	r.Post("/complete", h.Complete)
	r.Post("/no-show", h.NoShow)
	return r
}

type confirmRequest struct {
	AppointmentID string `json:"appointment_id"`
	MeetingLink   string `json:"meeting_link"`
}

type rejectRequest struct {
	AppointmentID   string `json:"appointment_id"`
	RejectionReason string `json:"rejection_reason"`
}

type cancelRequest struct {
	AppointmentID      string `json:"appointment_id"`
	CancellationReason string `json:"cancellation_reason"`
	CancelledBy        string `json:"cancelled_by"`
}

type completeRequest struct {
	AppointmentID string `json:"appointment_id"`
	DoctorNotes   string `json:"doctor_notes"`
}

type noShowRequest struct {
	AppointmentID string `json:"appointment_id"`
}

// Create handles POST /appointments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	appt, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			writeError(w, http.StatusBadRequest, "faltan campos requeridos")
			return
		}
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// List handles GET /appointments?doctor_id=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	doctorID := strings.TrimSpace(r.URL.Query().Get("doctor_id"))
	if doctorID == "" {
		writeError(w, http.StatusBadRequest, "doctor_id es requerido")
		return
	}
	appts, err := h.svc.ListByDoctor(r.Context(), doctorID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if appts == nil {
		appts = []*Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appts})
}

// Confirm handles POST /appointments/confirm.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	if strings.TrimSpace(req.AppointmentID) == "" || strings.TrimSpace(req.MeetingLink) == "" {
		writeError(w, http.StatusBadRequest, "appointment_id y meeting_link son requeridos")
		return
	}
	if _, err := h.svc.Confirm(r.Context(), req.AppointmentID, req.MeetingLink); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cita confirmada exitosamente"})
}

// Reject handles POST /appointments/reject.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	if strings.TrimSpace(req.AppointmentID) == "" || strings.TrimSpace(req.RejectionReason) == "" {
		writeError(w, http.StatusBadRequest, "appointment_id y rejection_reason son requeridos")
		return
	}
	if _, err := h.svc.Reject(r.Context(), req.AppointmentID, req.RejectionReason); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cita rechazada exitosamente"})
}

// Cancel handles POST /appointments/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	if strings.TrimSpace(req.AppointmentID) == "" || strings.TrimSpace(req.CancellationReason) == "" {
		writeError(w, http.StatusBadRequest, "appointment_id y cancellation_reason son requeridos")
		return
	}
	if _, err := h.svc.Cancel(r.Context(), req.AppointmentID, req.CancellationReason, req.CancelledBy); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cita cancelada exitosamente"})
}

// Complete handles POST /appointments/complete.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	if strings.TrimSpace(req.AppointmentID) == "" {
		writeError(w, http.StatusBadRequest, "appointment_id es requerido")
		return
	}
	if _, err := h.svc.Complete(r.Context(), req.AppointmentID, req.DoctorNotes); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cita completada exitosamente"})
}

// NoShow handles POST /appointments/no-show.
func (h *Handler) NoShow(w http.ResponseWriter, r *http.Request) {
	var req noShowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	if strings.TrimSpace(req.AppointmentID) == "" {
		writeError(w, http.StatusBadRequest, "appointment_id es requerido")
		return
	}
	if _, err := h.svc.MarkNoShow(r.Context(), req.AppointmentID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cita marcada como no asistida"})
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Cita no encontrada")
	case errors.Is(err, ErrInvalidTransition):
		writeError(w, http.StatusConflict, "la cita no admite esta transición en su estado actual")
	case errors.Is(err, ErrNotElapsed):
		writeError(w, http.StatusBadRequest, "la cita aún no ha finalizado")
	case errors.Is(err, ErrMissingReason):
		writeError(w, http.StatusBadRequest, "el motivo es requerido")
	case errors.Is(err, slots.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "horario no encontrado")
	case errors.Is(err, slots.ErrSlotUnavailable), errors.Is(err, slots.ErrSlotHeld):
		writeError(w, http.StatusConflict, "el horario seleccionado no está disponible")
	default:
		h.logger.Error("appointment request failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "error interno del servidor")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
