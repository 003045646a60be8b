package video

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sanavida/clinic-booking-platform/internal/appointments"
	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

// Handler exposes room provisioning and token minting.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a video handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes returns the video sub-router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/create-room", h.CreateRoom)
	r.Post("/token", h.Token)
	return r
}

type createRoomBody struct {
	AppointmentID string `json:"appointmentId"`
	CreatedBy     string `json:"createdBy"`
}

type tokenBody struct {
	UserID string `json:"userId"`
}

// CreateRoom handles POST /video/create-room.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	if strings.TrimSpace(req.AppointmentID) == "" || strings.TrimSpace(req.CreatedBy) == "" {
		writeError(w, http.StatusBadRequest, "appointmentId y createdBy son requeridos")
		return
	}

	roomID, meetingLink, err := h.svc.CreateRoom(r.Context(), req.AppointmentID, req.CreatedBy)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrNotFound):
			writeError(w, http.StatusNotFound, "Cita no encontrada")
		case errors.Is(err, appointments.ErrInvalidModality):
			writeError(w, http.StatusBadRequest, "la cita no es una consulta en línea")
		case errors.Is(err, ErrUpstream):
			writeError(w, http.StatusBadGateway, "servicio de video no disponible")
		default:
			h.logger.Error("create room failed", "error", err, "appointment_id", req.AppointmentID)
			writeError(w, http.StatusInternalServerError, "error interno del servidor")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"roomId": roomID, "meetingLink": meetingLink})
}

// Token handles POST /video/token.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "userId es requerido")
		return
	}

	token, err := h.svc.Token(req.UserID)
	if err != nil {
		if errors.Is(err, ErrTokenNotConfigured) {
			h.logger.Error("token minting not configured")
			writeError(w, http.StatusInternalServerError, "error de configuración del servidor")
			return
		}
		h.logger.Error("token minting failed", "error", err)
		writeError(w, http.StatusInternalServerError, "error interno del servidor")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "userId": req.UserID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
