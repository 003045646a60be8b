package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

// Handler exposes the login endpoints. Every credential failure surfaces
// the same message so the endpoint cannot be used to enumerate accounts;
// disabled accounts are the deliberate exception and return 403.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates an auth handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes returns the auth sub-router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login-patient", h.LoginPatient)
	r.Post("/login-doctor", h.LoginDoctor)
	r.Post("/login-employee", h.LoginEmployee)
	return r
}

// LoginPatient handles POST /login-patient.
func (h *Handler) LoginPatient(w http.ResponseWriter, r *http.Request) {
	h.login(RolePatient)(w, r)
}

// LoginDoctor handles POST /login-doctor.
func (h *Handler) LoginDoctor(w http.ResponseWriter, r *http.Request) {
	h.login(RoleDoctor)(w, r)
}

// LoginEmployee handles POST /login-employee.
func (h *Handler) LoginEmployee(w http.ResponseWriter, r *http.Request) {
	h.login(RoleEmployee)(w, r)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool     `json:"success"`
	Profile *Profile `json:"profile"`
	Token   string   `json:"token"`
}

func (h *Handler) login(role Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email y password son requeridos")
			return
		}

		profile, token, err := h.svc.Login(r.Context(), role, req.Email, req.Password)
		if err != nil {
			h.writeLoginError(w, role, err)
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Success: true, Profile: profile, Token: token})
	}
}

func (h *Handler) writeLoginError(w http.ResponseWriter, role Role, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "credenciales inválidas")
	case errors.Is(err, ErrAccountDeleted), errors.Is(err, ErrAccountInactive):
		writeError(w, http.StatusForbidden, "cuenta inactiva o eliminada")
	case errors.Is(err, ErrAccountNotApproved):
		writeError(w, http.StatusForbidden, "cuenta pendiente de aprobación")
	case errors.Is(err, ErrMissingHash), errors.Is(err, ErrNotConfigured):
		h.logger.Error("login configuration error", "error", err, "role", role)
		writeError(w, http.StatusInternalServerError, "error de configuración del servidor")
	default:
		h.logger.Error("login failed", "error", err, "role", role)
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
