package postal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

// Handler exposes the postal-code lookup endpoint.
type Handler struct {
	client *Client
	logger *logging.Logger
}

func NewHandler(client *Client, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{client: client, logger: logger}
}

// Routes returns the postal sub-router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{code}", h.Lookup)
	return r
}

// Lookup handles GET /postal-codes/{code}.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, "código postal requerido")
		return
	}

	result, err := h.client.Lookup(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, ErrCodeNotFound):
			writeError(w, http.StatusNotFound, "código postal no encontrado")
		case errors.Is(err, ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, "el servicio de códigos postales no respondió a tiempo")
		case errors.Is(err, ErrUpstream):
			writeError(w, http.StatusBadGateway, "servicio de códigos postales no disponible")
		default:
			h.logger.Error("postal lookup failed", "error", err, "code", code)
			writeError(w, http.StatusInternalServerError, "error interno del servidor")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
