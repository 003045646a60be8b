package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sanavida/clinic-booking-platform/internal/appointments"
	"github.com/sanavida/clinic-booking-platform/internal/auth"
	httpmiddleware "github.com/sanavida/clinic-booking-platform/internal/http/middleware"
	"github.com/sanavida/clinic-booking-platform/internal/postal"
	"github.com/sanavida/clinic-booking-platform/internal/slots"
	"github.com/sanavida/clinic-booking-platform/internal/video"
	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	AuthHandler         *auth.Handler
	VideoHandler        *video.Handler
	SlotsHandler        *slots.Handler
	PostalHandler       *postal.Handler
	MetricsHandler      http.Handler

	// SessionJWTSecret protects the appointment and video routes. Empty
	// leaves them open, for local development only.
	SessionJWTSecret string

	LoginRateLimit float64
	LoginRateBurst int

	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.PostalHandler != nil {
		r.Mount("/postal-codes", cfg.PostalHandler.Routes())
	}

	// Login endpoints, rate limited per IP. The bare /login-* paths are
	// what the web clients call; /auth carries the same handlers.
	if cfg.AuthHandler != nil {
		rate, burst := cfg.LoginRateLimit, cfg.LoginRateBurst
		if rate <= 0 {
			rate = 1
		}
		if burst <= 0 {
			burst = 5
		}
		r.Group(func(login chi.Router) {
			login.Use(httpmiddleware.RateLimit(rate, burst))
			login.Post("/login-patient", cfg.AuthHandler.LoginPatient)
			login.Post("/login-doctor", cfg.AuthHandler.LoginDoctor)
			login.Post("/login-employee", cfg.AuthHandler.LoginEmployee)
			login.Mount("/auth", cfg.AuthHandler.Routes())
		})
	}

	// Booking endpoints require a session when a secret is configured.
	r.Group(func(api chi.Router) {
		if cfg.SessionJWTSecret != "" {
			api.Use(httpmiddleware.SessionAuth(cfg.SessionJWTSecret))
		}
		if cfg.AppointmentsHandler != nil {
			api.Mount("/appointments", cfg.AppointmentsHandler.Routes())
		}
		if cfg.VideoHandler != nil {
			api.Mount("/video", cfg.VideoHandler.Routes())
		}
		if cfg.SlotsHandler != nil {
			api.Mount("/slots", cfg.SlotsHandler.Routes())
		}
	})

	return r
}
