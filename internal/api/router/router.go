package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/upeo/website-backend/internal/http/handlers"
	httpmiddleware "github.com/upeo/website-backend/internal/http/middleware"
	"github.com/upeo/website-backend/internal/leads"
	"github.com/upeo/website-backend/internal/resources"
	"github.com/upeo/website-backend/internal/wizard"
	"github.com/upeo/website-backend/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	LeadsHandler     *leads.Handler
	WizardHandler    *wizard.Handler
	ResourcesHandler *resources.Handler
	AdminDashboard   *handlers.AdminDashboardHandler

	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-IP rate limit applied to the public intake endpoints. Zero disables it.
	IntakeRateLimit float64
	IntakeRateBurst int
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
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.ResourcesHandler != nil {
			public.Get("/resources", cfg.ResourcesHandler.List)
			public.Get("/resources/{slug}", cfg.ResourcesHandler.Get)
		}
	})

	// Public intake endpoints, rate limited against form spam.
	r.Group(func(intake chi.Router) {
		if cfg.IntakeRateLimit > 0 {
			intake.Use(httpmiddleware.RateLimit(cfg.IntakeRateLimit, cfg.IntakeRateBurst))
		}
		if cfg.LeadsHandler != nil {
			intake.Post("/leads", cfg.LeadsHandler.CreateLead)
		}
		if cfg.WizardHandler != nil {
			intake.Mount("/wizard", cfg.WizardHandler.Routes())
		}
	})

	// Admin routes (protected by HMAC JWT)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.LeadsHandler != nil {
				admin.Get("/leads", cfg.LeadsHandler.ListLeads)
				admin.Get("/leads/{leadID}", cfg.LeadsHandler.GetLead)
			}
			if cfg.ResourcesHandler != nil {
				admin.Get("/resources", cfg.ResourcesHandler.ListAll)
				admin.Post("/resources", cfg.ResourcesHandler.Create)
				admin.Put("/resources/{resourceID}", cfg.ResourcesHandler.Update)
				admin.Delete("/resources/{resourceID}", cfg.ResourcesHandler.Delete)
			}
			if cfg.AdminDashboard != nil {
				admin.Get("/dashboard", cfg.AdminDashboard.GetDashboard)
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
