package api

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/authmonitor/internal/api/handlers"
	"github.com/baharkarakas/authmonitor/internal/auth"
	"github.com/baharkarakas/authmonitor/internal/config"
	"github.com/baharkarakas/authmonitor/internal/metrics"
	"github.com/baharkarakas/authmonitor/internal/middleware"
)

func NewRouter(cfg config.Config, authCtrl *auth.Controller) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(corsOptions(cfg.CORSOrigins)))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	ah := handlers.NewAuthHandler(authCtrl, cfg.SecureCookie)
	dh := handlers.NewDashboardHandler()
	gate := middleware.NewSessionGate(authCtrl, cfg.SecureCookie)

	r.Get(middleware.EntryPath, ah.EntryScreen)
	r.Post("/auth", ah.Submit)
	r.Post("/auth/login", ah.Login)
	r.Post("/auth/register", ah.Register)

	r.Group(func(r chi.Router) {
		r.Use(gate.Require)

		r.Post("/auth/logout", ah.Logout)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", dh.Show)
			r.Post("/refresh", dh.Refresh)

			r.Get("/users", dh.Users)
			r.Post("/users", dh.CreateUser)
			r.Put("/users/{id}", dh.UpdateUser)
			r.Get("/users/{id}/edit", dh.EditUser)
			r.Delete("/users/{id}", dh.DeleteUser)

			r.Get("/logs", dh.Logs)
			r.Post("/changes", dh.DetectChanges)

			r.Put("/dialog", dh.OpenDialog)
			r.Delete("/dialog", dh.CloseDialog)
		})
	})

	return r
}

// corsOptions allows credentials only for an explicit origin list.
func corsOptions(origins []string) cors.Options {
	wildcard := len(origins) == 0 || slices.Contains(origins, "*")
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: !wildcard,
	}
}
