package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"family-organizer/internal/config"
	"family-organizer/internal/transport/httpserver/handler"
	authmw "family-organizer/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.Auth) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(authmw.Metrics)

	r.Get("/", handlers.Health)
	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(handlers.Uploads.Dir())))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", handlers.Signup)
		r.Post("/auth/login", handlers.Login)
		r.Post("/auth/refresh", handlers.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Post("/profile/complete", handlers.CompleteProfile)

			r.Post("/family/{familyId}/members", handlers.AddFamilyMember)
			r.Get("/family/{familyId}/members", handlers.GetFamilyMembers)

			r.Post("/tasks/custom", handlers.CreateTask)
			r.Get("/tasks", handlers.ListTaskTemplates)
			r.Get("/tasks/categories", handlers.ListCategories)
			r.Post("/tasks/categories", handlers.AddCategory)
		})
	})

	return r
}
