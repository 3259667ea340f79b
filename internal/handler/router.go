package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dangerclosesec/tracker/internal/auth"
	"github.com/dangerclosesec/tracker/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter assembles the middleware stack and API routes.
func NewRouter(
	logger *slog.Logger,
	tokenManager *auth.TokenManager,
	trackerHandler *TrackerHandler,
	activityHandler *ActivityHandler,
) http.Handler {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.AllowContentType("application/json"))
		r.Use(middleware.Identify(tokenManager))

		r.Route("/organizations/{slug}", func(r chi.Router) {
			r.Get("/", trackerHandler.GetOrganization)
			r.Get("/projects", trackerHandler.ListOrganizationProjects)
		})

		r.Post("/projects", trackerHandler.CreateProject)
		r.Route("/projects/{id}", func(r chi.Router) {
			r.Get("/", trackerHandler.GetProject)
			r.Patch("/", trackerHandler.UpdateProject)
			r.Get("/tasks", trackerHandler.ListProjectTasks)
			r.Post("/tasks", trackerHandler.CreateTask)
		})

		r.Route("/tasks/{id}", func(r chi.Router) {
			r.Patch("/status", trackerHandler.UpdateTaskStatus)
			r.Get("/comments", trackerHandler.ListTaskComments)
			r.Post("/comments", trackerHandler.AddComment)
		})

		r.Get("/activity", activityHandler.ListActivity)
	})

	return r
}
