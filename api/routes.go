package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// setupFrontendRoutes sets up all routes with authentication
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, startupTime time.Time) {
	// Unauthenticated health probe
	r.Get("/health", healthHandler(startupTime))

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		// Project Handler endpoints
		r.Get("/projects", handlers.projectHandler.getVisibleProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Post("/project", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

		// Key Step Handler endpoints
		r.Post("/key-step", handlers.keyStepHandler.createKeyStep())
		r.Get("/key-step/{keyStepID}", handlers.keyStepHandler.getKeyStep())
		r.Put("/key-step/{keyStepID}", handlers.keyStepHandler.updateKeyStep())
		r.Delete("/key-step/{keyStepID}", handlers.keyStepHandler.deleteKeyStep())
		r.Post("/key-step/{keyStepID}/clone", handlers.keyStepHandler.cloneKeyStep())
		r.Get("/key-step/{keyStepID}/children", handlers.keyStepHandler.getChildren())
		r.Get("/project/{projectID}/key-steps", handlers.keyStepHandler.getProjectTree())

		// Task Handler endpoints
		r.Get("/tasks", handlers.taskHandler.getAllVisibleTasks())
		r.Get("/project/{projectID}/tasks", handlers.taskHandler.getProjectTasks())
		r.Post("/task", handlers.taskHandler.createTask())
		r.Put("/task/{taskID}", handlers.taskHandler.updateTask())
		r.Delete("/task/{taskID}", handlers.taskHandler.deleteTask())
		r.Post("/task/{taskID}/clone", handlers.taskHandler.cloneTask())
		r.Patch("/subtask/{subtaskID}", handlers.taskHandler.patchSubtask())

		// Employee Handler endpoints
		r.Get("/employees", handlers.employeeHandler.getAllEmployees())
		r.Get("/employee/{employeeID}", handlers.employeeHandler.getEmployee())
	})
}

func healthHandler(startupTime time.Time) http.HandlerFunc {
	responder := NewResponder(log.With().Str("handlerName", "health").Logger())

	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteJSON(w, map[string]interface{}{
			"status":         "ok",
			"uptime_seconds": int(time.Since(startupTime).Seconds()),
		})
	}
}
