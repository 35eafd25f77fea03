package api

import (
	"github.com/taskbridge-app/taskbridge/backend/config"
	"github.com/taskbridge-app/taskbridge/backend/database"
	"github.com/taskbridge-app/taskbridge/backend/services"
)

// initializeHandlers builds the service graph on top of the repositories and
// returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, c map[string]string) *routeHandlers {
	bootstrapCodes := config.GetStrings(c, "BOOTSTRAP_EMP_CODES", []string{"E0001"})

	visibility := services.NewVisibilityService(database.ProjectRepo(), bootstrapCodes)
	projectService := services.NewProjectService(database.ProjectRepo(), visibility)
	keyStepService := services.NewKeyStepService(database.KeyStepRepo())
	taskService := services.NewTaskService(database.TaskRepo())
	aggregator := services.NewTaskAggregator(database.TaskRepo())

	sink := services.NewResendSink(
		config.GetString(c, "RESEND_API_KEY", ""),
		config.GetString(c, "RESEND_FROM_EMAIL", "notifications@taskbridge.app"),
	)
	notifier := services.NewCompletionNotifier(database.EmployeeRepo(), database.ProjectRepo(), database.TaskRepo(), sink)

	return &routeHandlers{
		projectHandler:  newProjectHandler(projectService, notifier),
		keyStepHandler:  newKeyStepHandler(keyStepService),
		taskHandler:     newTaskHandler(taskService, aggregator, projectService),
		employeeHandler: newEmployeeHandler(database.EmployeeRepo()),
	}
}
