package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskbridge-app/taskbridge/backend/errs"
	"github.com/taskbridge-app/taskbridge/backend/services"
)

type taskHandler struct {
	responder  Responder
	logger     zerolog.Logger
	tasks      *services.TaskService
	aggregator *services.TaskAggregator
	projects   *services.ProjectService
}

func newTaskHandler(tasks *services.TaskService, aggregator *services.TaskAggregator, projects *services.ProjectService) taskHandler {
	logger := log.With().Str("handlerName", "taskHandler").Logger()

	return taskHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		tasks:      tasks,
		aggregator: aggregator,
		projects:   projects,
	}
}

// TaskCollection represents enriched tasks for one or more projects
type TaskCollection struct {
	Tasks []services.EnrichedTask `json:"tasks"`
	Total int                     `json:"total,omitempty"`
}

// getAllVisibleTasks aggregates tasks across every project the requester may see
// @Summary Get all visible tasks
// @Description Aggregates the tasks of every visible project, each task carrying its member assignments and subtasks with their assignee lists
// @Tags Tasks
// @Produce json
// @Success 200 {object} TaskCollection "Enriched tasks"
// @Failure 403 {object} ErrorResponse "Forbidden - Requester has no employee record"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error aggregating tasks"
// @Router /tasks [get]
func (h taskHandler) getAllVisibleTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("identity missing from context", err))
			return
		}

		visible, err := h.projects.ListVisible(r.Context(), identity)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projectIDs := make([]uuid.UUID, 0, len(visible))
		for _, p := range visible {
			projectIDs = append(projectIDs, p.ID)
		}

		enriched, err := h.aggregator.AggregateForProjects(r.Context(), projectIDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, TaskCollection{
			Tasks: enriched,
			Total: len(enriched),
		})
	}
}

// getProjectTasks aggregates the tasks of a single project
// @Summary Get project tasks
// @Description Returns the project's tasks with member assignments and subtasks attached
// @Tags Tasks
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} TaskCollection "Enriched tasks"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error aggregating tasks"
// @Router /project/{projectID}/tasks [get]
func (h taskHandler) getProjectTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		enriched, err := h.aggregator.AggregateForProjects(r.Context(), []uuid.UUID{projectID})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, TaskCollection{
			Tasks: enriched,
			Total: len(enriched),
		})
	}
}

// createTask creates a task with its member and subtask graph
// @Summary Create task
// @Description Creates a task. When assigner_id is omitted, it defaults to the requester's employee id.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task body services.TaskInput true "Task data"
// @Success 201 {object} models.ProjectTask "Created task"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid task data"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating task"
// @Router /task [post]
func (h taskHandler) createTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("identity missing from context", err))
			return
		}

		var input services.TaskInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode task request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("task", err))
			return
		}

		task, err := h.tasks.Create(r.Context(), input, identity)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, task)
	}
}

// updateTask fully replaces a task and its member/subtask graph
// @Summary Update task
// @Description Replaces the task row and the complete member and subtask sets with the payload. Omitted or empty sets delete the existing rows of that kind.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param taskID path string true "Task ID" format(uuid)
// @Param task body services.TaskInput true "Updated task data"
// @Success 200 {object} models.ProjectTask "Updated task"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid task data"
// @Failure 404 {object} ErrorResponse "Not Found - Task not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating task"
// @Router /task/{taskID} [put]
func (h taskHandler) updateTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("identity missing from context", err))
			return
		}

		taskID, err := parseIDParam(r, "taskID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.TaskInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode task request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("task", err))
			return
		}

		task, err := h.tasks.Update(r.Context(), taskID, input, identity)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, task)
	}
}

// deleteTask removes a task and its member/subtask rows
// @Summary Delete task
// @Tags Tasks
// @Produce json
// @Param taskID path string true "Task ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Task not found"
// @Router /task/{taskID} [delete]
func (h taskHandler) deleteTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := parseIDParam(r, "taskID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.tasks.Delete(r.Context(), taskID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "task deleted successfully",
		})
	}
}

// cloneTask copies a task with its full member/subtask graph onto new ids
// @Summary Clone task
// @Description Duplicates a task together with its members, subtasks, and subtask members, optionally renaming the copy
// @Tags Tasks
// @Accept json
// @Produce json
// @Param taskID path string true "Task ID" format(uuid)
// @Param clone body cloneRequest false "Optional name override"
// @Success 201 {object} map[string]string "ID of the clone"
// @Failure 404 {object} ErrorResponse "Not Found - Task not found"
// @Router /task/{taskID}/clone [post]
func (h taskHandler) cloneTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := parseIDParam(r, "taskID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input cloneRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&input)
		}

		cloneID, err := h.tasks.Clone(r.Context(), taskID, input.Title)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]string{
			"id": cloneID.String(),
		})
	}
}

// patchSubtask applies a partial update to a subtask
// @Summary Patch subtask
// @Description Updates the completion flag and/or dates of a subtask; all other fields are immutable here
// @Tags Tasks
// @Accept json
// @Produce json
// @Param subtaskID path string true "Subtask ID" format(uuid)
// @Param patch body services.SubtaskPatch true "Subtask patch"
// @Success 200 {object} models.Subtask "Updated subtask"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid patch data"
// @Failure 404 {object} ErrorResponse "Not Found - Subtask not found"
// @Router /subtask/{subtaskID} [patch]
func (h taskHandler) patchSubtask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subtaskID, err := parseIDParam(r, "subtaskID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch services.SubtaskPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode subtask patch body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("subtask", err))
			return
		}

		subtask, err := h.tasks.PatchSubtask(r.Context(), subtaskID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, subtask)
	}
}
