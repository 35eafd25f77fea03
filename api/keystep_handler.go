package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskbridge-app/taskbridge/backend/errs"
	"github.com/taskbridge-app/taskbridge/backend/models"
	"github.com/taskbridge-app/taskbridge/backend/services"
)

type keyStepHandler struct {
	responder Responder
	logger    zerolog.Logger
	keySteps  *services.KeyStepService
}

func newKeyStepHandler(keySteps *services.KeyStepService) keyStepHandler {
	logger := log.With().Str("handlerName", "keyStepHandler").Logger()

	return keyStepHandler{
		responder: NewResponder(logger),
		logger:    logger,
		keySteps:  keySteps,
	}
}

// keyStepRequest is the create payload. A present parent_key_step_id makes
// the new step a sub-milestone of that parent; otherwise project_id is
// required and the step is a root.
type keyStepRequest struct {
	ProjectID       uuid.UUID  `json:"project_id"`
	ParentKeyStepID *uuid.UUID `json:"parent_key_step_id"`
	services.KeyStepInput
}

// cloneRequest optionally overrides the title of the copy
type cloneRequest struct {
	Title *string `json:"title"`
}

// createKeyStep creates a root key-step or a sub-milestone
// @Summary Create key step
// @Description Creates a milestone. With parent_key_step_id set, the step becomes a sub-milestone and its phase is assigned as the next number among its siblings; without it, a root milestone is created under project_id.
// @Tags KeySteps
// @Accept json
// @Produce json
// @Param keyStep body keyStepRequest true "Key step data"
// @Success 201 {object} models.KeyStep "Created key step"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid key step data"
// @Failure 404 {object} ErrorResponse "Not Found - Parent key step not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating key step"
// @Router /key-step [post]
func (h keyStepHandler) createKeyStep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input keyStepRequest
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode key step request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("key step", err))
			return
		}

		var (
			step *models.KeyStep
			err  error
		)
		if input.ParentKeyStepID != nil {
			step, err = h.keySteps.CreateChild(r.Context(), *input.ParentKeyStepID, input.KeyStepInput)
		} else {
			step, err = h.keySteps.CreateRoot(r.Context(), input.ProjectID, input.KeyStepInput)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, step)
	}
}

// getKeyStep retrieves a key-step by ID
// @Summary Get key step
// @Tags KeySteps
// @Produce json
// @Param keyStepID path string true "Key Step ID" format(uuid)
// @Success 200 {object} models.KeyStep "Key step details"
// @Failure 404 {object} ErrorResponse "Not Found - Key step not found"
// @Router /key-step/{keyStepID} [get]
func (h keyStepHandler) getKeyStep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyStepID, err := parseIDParam(r, "keyStepID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		step, err := h.keySteps.Get(r.Context(), keyStepID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, step)
	}
}

// updateKeyStep fully replaces the descriptive fields of a key-step
// @Summary Update key step
// @Tags KeySteps
// @Accept json
// @Produce json
// @Param keyStepID path string true "Key Step ID" format(uuid)
// @Param keyStep body services.KeyStepInput true "Updated key step data"
// @Success 200 {object} models.KeyStep "Updated key step"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid key step data"
// @Failure 404 {object} ErrorResponse "Not Found - Key step not found"
// @Router /key-step/{keyStepID} [put]
func (h keyStepHandler) updateKeyStep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyStepID, err := parseIDParam(r, "keyStepID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.KeyStepInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode key step request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("key step", err))
			return
		}

		step, err := h.keySteps.Update(r.Context(), keyStepID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, step)
	}
}

// deleteKeyStep deletes a key-step and its direct children
// @Summary Delete key step
// @Description Deletes a key step together with every sub-milestone under it
// @Tags KeySteps
// @Produce json
// @Param keyStepID path string true "Key Step ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Key step not found"
// @Router /key-step/{keyStepID} [delete]
func (h keyStepHandler) deleteKeyStep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyStepID, err := parseIDParam(r, "keyStepID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.keySteps.Delete(r.Context(), keyStepID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "key step deleted successfully",
		})
	}
}

// cloneKeyStep copies a key-step and its direct children onto new ids
// @Summary Clone key step
// @Description Duplicates a key step and every sub-milestone under it, optionally renaming the copy
// @Tags KeySteps
// @Accept json
// @Produce json
// @Param keyStepID path string true "Key Step ID" format(uuid)
// @Param clone body cloneRequest false "Optional title override"
// @Success 201 {object} map[string]string "ID of the clone"
// @Failure 404 {object} ErrorResponse "Not Found - Key step not found"
// @Router /key-step/{keyStepID}/clone [post]
func (h keyStepHandler) cloneKeyStep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyStepID, err := parseIDParam(r, "keyStepID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input cloneRequest
		if r.Body != nil {
			// an empty body means "same title"
			_ = json.NewDecoder(r.Body).Decode(&input)
		}

		cloneID, err := h.keySteps.Clone(r.Context(), keyStepID, input.Title)
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

// getChildren lists the direct sub-milestones of a key-step
// @Summary Get key step children
// @Tags KeySteps
// @Produce json
// @Param keyStepID path string true "Key Step ID" format(uuid)
// @Success 200 {array} models.KeyStep "Sub-milestones in phase order"
// @Router /key-step/{keyStepID}/children [get]
func (h keyStepHandler) getChildren() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyStepID, err := parseIDParam(r, "keyStepID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		children, err := h.keySteps.Children(r.Context(), keyStepID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, children)
	}
}

// getProjectTree returns the full milestone tree of a project
// @Summary Get project key-step tree
// @Description Returns every root milestone of the project with its sub-milestones nested, all in phase order
// @Tags KeySteps
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {array} services.KeyStepNode "Milestone tree"
// @Router /project/{projectID}/key-steps [get]
func (h keyStepHandler) getProjectTree() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tree, err := h.keySteps.Tree(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tree)
	}
}
