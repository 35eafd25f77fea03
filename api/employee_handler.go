package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskbridge-app/taskbridge/backend/database"
	"github.com/taskbridge-app/taskbridge/backend/errs"
)

type employeeHandler struct {
	responder    Responder
	logger       zerolog.Logger
	employeeRepo *database.EmployeeRepo
}

func newEmployeeHandler(employeeRepo *database.EmployeeRepo) employeeHandler {
	logger := log.With().Str("handlerName", "employeeHandler").Logger()

	return employeeHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		employeeRepo: employeeRepo,
	}
}

// getAllEmployees lists the employee directory for member pickers
// @Summary Get all employees
// @Tags Employees
// @Produce json
// @Success 200 {array} models.Employee "Employee directory"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching employees"
// @Router /employees [get]
func (h employeeHandler) getAllEmployees() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employees, err := h.employeeRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "employees", err))
			return
		}

		h.responder.WriteJSON(w, employees)
	}
}

// getEmployee retrieves one employee by ID
// @Summary Get employee
// @Tags Employees
// @Produce json
// @Param employeeID path string true "Employee ID" format(uuid)
// @Success 200 {object} models.Employee "Employee details"
// @Failure 404 {object} ErrorResponse "Not Found - Employee not found"
// @Router /employee/{employeeID} [get]
func (h employeeHandler) getEmployee() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employeeID, err := parseIDParam(r, "employeeID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		employee, err := h.employeeRepo.FindByID(r.Context(), employeeID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "employee", err))
			return
		}
		if employee == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("employee not found"))
			return
		}

		h.responder.WriteJSON(w, employee)
	}
}
