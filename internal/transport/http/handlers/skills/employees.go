package skillshandler

import (
	"net/http"

	"hrconsole/internal/domain/skills"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/shared"
)

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	list(w, r, employees)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	emp, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, emp, shared.RequestID(r))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload skills.Employee
	if !shared.DecodeJSON(w, r, &payload) || !validEmployee(w, r, &payload) {
		return
	}
	payload.ID = 0
	saved, err := h.Service.SaveEmployee(r.Context(), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, saved, shared.RequestID(r))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	var payload skills.Employee
	if !shared.DecodeJSON(w, r, &payload) || !validEmployee(w, r, &payload) {
		return
	}
	payload.ID = id
	saved, err := h.Service.SaveEmployee(r.Context(), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, saved, shared.RequestID(r))
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteEmployee(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.deleted(w, r, id)
}

func validEmployee(w http.ResponseWriter, r *http.Request, e *skills.Employee) bool {
	e.EmployeeStatus = skills.Canonical(e.EmployeeStatus, skills.EmployeeStatuses)
	v := shared.NewValidator()
	v.Required("employee_id", e.EmployeeID, "is required")
	v.Required("first_name", e.FirstName, "is required")
	v.Required("last_name", e.LastName, "is required")
	v.Enum("employee_status", e.EmployeeStatus, skills.EmployeeStatuses, "must be one of Active, Inactive, Resigned, Terminated")
	return !v.Reject(w, shared.RequestID(r))
}
