package skillshandler

import (
	"net/http"

	"hrconsole/internal/domain/skills"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/shared"
)

func (h *Handler) handleListEmployeeSkills(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListEmployeeSkills(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	list(w, r, items)
}

func (h *Handler) handleCreateEmployeeSkill(w http.ResponseWriter, r *http.Request) {
	h.saveEmployeeSkill(w, r, 0)
}

func (h *Handler) handleUpdateEmployeeSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	h.saveEmployeeSkill(w, r, id)
}

func (h *Handler) saveEmployeeSkill(w http.ResponseWriter, r *http.Request, id int64) {
	var payload skills.EmployeeSkill
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	payload.ProficiencyLevel = skills.NormalizeProficiency(payload.ProficiencyLevel)
	v := shared.NewValidator()
	v.Positive("employee_id", payload.EmployeeID, "is required")
	v.Positive("skill_id", payload.SkillID, "is required")
	v.Enum("proficiency_level", payload.ProficiencyLevel, skills.ProficiencyLevels, "must be one of Beginner, Intermediate, Advanced, Expert")
	v.DateOrder("start_date", payload.StartDate, "expiry_date", payload.ExpiryDate)
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	payload.ID = id
	saved, err := h.Service.SaveEmployeeSkill(r.Context(), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if id == 0 {
		api.Created(w, saved, shared.RequestID(r))
		return
	}
	api.Success(w, saved, shared.RequestID(r))
}

func (h *Handler) handleDeleteEmployeeSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteEmployeeSkill(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.deleted(w, r, id)
}

func (h *Handler) handleListEmployeeCertificates(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListEmployeeCertificates(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	list(w, r, items)
}

func (h *Handler) handleCreateEmployeeCertificate(w http.ResponseWriter, r *http.Request) {
	h.saveEmployeeCertificate(w, r, 0)
}

func (h *Handler) handleUpdateEmployeeCertificate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	h.saveEmployeeCertificate(w, r, id)
}

func (h *Handler) saveEmployeeCertificate(w http.ResponseWriter, r *http.Request, id int64) {
	var payload skills.EmployeeCertificate
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	payload.Status = skills.Canonical(payload.Status, skills.CertificateStatuses)
	v := shared.NewValidator()
	v.Positive("employee_id", payload.EmployeeID, "is required")
	v.Positive("certificate_id", payload.CertificateID, "is required")
	v.Enum("status", payload.Status, skills.CertificateStatuses, "must be one of In-Progress, Completed")
	v.DateOrder("start_date", payload.StartDate, "expiry_date", payload.ExpiryDate)
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	payload.ID = id
	saved, err := h.Service.SaveEmployeeCertificate(r.Context(), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if id == 0 {
		api.Created(w, saved, shared.RequestID(r))
		return
	}
	api.Success(w, saved, shared.RequestID(r))
}

func (h *Handler) handleDeleteEmployeeCertificate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteEmployeeCertificate(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.deleted(w, r, id)
}
