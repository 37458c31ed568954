package skillshandler

import (
	"net/http"

	"hrconsole/internal/domain/skills"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/shared"
)

func (h *Handler) handleListSkills(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListSkills(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	list(w, r, items)
}

func (h *Handler) handleSkillParentCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.SkillParentCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	list(w, r, categories)
}

func (h *Handler) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	h.saveSkill(w, r, 0)
}

func (h *Handler) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	h.saveSkill(w, r, id)
}

func (h *Handler) saveSkill(w http.ResponseWriter, r *http.Request, id int64) {
	var payload skills.Skill
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("skill_name", payload.Name, "is required")
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	payload.ID = id
	saved, err := h.Service.SaveSkill(r.Context(), payload)
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

func (h *Handler) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteSkill(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.deleted(w, r, id)
}

func (h *Handler) handleListCertificates(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListCertificates(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	list(w, r, items)
}

func (h *Handler) handleCertificateParentCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.CertificateParentCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	list(w, r, categories)
}

func (h *Handler) handleCreateCertificate(w http.ResponseWriter, r *http.Request) {
	h.saveCertificate(w, r, 0)
}

func (h *Handler) handleUpdateCertificate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	h.saveCertificate(w, r, id)
}

func (h *Handler) saveCertificate(w http.ResponseWriter, r *http.Request, id int64) {
	var payload skills.Certificate
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	payload.DifficultyLevel = skills.Canonical(payload.DifficultyLevel, skills.DifficultyLevels)
	v := shared.NewValidator()
	v.Required("certificate_name", payload.Name, "is required")
	v.Enum("difficulty_level", payload.DifficultyLevel, skills.DifficultyLevels, "must be one of Easy, Medium, Tough")
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	payload.ID = id
	saved, err := h.Service.SaveCertificate(r.Context(), payload)
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

func (h *Handler) handleDeleteCertificate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteCertificate(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.deleted(w, r, id)
}
