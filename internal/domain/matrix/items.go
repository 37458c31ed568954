package matrix

import (
	"slices"

	"hrconsole/internal/domain/skills"
)

const GroupCertificates = "Certificates"

// Item is one matrix column: a skill or a certificate.
type Item struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Group    string          `json:"group"`
	Label    string          `json:"category"`
	Category skills.Category `json:"-"`
}

func SkillItems(all []skills.Skill) []Item {
	items := make([]Item, 0, len(all))
	for _, s := range all {
		items = append(items, Item{ID: s.ID, Name: s.Name, Group: skillGroup(s), Label: s.Category().Label(), Category: s.Category()})
	}
	return items
}

func CertificateItems(all []skills.Certificate) []Item {
	items := make([]Item, 0, len(all))
	for _, c := range all {
		items = append(items, Item{ID: c.ID, Name: c.Name, Group: GroupCertificates, Label: c.Category().Label(), Category: c.Category()})
	}
	return items
}

// skillGroup puts skills without a category under Technical Skill.
func skillGroup(s skills.Skill) string {
	if s.SkillCategory == "" {
		return skills.CategoryTechnical
	}
	return s.SkillCategory
}

// FilterSkills keeps the skills that pass the parent-category and name
// selections of state.
func FilterSkills(all []skills.Skill, state FilterState) []skills.Skill {
	out := make([]skills.Skill, 0, len(all))
	for _, s := range all {
		if len(state.SkillParentCategories) > 0 && !s.Category().In(state.SkillParentCategories) {
			continue
		}
		if !anyOf(state.SkillNames, s.Name) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func FilterCertificates(all []skills.Certificate, state FilterState) []skills.Certificate {
	out := make([]skills.Certificate, 0, len(all))
	for _, c := range all {
		if len(state.CertificateParentCategories) > 0 && !c.Category().In(state.CertificateParentCategories) {
			continue
		}
		if !anyOf(state.CertificateNames, c.Name) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// groupOrder returns the column groups in display order: the fixed partition
// first, then any other labels in first-seen order.
func groupOrder(fixed []string, items []Item) []string {
	order := slices.Clone(fixed)
	for _, it := range items {
		if !slices.Contains(order, it.Group) {
			order = append(order, it.Group)
		}
	}
	return order
}
