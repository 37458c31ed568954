package matrix

import (
	"slices"
	"sort"

	"hrconsole/internal/domain/skills"
)

// Options are the values offered by the filter dropdowns. Dependent lists
// follow the current selection of their parent list.
type Options struct {
	ParentDepartments           []string `json:"parent_departments"`
	Departments                 []string `json:"departments"`
	Locations                   []string `json:"locations"`
	Statuses                    []string `json:"statuses"`
	SkillParentCategories       []string `json:"skill_parent_categories"`
	SkillNames                  []string `json:"skill_names"`
	ProficiencyLevels           []string `json:"proficiency_levels"`
	CertificateParentCategories []string `json:"certificate_parent_categories"`
	CertificateNames            []string `json:"certificate_names"`
	CertificateStatuses         []string `json:"certificate_statuses"`
}

func BuildOptions(employees []skills.Employee, skillList []skills.Skill, certificates []skills.Certificate, state FilterState) Options {
	opts := Options{
		Statuses:            slices.Clone(skills.EmployeeStatuses),
		ProficiencyLevels:   slices.Clone(skills.ProficiencyLevels),
		CertificateStatuses: slices.Clone(skills.CertificateStatuses),
	}

	parents, departments, locations := set{}, set{}, set{}
	for _, e := range employees {
		parents.add(e.ParentDepartment)
		if len(state.ParentDepartments) == 0 || slices.Contains(state.ParentDepartments, e.ParentDepartment) {
			departments.add(e.Department)
		}
		locations.add(e.Place())
	}
	opts.ParentDepartments = parents.sorted()
	opts.Departments = departments.sorted()
	opts.Locations = locations.sorted()

	skillItems := SkillItems(skillList)
	certItems := CertificateItems(certificates)
	opts.SkillParentCategories = CategoryLabels(skillItems)
	opts.SkillNames = ItemOptions(state.SkillParentCategories, skillItems)
	opts.CertificateParentCategories = CategoryLabels(certItems)
	opts.CertificateNames = ItemOptions(state.CertificateParentCategories, certItems)
	return opts
}

// CategoryLabels returns the distinct category labels of items, sorted,
// with Others last when present.
func CategoryLabels(items []Item) []string {
	labels := set{}
	others := false
	for _, it := range items {
		if it.Category.IsOthers() {
			others = true
			continue
		}
		labels.add(it.Category.Label())
	}
	out := labels.sorted()
	if others {
		out = append(out, skills.OthersLabel)
	}
	return out
}

type set map[string]struct{}

func (s set) add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
