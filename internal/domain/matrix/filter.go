package matrix

import (
	"slices"
	"strings"

	"hrconsole/internal/domain/skills"
)

type CertifiedFilter string

const (
	CertifiedAll      CertifiedFilter = ""
	CertifiedOnly     CertifiedFilter = "Certified"
	CertifiedExcluded CertifiedFilter = "Not Certified"
)

type AssignFilter string

const (
	AssignAll         AssignFilter = ""
	AssignAssigned    AssignFilter = "Assigned"
	AssignNotAssigned AssignFilter = "Not Assigned"
)

// Scope selects which matrix the assign-status filter is evaluated against.
type Scope string

const (
	ScopeSkills       Scope = "skills"
	ScopeCertificates Scope = "certificates"
)

// FilterState is the complete set of filter inputs of the matrix and
// directory views. Empty multi-selects mean "no constraint".
type FilterState struct {
	Search            string   `json:"search"`
	ParentDepartments []string `json:"parent_departments"`
	Departments       []string `json:"departments"`
	Locations         []string `json:"locations"`
	Statuses          []string `json:"statuses"`

	SkillNames            []string        `json:"skill_names"`
	SkillLevels           []string        `json:"skill_levels"`
	SkillParentCategories []string        `json:"skill_parent_categories"`
	Certified             CertifiedFilter `json:"certified"`

	CertificateNames            []string `json:"certificate_names"`
	CertificateStatuses         []string `json:"certificate_statuses"`
	CertificateParentCategories []string `json:"certificate_parent_categories"`

	AssignStatus AssignFilter `json:"assign_status"`
	Scope        Scope        `json:"scope"`
}

func (f *FilterState) SetSearch(term string) { f.Search = term }

// SetParentDepartments narrows the department selection to departments that
// still belong to one of the chosen parent departments.
func (f *FilterState) SetParentDepartments(parents []string, employees []skills.Employee) {
	f.ParentDepartments = clone(parents)
	if len(parents) == 0 {
		return
	}
	allowed := map[string]bool{}
	for _, e := range employees {
		if slices.Contains(parents, e.ParentDepartment) {
			allowed[e.Department] = true
		}
	}
	kept := make([]string, 0, len(f.Departments))
	for _, d := range f.Departments {
		if allowed[d] {
			kept = append(kept, d)
		}
	}
	f.Departments = kept
}

func (f *FilterState) SetDepartments(values []string) { f.Departments = clone(values) }
func (f *FilterState) SetLocations(values []string) { f.Locations = clone(values) }
func (f *FilterState) SetStatuses(values []string) { f.Statuses = clone(values) }
func (f *FilterState) SetSkillNames(values []string) { f.SkillNames = clone(values) }
func (f *FilterState) SetSkillLevels(values []string) { f.SkillLevels = clone(values) }
func (f *FilterState) SetCertified(value CertifiedFilter) { f.Certified = value }

func (f *FilterState) SetCertificateNames(values []string) {
	f.CertificateNames = clone(values)
}

func (f *FilterState) SetCertificateStatuses(values []string) {
	f.CertificateStatuses = clone(values)
}

func (f *FilterState) SetAssignStatus(value AssignFilter) { f.AssignStatus = value }
func (f *FilterState) SetScope(scope Scope) { f.Scope = scope }

// SetSkillParentCategories replaces the category selection and prunes skill
// names that no longer belong to it.
func (f *FilterState) SetSkillParentCategories(categories []string, all []skills.Skill) {
	f.SkillParentCategories = clone(categories)
	f.SkillNames = OnParentCategoryChange(categories, f.SkillNames, SkillItems(all))
}

func (f *FilterState) SetCertificateParentCategories(categories []string, all []skills.Certificate) {
	f.CertificateParentCategories = clone(categories)
	f.CertificateNames = OnParentCategoryChange(categories, f.CertificateNames, CertificateItems(all))
}

// Reset clears every dimension but keeps the active scope.
func (f *FilterState) Reset() {
	*f = FilterState{Scope: f.Scope}
}

// IsEmpty reports whether no dimension constrains the result.
func (f FilterState) IsEmpty() bool {
	return strings.TrimSpace(f.Search) == "" &&
		len(f.ParentDepartments) == 0 &&
		len(f.Departments) == 0 &&
		len(f.Locations) == 0 &&
		len(f.Statuses) == 0 &&
		len(f.SkillNames) == 0 &&
		len(f.SkillLevels) == 0 &&
		len(f.SkillParentCategories) == 0 &&
		f.Certified == CertifiedAll &&
		len(f.CertificateNames) == 0 &&
		len(f.CertificateStatuses) == 0 &&
		len(f.CertificateParentCategories) == 0 &&
		f.AssignStatus == AssignAll
}

// FilterEmployees returns the employees that satisfy every active dimension
// of state, in input order. Inputs are not modified.
func FilterEmployees(
	employees []skills.Employee,
	state FilterState,
	skillList []skills.Skill,
	certificateList []skills.Certificate,
	skillAssignments []skills.EmployeeSkill,
	certificateAssignments []skills.EmployeeCertificate,
) []skills.Employee {
	idx := NewIndex(skillList, certificateList, skillAssignments, certificateAssignments)
	return idx.FilterEmployees(employees, state)
}

func (idx *Index) FilterEmployees(employees []skills.Employee, state FilterState) []skills.Employee {
	out := make([]skills.Employee, 0, len(employees))
	for _, e := range employees {
		if idx.Match(e, state) {
			out = append(out, e)
		}
	}
	return out
}

// Match evaluates all dimensions of state against one employee.
func (idx *Index) Match(e skills.Employee, state FilterState) bool {
	return matchSearch(e, state.Search) &&
		anyOf(state.ParentDepartments, e.ParentDepartment) &&
		anyOf(state.Departments, e.Department) &&
		matchLocation(e, state.Locations) &&
		anyOf(state.Statuses, e.Status()) &&
		idx.matchSkillNames(e.ID, state.SkillNames) &&
		idx.matchSkillLevels(e.ID, state.SkillLevels) &&
		idx.matchSkillCategories(e.ID, state.SkillParentCategories) &&
		idx.matchCertified(e.ID, state.Certified) &&
		idx.matchCertificateNames(e.ID, state.CertificateNames) &&
		idx.matchCertificateStatuses(e.ID, state.CertificateStatuses) &&
		idx.matchCertificateCategories(e.ID, state.CertificateParentCategories) &&
		idx.matchAssignStatus(e.ID, state.AssignStatus, state.Scope)
}

func matchSearch(e skills.Employee, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.FirstName+" "+e.LastName), term) {
		return true
	}
	return strings.Contains(strings.ToLower(e.Designation), term) ||
		strings.Contains(strings.ToLower(e.Title), term)
}

func matchLocation(e skills.Employee, selection []string) bool {
	if len(selection) == 0 {
		return true
	}
	return (e.City != "" && slices.Contains(selection, e.City)) ||
		(e.Location != "" && slices.Contains(selection, e.Location))
}

func anyOf(selection []string, value string) bool {
	return len(selection) == 0 || slices.Contains(selection, value)
}

func (idx *Index) matchSkillNames(employeeID int64, selection []string) bool {
	if len(selection) == 0 {
		return true
	}
	for _, a := range idx.SkillsOf(employeeID) {
		s, ok := idx.Skill(a.SkillID)
		if ok && slices.Contains(selection, s.Name) {
			return true
		}
	}
	return false
}

func (idx *Index) matchSkillLevels(employeeID int64, selection []string) bool {
	if len(selection) == 0 {
		return true
	}
	for _, a := range idx.SkillsOf(employeeID) {
		if slices.Contains(selection, a.ProficiencyLevel) {
			return true
		}
	}
	return false
}

func (idx *Index) matchSkillCategories(employeeID int64, selection []string) bool {
	if len(selection) == 0 {
		return true
	}
	for _, a := range idx.SkillsOf(employeeID) {
		s, ok := idx.Skill(a.SkillID)
		if ok && s.Category().In(selection) {
			return true
		}
	}
	return false
}

func (idx *Index) matchCertified(employeeID int64, mode CertifiedFilter) bool {
	assignments := idx.SkillsOf(employeeID)
	certified := slices.ContainsFunc(assignments, func(a skills.EmployeeSkill) bool { return a.Certified })
	switch mode {
	case CertifiedOnly:
		return certified
	case CertifiedExcluded:
		return len(assignments) > 0 && !certified
	default:
		return true
	}
}

func (idx *Index) matchCertificateNames(employeeID int64, selection []string) bool {
	if len(selection) == 0 {
		return true
	}
	for _, a := range idx.CertificatesOf(employeeID) {
		c, ok := idx.Certificate(a.CertificateID)
		if ok && slices.Contains(selection, c.Name) {
			return true
		}
	}
	return false
}

func (idx *Index) matchCertificateStatuses(employeeID int64, selection []string) bool {
	if len(selection) == 0 {
		return true
	}
	for _, a := range idx.CertificatesOf(employeeID) {
		if slices.Contains(selection, a.Status) {
			return true
		}
	}
	return false
}

func (idx *Index) matchCertificateCategories(employeeID int64, selection []string) bool {
	if len(selection) == 0 {
		return true
	}
	for _, a := range idx.CertificatesOf(employeeID) {
		c, ok := idx.Certificate(a.CertificateID)
		if ok && c.Category().In(selection) {
			return true
		}
	}
	return false
}

func (idx *Index) matchAssignStatus(employeeID int64, mode AssignFilter, scope Scope) bool {
	if mode == AssignAll {
		return true
	}
	var count int
	if scope == ScopeCertificates {
		count = len(idx.CertificatesOf(employeeID))
	} else {
		count = len(idx.SkillsOf(employeeID))
	}
	if mode == AssignAssigned {
		return count > 0
	}
	return count == 0
}

func clone(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}
