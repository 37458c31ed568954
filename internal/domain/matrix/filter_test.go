package matrix

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrconsole/internal/domain/skills"
)

func TestFilterEmployeesEmptyStatePassesAll(t *testing.T) {
	f := newFixture()
	assert.Equal(t, []int64{1, 2, 3, 4}, f.filter(FilterState{}))
	assert.Equal(t, []int64{1, 2, 3, 4}, f.filter(FilterState{Scope: ScopeCertificates, Search: "   "}))
}

func TestFilterEmployeesDepartmentAndStatus(t *testing.T) {
	employees := []skills.Employee{
		{ID: 1, Department: "Eng", EmployeeStatus: "Active"},
		{ID: 2, Department: "Sales", EmployeeStatus: "Resigned"},
	}
	state := FilterState{}
	state.SetDepartments([]string{"Eng"})
	state.SetStatuses([]string{"Active"})

	got := FilterEmployees(employees, state, nil, nil, nil, nil)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestFilterEmployeesDimensions(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name  string
		state FilterState
		want  []int64
	}{
		{"search by name", FilterState{Search: "smith"}, []int64{1}},
		{"search by full name", FilterState{Search: "ALICE S"}, []int64{1}},
		{"search by designation", FilterState{Search: "lead"}, []int64{3}},
		{"search by title", FilterState{Search: "account"}, []int64{2}},
		{"location from city", FilterState{Locations: []string{"Pune"}}, []int64{1, 3}},
		{"location from location field", FilterState{Locations: []string{"Mumbai"}}, []int64{2}},
		{"status defaults to active", FilterState{Statuses: []string{"Active"}}, []int64{1, 3}},
		{"parent department", FilterState{ParentDepartments: []string{"Business"}}, []int64{2, 4}},
		{"skill names", FilterState{SkillNames: []string{"Go", "React"}}, []int64{1, 3}},
		{"skill levels", FilterState{SkillLevels: []string{"Intermediate"}}, []int64{2}},
		{"skill category others", FilterState{SkillParentCategories: []string{"Others"}}, []int64{1}},
		{"skill category named", FilterState{SkillParentCategories: []string{"Frontend", "Soft"}}, []int64{2, 3}},
		{"skill category union", FilterState{SkillParentCategories: []string{"Backend", "Others"}}, []int64{1}},
		{"certified", FilterState{Certified: CertifiedOnly}, []int64{1, 3}},
		{"not certified", FilterState{Certified: CertifiedExcluded}, []int64{2}},
		{"certificate names", FilterState{CertificateNames: []string{"Scrum Master"}}, []int64{3}},
		{"certificate statuses", FilterState{CertificateStatuses: []string{"Completed"}}, []int64{1}},
		{"certificate category others", FilterState{CertificateParentCategories: []string{"Others"}}, []int64{3}},
		{"certificate category named", FilterState{CertificateParentCategories: []string{"Cloud"}}, []int64{1}},
		{"assigned skills", FilterState{AssignStatus: AssignAssigned}, []int64{1, 2, 3}},
		{"not assigned skills", FilterState{AssignStatus: AssignNotAssigned, Scope: ScopeSkills}, []int64{4}},
		{"assigned certificates", FilterState{AssignStatus: AssignAssigned, Scope: ScopeCertificates}, []int64{1, 3}},
		{"not assigned certificates", FilterState{AssignStatus: AssignNotAssigned, Scope: ScopeCertificates}, []int64{2, 4}},
		{"and across dimensions", FilterState{Departments: []string{"Eng"}, Certified: CertifiedOnly, SkillLevels: []string{"Beginner"}}, []int64{3}},
		{"no match", FilterState{Departments: []string{"Legal"}}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.filter(tt.state))
		})
	}
}

func TestFilterEmployeesPartitionsEachDimension(t *testing.T) {
	f := newFixture()
	idx := f.index()
	dimensions := []struct {
		name   string
		values func(e skills.Employee) []string
		state  func(sel []string) FilterState
	}{
		{
			name:   "departments",
			values: func(e skills.Employee) []string { return []string{e.Department} },
			state:  func(sel []string) FilterState { return FilterState{Departments: sel} },
		},
		{
			name:   "locations",
			values: func(e skills.Employee) []string { return []string{e.City, e.Location} },
			state:  func(sel []string) FilterState { return FilterState{Locations: sel} },
		},
		{
			name:   "statuses",
			values: func(e skills.Employee) []string { return []string{e.Status()} },
			state:  func(sel []string) FilterState { return FilterState{Statuses: sel} },
		},
		{
			name: "skill levels",
			values: func(e skills.Employee) []string {
				var out []string
				for _, a := range idx.SkillsOf(e.ID) {
					out = append(out, a.ProficiencyLevel)
				}
				return out
			},
			state: func(sel []string) FilterState { return FilterState{SkillLevels: sel} },
		},
		{
			name: "certificate statuses",
			values: func(e skills.Employee) []string {
				var out []string
				for _, a := range idx.CertificatesOf(e.ID) {
					out = append(out, a.Status)
				}
				return out
			},
			state: func(sel []string) FilterState { return FilterState{CertificateStatuses: sel} },
		},
	}

	for _, d := range dimensions {
		t.Run(d.name, func(t *testing.T) {
			var seen []string
			for _, e := range f.employees {
				for _, v := range d.values(e) {
					if v != "" && !slices.Contains(seen, v) {
						seen = append(seen, v)
					}
				}
			}
			require.GreaterOrEqual(t, len(seen), 2)

			selections := [][]string{seen, seen[:2]}
			for _, v := range seen {
				selections = append(selections, []string{v})
			}
			for _, sel := range selections {
				kept := map[int64]bool{}
				for _, id := range f.filter(d.state(sel)) {
					kept[id] = true
				}
				for _, e := range f.employees {
					want := slices.ContainsFunc(d.values(e), func(v string) bool {
						return v != "" && slices.Contains(sel, v)
					})
					assert.Equal(t, want, kept[e.ID], "%v employee %d", sel, e.ID)
				}
			}
		})
	}
}

func TestFilterEmployeesNotCertifiedExcludesUnassigned(t *testing.T) {
	f := newFixture()
	got := f.filter(FilterState{Certified: CertifiedExcluded})
	assert.NotContains(t, got, int64(4))
	for _, id := range got {
		assert.NotEmpty(t, f.index().SkillsOf(id))
	}
}

func TestFilterEmployeesIsPureAndStable(t *testing.T) {
	f := newFixture()
	before := slices.Clone(f.employees)
	state := FilterState{Departments: []string{"Eng", "HR"}, AssignStatus: AssignAll}

	first := f.filter(state)
	second := f.filter(state)
	assert.Equal(t, first, second)
	assert.Equal(t, before, f.employees)

	reversed := slices.Clone(f.employees)
	slices.Reverse(reversed)
	got := FilterEmployees(reversed, state, f.skills, f.certificates, f.skillAssign, f.certAssign)
	assert.Equal(t, []int64{4, 3, 1}, ids(got))
}

func TestFilterEmployeesSkipsStaleReferences(t *testing.T) {
	f := newFixture()
	f.skillAssign = append(f.skillAssign, skills.EmployeeSkill{EmployeeID: 4, SkillID: 99, ProficiencyLevel: skills.ProficiencyExpert})
	f.certAssign = append(f.certAssign, skills.EmployeeCertificate{EmployeeID: 4, CertificateID: 98, Status: skills.CertificateStatusCompleted})

	assert.NotContains(t, f.filter(FilterState{SkillParentCategories: []string{"Others"}}), int64(4))
	assert.NotContains(t, f.filter(FilterState{SkillNames: []string{"Go"}}), int64(4))
	assert.NotContains(t, f.filter(FilterState{CertificateParentCategories: []string{"Others"}}), int64(4))
	assert.NotContains(t, f.filter(FilterState{CertificateNames: []string{"Scrum Master"}}), int64(4))
}

func TestFilterStateSetters(t *testing.T) {
	f := newFixture()

	state := FilterState{Scope: ScopeCertificates}
	state.SetSkillNames([]string{"Go", "Postgres", "Communication"})
	state.SetSkillParentCategories([]string{"Backend"}, f.skills)
	assert.Equal(t, []string{"Postgres"}, state.SkillNames)

	state.SetSkillNames([]string{"Go", "React"})
	state.SetSkillParentCategories(nil, f.skills)
	assert.Equal(t, []string{"Go", "React"}, state.SkillNames)

	state.SetCertificateNames([]string{"AWS Solutions Architect", "Scrum Master"})
	state.SetCertificateParentCategories([]string{"Others"}, f.certificates)
	assert.Equal(t, []string{"Scrum Master"}, state.CertificateNames)

	state.SetDepartments([]string{"Eng", "Sales"})
	state.SetParentDepartments([]string{"Tech"}, f.employees)
	assert.Equal(t, []string{"Eng"}, state.Departments)

	state.Reset()
	assert.True(t, state.IsEmpty())
	assert.Equal(t, ScopeCertificates, state.Scope)
}

func TestFilterStateSettersCopyInput(t *testing.T) {
	values := []string{"Eng"}
	var state FilterState
	state.SetDepartments(values)
	values[0] = "Sales"
	assert.Equal(t, []string{"Eng"}, state.Departments)
}
