package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrconsole/internal/domain/skills"
)

func columnNames(m Matrix) []string {
	names := make([]string, 0, len(m.Columns))
	for _, c := range m.Columns {
		names = append(names, c.Name)
	}
	return names
}

func codes(r Row) []string {
	out := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells {
		out = append(out, c.Code)
	}
	return out
}

func TestProjectSkillsGroupsAndCells(t *testing.T) {
	f := newFixture()
	m := f.index().ProjectSkills(f.employees, f.skills, nil)

	require.Len(t, m.Groups, 2)
	assert.Equal(t, skills.CategoryTechnical, m.Groups[0].Name)
	assert.Equal(t, skills.CategoryNonTechnical, m.Groups[1].Name)
	assert.Equal(t, []string{"Go", "Postgres", "React", "Communication"}, columnNames(m))

	require.Len(t, m.Rows, 4)
	assert.Equal(t, []string{"E✓", "A", "-", "-"}, codes(m.Rows[0]))
	assert.Equal(t, []string{"-", "-", "-", "I"}, codes(m.Rows[1]))
	assert.Equal(t, []string{"-", "-", "B✓", "-"}, codes(m.Rows[2]))
	assert.Equal(t, []string{"-", "-", "-", "-"}, codes(m.Rows[3]))

	cell := m.Rows[0].Cells[0]
	require.True(t, cell.Assigned())
	assert.Equal(t, int64(100), cell.Skill.ID)
	assert.False(t, m.Rows[3].Cells[0].Assigned())
}

func TestProjectCollapsedGroupRemovesColumns(t *testing.T) {
	f := newFixture()
	m := f.index().ProjectSkills(f.employees, f.skills, Collapse{skills.CategoryTechnical: true})

	require.Len(t, m.Groups, 2)
	assert.True(t, m.Groups[0].Collapsed)
	assert.Len(t, m.Groups[0].Items, 3)
	assert.Equal(t, []string{"Communication"}, columnNames(m))
	for _, r := range m.Rows {
		assert.Len(t, r.Cells, 1)
	}
	assert.Equal(t, []Pair{{EmployeeID: 2, ItemID: 12}}, m.AssignedPairs())
}

func TestProjectCertificatesFlatGroup(t *testing.T) {
	f := newFixture()
	m := f.index().ProjectCertificates(f.employees, f.certificates, nil)

	require.Len(t, m.Groups, 1)
	assert.Equal(t, GroupCertificates, m.Groups[0].Name)
	assert.Equal(t, []string{"Completed", "-"}, codes(m.Rows[0]))
	assert.Equal(t, []string{"-", "In-Progress"}, codes(m.Rows[2]))
}

func TestProjectUnknownSkillCategoryGetsOwnGroup(t *testing.T) {
	list := []skills.Skill{
		{ID: 1, Name: "Welding", SkillCategory: "Trade"},
		{ID: 2, Name: "Go"},
	}
	m := NewIndex(list, nil, nil, nil).ProjectSkills(nil, list, nil)
	require.Len(t, m.Groups, 2)
	assert.Equal(t, skills.CategoryTechnical, m.Groups[0].Name)
	assert.Equal(t, "Trade", m.Groups[1].Name)
	assert.Empty(t, m.Rows)
}

func TestSkillCode(t *testing.T) {
	assert.Equal(t, "A", SkillCode(skills.EmployeeSkill{ProficiencyLevel: "Advanced"}))
	assert.Equal(t, "I✓", SkillCode(skills.EmployeeSkill{ProficiencyLevel: "intermediate", Certified: true}))
	assert.Equal(t, "✓", SkillCode(skills.EmployeeSkill{Certified: true}))
	assert.Equal(t, "•", SkillCode(skills.EmployeeSkill{}))
	assert.Equal(t, "É", SkillCode(skills.EmployeeSkill{ProficiencyLevel: "élevé"}))
	assert.Equal(t, "Ü✓", SkillCode(skills.EmployeeSkill{ProficiencyLevel: " über", Certified: true}))
	assert.Equal(t, "Assigned", CertificateCode(skills.EmployeeCertificate{}))
}

func TestMatrixAndExportAgree(t *testing.T) {
	f := newFixture()
	idx := f.index()
	states := []FilterState{
		{},
		{Departments: []string{"Eng"}},
		{SkillParentCategories: []string{"Others", "Soft"}},
		{Certified: CertifiedOnly},
		{AssignStatus: AssignNotAssigned},
	}
	collapses := []Collapse{nil, {skills.CategoryTechnical: true}, {skills.CategoryNonTechnical: true}}

	for _, state := range states {
		employees := idx.FilterEmployees(f.employees, state)
		for _, collapse := range collapses {
			m := idx.ProjectSkills(employees, FilterSkills(f.skills, state), collapse)
			assert.Equal(t, m.AssignedPairs(), nilIfEmpty(idx.Export(m).Pairs()))
		}
		cm := idx.ProjectCertificates(employees, FilterCertificates(f.certificates, state), nil)
		assert.Equal(t, cm.AssignedPairs(), nilIfEmpty(idx.Export(cm).Pairs()))
	}
}

func nilIfEmpty(p []Pair) []Pair {
	if len(p) == 0 {
		return nil
	}
	return p
}
