package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hrconsole/internal/domain/skills"
)

func TestBuildOptions(t *testing.T) {
	f := newFixture()
	opts := BuildOptions(f.employees, f.skills, f.certificates, FilterState{})

	assert.Equal(t, []string{"Business", "Tech"}, opts.ParentDepartments)
	assert.Equal(t, []string{"Eng", "HR", "Sales"}, opts.Departments)
	assert.Equal(t, []string{"Delhi", "Mumbai", "Pune"}, opts.Locations)
	assert.Equal(t, []string{"Backend", "Frontend", "Soft", "Others"}, opts.SkillParentCategories)
	assert.Equal(t, []string{"Cloud", "Others"}, opts.CertificateParentCategories)
	assert.Equal(t, skills.ProficiencyLevels, opts.ProficiencyLevels)
	assert.Len(t, opts.SkillNames, 4)
}

func TestBuildOptionsCascades(t *testing.T) {
	f := newFixture()
	state := FilterState{
		ParentDepartments:           []string{"Tech"},
		SkillParentCategories:       []string{"Backend"},
		CertificateParentCategories: []string{"Cloud"},
	}
	opts := BuildOptions(f.employees, f.skills, f.certificates, state)

	assert.Equal(t, []string{"Eng"}, opts.Departments)
	assert.Equal(t, []string{"Postgres"}, opts.SkillNames)
	assert.Equal(t, []string{"AWS Solutions Architect"}, opts.CertificateNames)
}
