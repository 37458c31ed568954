package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrconsole/internal/domain/skills"
)

func TestExportSkillRowsExpertCertified(t *testing.T) {
	employees := []skills.Employee{{ID: 1, EmployeeID: "E001", FirstName: "Alice", LastName: "Smith"}}
	list := []skills.Skill{{ID: 10, Name: "Go"}}
	assignments := []skills.EmployeeSkill{{EmployeeID: 1, SkillID: 10, ProficiencyLevel: "Expert", Certified: true}}

	idx := NewIndex(list, nil, assignments, nil)
	table := idx.ExportSkillRows(employees, SkillItems(list))

	require.Len(t, table.Rows, 1)
	row := table.Rows[0].Values
	assert.Equal(t, "Expert", row["Proficiency Level"])
	assert.Equal(t, "Yes", row["Certified"])
	assert.Equal(t, "Go", row["Skill Name"])
	assert.Equal(t, "Others", row["Parent Skill"])
	assert.Equal(t, "Alice Smith", row["Employee Name"])
}

func TestExportSkipsEmployeesWithoutMatches(t *testing.T) {
	f := newFixture()
	idx := f.index()
	table := idx.ExportSkillRows(f.employees, SkillItems(f.skills))

	assert.Len(t, table.Rows, 4)
	for _, r := range table.Rows {
		assert.NotEqual(t, int64(4), r.EmployeeID)
	}

	onlyGo := idx.ExportSkillRows(f.employees, SkillItems(f.skills[:1]))
	require.Len(t, onlyGo.Rows, 1)
	assert.Equal(t, int64(1), onlyGo.Rows[0].EmployeeID)
}

func TestExportISODates(t *testing.T) {
	f := newFixture()
	idx := f.index()

	rows := idx.ExportSkillRows(f.employees[:1], SkillItems(f.skills)).Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-05", rows[0].Values["Start Date"])
	assert.Equal(t, "", rows[0].Values["Expiry Date"])
	assert.Equal(t, "No", rows[1].Values["Certified"])

	certRows := idx.ExportCertificateRows(f.employees, CertificateItems(f.certificates)).Rows
	require.Len(t, certRows, 2)
	assert.Equal(t, "2027-01-31", certRows[0].Values["Expiry Date"])
	assert.Equal(t, "Others", certRows[1].Values["Certificate Category"])
}

func TestExportRecordsFollowColumns(t *testing.T) {
	f := newFixture()
	table := f.index().ExportCertificateRows(f.employees, CertificateItems(f.certificates))
	records := table.Records()

	require.Len(t, records, 3)
	assert.Equal(t, "Employee ID", records[0][0])
	assert.Equal(t, "Certificate Name", records[0][3])
	assert.Equal(t, []string{"E001", "Alice Smith", "Eng", "AWS Solutions Architect", "Cloud", "Tough", "AWS", "Completed", "", "2027-01-31"}, records[1])
}
