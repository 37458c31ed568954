package entitystore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrconsole/internal/domain/matrix"
	"hrconsole/internal/domain/skills"
)

func seeded() *Store {
	s := New()
	s.Replace(Snapshot{
		Employees:    []skills.Employee{{ID: 1, FirstName: "Alice"}, {ID: 2, FirstName: "Bob"}},
		Skills:       []skills.Skill{{ID: 10, Name: "Go"}, {ID: 11, Name: "SQL"}},
		Certificates: []skills.Certificate{{ID: 20, Name: "CKA"}},
		SkillAssignments: []skills.EmployeeSkill{
			{ID: 100, EmployeeID: 1, SkillID: 10},
			{ID: 101, EmployeeID: 2, SkillID: 10},
			{ID: 102, EmployeeID: 2, SkillID: 11},
		},
		CertificateAssignments: []skills.EmployeeCertificate{{ID: 200, EmployeeID: 2, CertificateID: 20}},
	}, nil)
	return s
}

func TestStorePutReplacesInPlace(t *testing.T) {
	s := seeded()
	s.PutEmployee(skills.Employee{ID: 1, FirstName: "Alicia"})
	s.PutEmployee(skills.Employee{ID: 3, FirstName: "Carol"})

	snap := s.Snapshot()
	require.Len(t, snap.Employees, 3)
	assert.Equal(t, "Alicia", snap.Employees[0].FirstName)
	assert.Equal(t, int64(3), snap.Employees[2].ID)
}

func TestStoreRemoveEmployeeDropsAssignments(t *testing.T) {
	s := seeded()
	s.RemoveEmployee(2)

	snap := s.Snapshot()
	assert.Len(t, snap.Employees, 1)
	assert.Len(t, snap.SkillAssignments, 1)
	assert.Empty(t, snap.CertificateAssignments)
}

func TestStoreRemoveItems(t *testing.T) {
	s := seeded()
	s.RemoveSkill(10)
	s.RemoveCertificate(20)
	s.RemoveSkillAssignment(102)

	snap := s.Snapshot()
	assert.Equal(t, []skills.Skill{{ID: 11, Name: "SQL"}}, snap.Skills)
	assert.Empty(t, snap.SkillAssignments)
	assert.Empty(t, snap.Certificates)
	assert.Empty(t, snap.CertificateAssignments)
}

func TestStoreAssignmentUpserts(t *testing.T) {
	s := seeded()
	s.PutSkillAssignment(skills.EmployeeSkill{ID: 100, EmployeeID: 1, SkillID: 10, ProficiencyLevel: "Expert"})
	s.PutCertificateAssignment(skills.EmployeeCertificate{ID: 201, EmployeeID: 1, CertificateID: 20})
	s.PutSkill(skills.Skill{ID: 12, Name: "Rust"})
	s.PutCertificate(skills.Certificate{ID: 20, Name: "CKAD"})
	s.RemoveCertificateAssignment(200)

	snap := s.Snapshot()
	assert.Equal(t, "Expert", snap.SkillAssignments[0].ProficiencyLevel)
	assert.Len(t, snap.Skills, 3)
	assert.Equal(t, "CKAD", snap.Certificates[0].Name)
	require.Len(t, snap.CertificateAssignments, 1)
	assert.Equal(t, int64(201), snap.CertificateAssignments[0].ID)

	idx := snap.Index()
	_, ok := idx.SkillAssignment(1, 10)
	assert.True(t, ok)
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := seeded()
	snap := s.Snapshot()
	snap.Employees[0].FirstName = "changed"

	assert.Equal(t, "Alice", s.Snapshot().Employees[0].FirstName)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := seeded()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			s.PutEmployee(skills.Employee{ID: id})
		}(int64(10 + i))
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.Len(t, s.Snapshot().Employees, 10)
}

func TestSnapshotProjectAndExport(t *testing.T) {
	snap := seeded().Snapshot()

	m := snap.Project(matrix.KindSkills, matrix.FilterState{}, nil)
	assert.Equal(t, matrix.KindSkills, m.Kind)
	require.Len(t, m.Rows, 2)
	assert.Len(t, m.Columns, 2)

	table := snap.ExportTable(matrix.KindSkills, matrix.FilterState{}, nil)
	assert.Len(t, table.Rows, 3)

	require.NotEmpty(t, m.Groups)
	collapsed := matrix.Collapse{m.Groups[0].Name: true}
	assert.Empty(t, snap.ExportTable(matrix.KindSkills, matrix.FilterState{}, collapsed).Rows)

	certs := snap.ExportTable(matrix.KindCertificates, matrix.FilterState{}, nil)
	assert.Len(t, certs.Rows, 1)
}

func TestSnapshotProjectPrunesStaleItemSelection(t *testing.T) {
	snap := Snapshot{
		Employees: []skills.Employee{{ID: 1, FirstName: "Alice"}, {ID: 2, FirstName: "Bob"}},
		Skills:    []skills.Skill{{ID: 10, Name: "Go"}, {ID: 11, Name: "Postgres", ParentSkill: "Backend"}},
		SkillAssignments: []skills.EmployeeSkill{
			{ID: 100, EmployeeID: 1, SkillID: 11},
			{ID: 101, EmployeeID: 2, SkillID: 11},
			{ID: 102, EmployeeID: 1, SkillID: 10},
		},
	}
	state := matrix.FilterState{SkillNames: []string{"Go"}, SkillParentCategories: []string{"Backend"}}

	normalized := snap.Normalize(state)
	assert.Empty(t, normalized.SkillNames)
	assert.Equal(t, []string{"Go"}, state.SkillNames, "input state is not mutated")

	m := snap.Project(matrix.KindSkills, state, nil)
	require.Len(t, m.Columns, 1)
	assert.Equal(t, "Postgres", m.Columns[0].Name)
	assert.Len(t, m.Rows, 2)
	assert.Len(t, m.AssignedPairs(), 2)
}
