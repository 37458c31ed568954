package entitystore

import (
	"slices"
	"sync"
	"time"

	"hrconsole/internal/domain/matrix"
	"hrconsole/internal/domain/skills"
)

const (
	SourceEmployees            = "employees"
	SourceSkills               = "skills"
	SourceCertificates         = "certificates"
	SourceEmployeeSkills       = "employee_skills"
	SourceEmployeeCertificates = "employee_certificates"
)

// Snapshot is a consistent copy of the five collections.
type Snapshot struct {
	Employees              []skills.Employee
	Skills                 []skills.Skill
	Certificates           []skills.Certificate
	SkillAssignments       []skills.EmployeeSkill
	CertificateAssignments []skills.EmployeeCertificate
	LoadedAt               time.Time
}

func (s Snapshot) Index() *matrix.Index {
	return matrix.NewIndex(s.Skills, s.Certificates, s.SkillAssignments, s.CertificateAssignments)
}

// Project filters the snapshot and builds the matrix of one kind. An empty
// assign-status scope follows the kind.
func (s Snapshot) Project(kind matrix.Kind, state matrix.FilterState, collapse matrix.Collapse) matrix.Matrix {
	return s.project(s.Index(), kind, state, collapse)
}

// ExportTable flattens the same projection into export rows.
func (s Snapshot) ExportTable(kind matrix.Kind, state matrix.FilterState, collapse matrix.Collapse) matrix.ExportTable {
	idx := s.Index()
	return idx.Export(s.project(idx, kind, state, collapse))
}

// Normalize drops item selections that fall outside the selected parent
// categories of both kinds.
func (s Snapshot) Normalize(state matrix.FilterState) matrix.FilterState {
	state.SetSkillParentCategories(state.SkillParentCategories, s.Skills)
	state.SetCertificateParentCategories(state.CertificateParentCategories, s.Certificates)
	return state
}

func (s Snapshot) project(idx *matrix.Index, kind matrix.Kind, state matrix.FilterState, collapse matrix.Collapse) matrix.Matrix {
	state = s.Normalize(state)
	if state.Scope == "" {
		state.Scope = matrix.Scope(kind)
	}
	employees := idx.FilterEmployees(s.Employees, state)
	if kind == matrix.KindCertificates {
		return idx.ProjectCertificates(employees, matrix.FilterCertificates(s.Certificates, state), collapse)
	}
	return idx.ProjectSkills(employees, matrix.FilterSkills(s.Skills, state), collapse)
}

// Store holds the collections shared by all requests. Mutations replace
// records in place; a reload replaces everything.
type Store struct {
	mu          sync.RWMutex
	snap        Snapshot
	diagnostics Diagnostics
}

func New() *Store {
	return &Store{}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Employees:              slices.Clone(s.snap.Employees),
		Skills:                 slices.Clone(s.snap.Skills),
		Certificates:           slices.Clone(s.snap.Certificates),
		SkillAssignments:       slices.Clone(s.snap.SkillAssignments),
		CertificateAssignments: slices.Clone(s.snap.CertificateAssignments),
		LoadedAt:               s.snap.LoadedAt,
	}
}

func (s *Store) Diagnostics() Diagnostics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Diagnostics, len(s.diagnostics))
	for k, v := range s.diagnostics {
		out[k] = v
	}
	return out
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.snap.LoadedAt.IsZero()
}

// Replace discards the current collections.
func (s *Store) Replace(snap Snapshot, diag Diagnostics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.diagnostics = diag
}

func (s *Store) PutEmployee(e skills.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Employees = upsert(s.snap.Employees, e, func(x skills.Employee) int64 { return x.ID })
}

// RemoveEmployee also drops the employee's assignments.
func (s *Store) RemoveEmployee(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Employees = slices.DeleteFunc(s.snap.Employees, func(x skills.Employee) bool { return x.ID == id })
	s.snap.SkillAssignments = slices.DeleteFunc(s.snap.SkillAssignments, func(x skills.EmployeeSkill) bool { return x.EmployeeID == id })
	s.snap.CertificateAssignments = slices.DeleteFunc(s.snap.CertificateAssignments, func(x skills.EmployeeCertificate) bool { return x.EmployeeID == id })
}

func (s *Store) PutSkill(sk skills.Skill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Skills = upsert(s.snap.Skills, sk, func(x skills.Skill) int64 { return x.ID })
}

func (s *Store) RemoveSkill(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Skills = slices.DeleteFunc(s.snap.Skills, func(x skills.Skill) bool { return x.ID == id })
	s.snap.SkillAssignments = slices.DeleteFunc(s.snap.SkillAssignments, func(x skills.EmployeeSkill) bool { return x.SkillID == id })
}

func (s *Store) PutCertificate(c skills.Certificate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Certificates = upsert(s.snap.Certificates, c, func(x skills.Certificate) int64 { return x.ID })
}

func (s *Store) RemoveCertificate(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Certificates = slices.DeleteFunc(s.snap.Certificates, func(x skills.Certificate) bool { return x.ID == id })
	s.snap.CertificateAssignments = slices.DeleteFunc(s.snap.CertificateAssignments, func(x skills.EmployeeCertificate) bool { return x.CertificateID == id })
}

func (s *Store) PutSkillAssignment(a skills.EmployeeSkill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.SkillAssignments = upsert(s.snap.SkillAssignments, a, func(x skills.EmployeeSkill) int64 { return x.ID })
}

func (s *Store) RemoveSkillAssignment(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.SkillAssignments = slices.DeleteFunc(s.snap.SkillAssignments, func(x skills.EmployeeSkill) bool { return x.ID == id })
}

func (s *Store) PutCertificateAssignment(a skills.EmployeeCertificate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.CertificateAssignments = upsert(s.snap.CertificateAssignments, a, func(x skills.EmployeeCertificate) int64 { return x.ID })
}

func (s *Store) RemoveCertificateAssignment(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.CertificateAssignments = slices.DeleteFunc(s.snap.CertificateAssignments, func(x skills.EmployeeCertificate) bool { return x.ID == id })
}

// upsert replaces the record with the same id or appends it.
func upsert[T any](list []T, item T, id func(T) int64) []T {
	key := id(item)
	for i := range list {
		if id(list[i]) == key {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}
