package skills

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hrconsole/internal/platform/events"
)

// Cache mirrors committed changes into the in-memory collections the matrix
// views read from.
type Cache interface {
	PutEmployee(Employee)
	RemoveEmployee(id int64)
	PutSkill(Skill)
	RemoveSkill(id int64)
	PutCertificate(Certificate)
	RemoveCertificate(id int64)
	PutSkillAssignment(EmployeeSkill)
	RemoveSkillAssignment(id int64)
	PutCertificateAssignment(EmployeeCertificate)
	RemoveCertificateAssignment(id int64)
}

type Auditor interface {
	Record(ctx context.Context, action, entityType string, entityID int64, before, after any) error
}

type Service struct {
	Store  StoreAPI
	Cache  Cache
	Events events.Publisher
	Audit  Auditor
	Logger *zap.Logger
}

func NewService(store StoreAPI, cache Cache, publisher events.Publisher, auditor Auditor, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{Store: store, Cache: cache, Events: publisher, Audit: auditor, Logger: logger.Named("skills")}
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.Store.ListEmployees(ctx)
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	return s.Store.GetEmployee(ctx, id)
}

func (s *Service) FindEmployeeByCode(ctx context.Context, employeeID string) (Employee, error) {
	return s.Store.FindEmployeeByCode(ctx, strings.TrimSpace(employeeID))
}

func (s *Service) SaveEmployee(ctx context.Context, e Employee) (Employee, error) {
	e.EmployeeID = strings.TrimSpace(e.EmployeeID)
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	e.EmployeeStatus = Canonical(e.EmployeeStatus, EmployeeStatuses)
	if e.EmployeeID == "" || e.FirstName == "" || e.LastName == "" {
		return Employee{}, fmt.Errorf("%w: employee id, first name and last name are required", ErrInvalidInput)
	}
	if e.EmployeeStatus != "" && !contains(EmployeeStatuses, e.EmployeeStatus) {
		return Employee{}, fmt.Errorf("%w: unknown employee status %q", ErrInvalidInput, e.EmployeeStatus)
	}

	var before any
	var saved Employee
	var err error
	if e.ID == 0 {
		saved, err = s.Store.CreateEmployee(ctx, e)
	} else {
		if prev, getErr := s.Store.GetEmployee(ctx, e.ID); getErr == nil {
			before = prev
		}
		saved, err = s.Store.UpdateEmployee(ctx, e)
	}
	if err != nil {
		return Employee{}, err
	}
	s.Cache.PutEmployee(saved)
	s.changed(ctx, events.EmployeeSaved, "employee", saved.ID, before, saved)
	return saved, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	prev, err := s.Store.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	s.Cache.RemoveEmployee(id)
	s.changed(ctx, events.EmployeeDeleted, "employee", id, prev, nil)
	return nil
}

func (s *Service) ListSkills(ctx context.Context) ([]Skill, error) {
	return s.Store.ListSkills(ctx)
}

func (s *Service) FindSkillByName(ctx context.Context, name string) (Skill, error) {
	return s.Store.FindSkillByName(ctx, strings.TrimSpace(name))
}

func (s *Service) SkillParentCategories(ctx context.Context) ([]string, error) {
	return s.Store.SkillParentCategories(ctx)
}

func (s *Service) SaveSkill(ctx context.Context, sk Skill) (Skill, error) {
	sk.Name = strings.TrimSpace(sk.Name)
	sk.ParentSkill = strings.TrimSpace(sk.ParentSkill)
	sk.SkillCategory = NormalizeSkillCategory(sk.SkillCategory)
	if sk.Name == "" {
		return Skill{}, fmt.Errorf("%w: skill name is required", ErrInvalidInput)
	}

	var before any
	var saved Skill
	var err error
	if sk.ID == 0 {
		saved, err = s.Store.CreateSkill(ctx, sk)
	} else {
		if prev, getErr := s.Store.GetSkill(ctx, sk.ID); getErr == nil {
			before = prev
		}
		saved, err = s.Store.UpdateSkill(ctx, sk)
	}
	if err != nil {
		return Skill{}, err
	}
	s.Cache.PutSkill(saved)
	s.changed(ctx, events.SkillSaved, "skill", saved.ID, before, saved)
	return saved, nil
}

// DeleteSkill refuses while any employee still holds the skill.
func (s *Service) DeleteSkill(ctx context.Context, id int64) error {
	prev, err := s.Store.GetSkill(ctx, id)
	if err != nil {
		return err
	}
	refs, err := s.Store.CountSkillAssignments(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return &ConflictError{Entity: "skill", Name: prev.Name, References: refs}
	}
	if err := s.Store.DeleteSkill(ctx, id); err != nil {
		return err
	}
	s.Cache.RemoveSkill(id)
	s.changed(ctx, events.SkillDeleted, "skill", id, prev, nil)
	return nil
}

func (s *Service) ListCertificates(ctx context.Context) ([]Certificate, error) {
	return s.Store.ListCertificates(ctx)
}

func (s *Service) CertificateParentCategories(ctx context.Context) ([]string, error) {
	return s.Store.CertificateParentCategories(ctx)
}

func (s *Service) SaveCertificate(ctx context.Context, c Certificate) (Certificate, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.CategoryLabel = strings.TrimSpace(c.CategoryLabel)
	c.DifficultyLevel = Canonical(c.DifficultyLevel, DifficultyLevels)
	if c.Name == "" {
		return Certificate{}, fmt.Errorf("%w: certificate name is required", ErrInvalidInput)
	}
	if c.DifficultyLevel != "" && !contains(DifficultyLevels, c.DifficultyLevel) {
		return Certificate{}, fmt.Errorf("%w: unknown difficulty level %q", ErrInvalidInput, c.DifficultyLevel)
	}

	var before any
	var saved Certificate
	var err error
	if c.ID == 0 {
		saved, err = s.Store.CreateCertificate(ctx, c)
	} else {
		if prev, getErr := s.Store.GetCertificate(ctx, c.ID); getErr == nil {
			before = prev
		}
		saved, err = s.Store.UpdateCertificate(ctx, c)
	}
	if err != nil {
		return Certificate{}, err
	}
	s.Cache.PutCertificate(saved)
	s.changed(ctx, events.CertificateSaved, "certificate", saved.ID, before, saved)
	return saved, nil
}

func (s *Service) DeleteCertificate(ctx context.Context, id int64) error {
	prev, err := s.Store.GetCertificate(ctx, id)
	if err != nil {
		return err
	}
	refs, err := s.Store.CountCertificateAssignments(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return &ConflictError{Entity: "certificate", Name: prev.Name, References: refs}
	}
	if err := s.Store.DeleteCertificate(ctx, id); err != nil {
		return err
	}
	s.Cache.RemoveCertificate(id)
	s.changed(ctx, events.CertificateDeleted, "certificate", id, prev, nil)
	return nil
}

func (s *Service) ListEmployeeSkills(ctx context.Context) ([]EmployeeSkill, error) {
	return s.Store.ListEmployeeSkills(ctx)
}

func (s *Service) SaveEmployeeSkill(ctx context.Context, a EmployeeSkill) (EmployeeSkill, error) {
	a.ProficiencyLevel = NormalizeProficiency(a.ProficiencyLevel)
	month, err := NormalizeMonth(a.LastAssessed)
	if err != nil {
		return EmployeeSkill{}, err
	}
	a.LastAssessed = month
	if a.ID == 0 && (a.EmployeeID == 0 || a.SkillID == 0) {
		return EmployeeSkill{}, fmt.Errorf("%w: employee and skill are required", ErrInvalidInput)
	}
	if a.ProficiencyLevel != "" && !contains(ProficiencyLevels, a.ProficiencyLevel) {
		return EmployeeSkill{}, fmt.Errorf("%w: unknown proficiency level %q", ErrInvalidInput, a.ProficiencyLevel)
	}
	if err := checkDates(a.StartDate, a.ExpiryDate); err != nil {
		return EmployeeSkill{}, err
	}

	var before any
	var saved EmployeeSkill
	if a.ID == 0 {
		saved, err = s.Store.CreateEmployeeSkill(ctx, a)
	} else {
		if prev, getErr := s.Store.GetEmployeeSkill(ctx, a.ID); getErr == nil {
			before = prev
		}
		saved, err = s.Store.UpdateEmployeeSkill(ctx, a)
	}
	if err != nil {
		return EmployeeSkill{}, err
	}
	s.Cache.PutSkillAssignment(saved)
	s.changed(ctx, events.SkillAssignmentSaved, "employee_skill", saved.ID, before, saved)
	return saved, nil
}

// UpsertEmployeeSkill is the import path: it replaces any existing
// assignment of the same pair instead of failing.
func (s *Service) UpsertEmployeeSkill(ctx context.Context, a EmployeeSkill) (EmployeeSkill, bool, error) {
	a.ProficiencyLevel = NormalizeProficiency(a.ProficiencyLevel)
	month, err := NormalizeMonth(a.LastAssessed)
	if err != nil {
		return EmployeeSkill{}, false, err
	}
	a.LastAssessed = month
	saved, created, err := s.Store.UpsertEmployeeSkill(ctx, a)
	if err != nil {
		return EmployeeSkill{}, false, err
	}
	s.Cache.PutSkillAssignment(saved)
	return saved, created, nil
}

func (s *Service) DeleteEmployeeSkill(ctx context.Context, id int64) error {
	prev, err := s.Store.GetEmployeeSkill(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteEmployeeSkill(ctx, id); err != nil {
		return err
	}
	s.Cache.RemoveSkillAssignment(id)
	s.changed(ctx, events.SkillAssignmentDeleted, "employee_skill", id, prev, nil)
	return nil
}

func (s *Service) ListEmployeeCertificates(ctx context.Context) ([]EmployeeCertificate, error) {
	return s.Store.ListEmployeeCertificates(ctx)
}

func (s *Service) SaveEmployeeCertificate(ctx context.Context, a EmployeeCertificate) (EmployeeCertificate, error) {
	a.Status = Canonical(a.Status, CertificateStatuses)
	if a.ID == 0 && (a.EmployeeID == 0 || a.CertificateID == 0) {
		return EmployeeCertificate{}, fmt.Errorf("%w: employee and certificate are required", ErrInvalidInput)
	}
	if a.Status != "" && !contains(CertificateStatuses, a.Status) {
		return EmployeeCertificate{}, fmt.Errorf("%w: unknown certificate status %q", ErrInvalidInput, a.Status)
	}
	if err := checkDates(a.StartDate, a.ExpiryDate); err != nil {
		return EmployeeCertificate{}, err
	}

	var before any
	var saved EmployeeCertificate
	var err error
	if a.ID == 0 {
		saved, err = s.Store.CreateEmployeeCertificate(ctx, a)
	} else {
		if prev, getErr := s.Store.GetEmployeeCertificate(ctx, a.ID); getErr == nil {
			before = prev
		}
		saved, err = s.Store.UpdateEmployeeCertificate(ctx, a)
	}
	if err != nil {
		return EmployeeCertificate{}, err
	}
	s.Cache.PutCertificateAssignment(saved)
	s.changed(ctx, events.CertificateAssignmentSaved, "employee_certificate", saved.ID, before, saved)
	return saved, nil
}

func (s *Service) DeleteEmployeeCertificate(ctx context.Context, id int64) error {
	prev, err := s.Store.GetEmployeeCertificate(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteEmployeeCertificate(ctx, id); err != nil {
		return err
	}
	s.Cache.RemoveCertificateAssignment(id)
	s.changed(ctx, events.CertificateAssignmentDeleted, "employee_certificate", id, prev, nil)
	return nil
}

func (s *Service) changed(ctx context.Context, eventType events.EventType, entity string, id int64, before, after any) {
	payload := after
	if payload == nil {
		payload = before
	}
	s.Events.Publish(eventType, id, payload)
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Record(ctx, string(eventType), entity, id, before, after); err != nil {
		s.Logger.Warn("audit record failed", zap.String("action", string(eventType)), zap.Int64("entity_id", id), zap.Error(err))
	}
}

func checkDates(start, expiry Date) error {
	if !start.IsZero() && !expiry.IsZero() && expiry.Before(start.Time) {
		return fmt.Errorf("%w: expiry date is before start date", ErrInvalidInput)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
