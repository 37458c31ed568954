package skills

import "context"

// Source adapts a StoreAPI to the collection loader's fetch contract.
type Source struct {
	Store StoreAPI
}

func (s Source) Employees(ctx context.Context) ([]Employee, error) {
	return s.Store.ListEmployees(ctx)
}

func (s Source) Skills(ctx context.Context) ([]Skill, error) {
	return s.Store.ListSkills(ctx)
}

func (s Source) Certificates(ctx context.Context) ([]Certificate, error) {
	return s.Store.ListCertificates(ctx)
}

func (s Source) EmployeeSkills(ctx context.Context) ([]EmployeeSkill, error) {
	return s.Store.ListEmployeeSkills(ctx)
}

func (s Source) EmployeeCertificates(ctx context.Context) ([]EmployeeCertificate, error) {
	return s.Store.ListEmployeeCertificates(ctx)
}
