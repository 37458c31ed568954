package skills

import "context"

type StoreAPI interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id int64) (Employee, error)
	FindEmployeeByCode(ctx context.Context, employeeID string) (Employee, error)
	CreateEmployee(ctx context.Context, e Employee) (Employee, error)
	UpdateEmployee(ctx context.Context, e Employee) (Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error

	ListSkills(ctx context.Context) ([]Skill, error)
	GetSkill(ctx context.Context, id int64) (Skill, error)
	FindSkillByName(ctx context.Context, name string) (Skill, error)
	CreateSkill(ctx context.Context, s Skill) (Skill, error)
	UpdateSkill(ctx context.Context, s Skill) (Skill, error)
	DeleteSkill(ctx context.Context, id int64) error
	CountSkillAssignments(ctx context.Context, skillID int64) (int, error)
	SkillParentCategories(ctx context.Context) ([]string, error)

	ListCertificates(ctx context.Context) ([]Certificate, error)
	GetCertificate(ctx context.Context, id int64) (Certificate, error)
	CreateCertificate(ctx context.Context, c Certificate) (Certificate, error)
	UpdateCertificate(ctx context.Context, c Certificate) (Certificate, error)
	DeleteCertificate(ctx context.Context, id int64) error
	CountCertificateAssignments(ctx context.Context, certificateID int64) (int, error)
	CertificateParentCategories(ctx context.Context) ([]string, error)

	ListEmployeeSkills(ctx context.Context) ([]EmployeeSkill, error)
	GetEmployeeSkill(ctx context.Context, id int64) (EmployeeSkill, error)
	CreateEmployeeSkill(ctx context.Context, a EmployeeSkill) (EmployeeSkill, error)
	UpdateEmployeeSkill(ctx context.Context, a EmployeeSkill) (EmployeeSkill, error)
	UpsertEmployeeSkill(ctx context.Context, a EmployeeSkill) (EmployeeSkill, bool, error)
	DeleteEmployeeSkill(ctx context.Context, id int64) error

	ListEmployeeCertificates(ctx context.Context) ([]EmployeeCertificate, error)
	GetEmployeeCertificate(ctx context.Context, id int64) (EmployeeCertificate, error)
	CreateEmployeeCertificate(ctx context.Context, a EmployeeCertificate) (EmployeeCertificate, error)
	UpdateEmployeeCertificate(ctx context.Context, a EmployeeCertificate) (EmployeeCertificate, error)
	DeleteEmployeeCertificate(ctx context.Context, id int64) error
}
