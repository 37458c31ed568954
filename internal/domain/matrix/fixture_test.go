package matrix

import "hrconsole/internal/domain/skills"

type fixture struct {
	employees    []skills.Employee
	skills       []skills.Skill
	certificates []skills.Certificate
	skillAssign  []skills.EmployeeSkill
	certAssign   []skills.EmployeeCertificate
}

func newFixture() fixture {
	return fixture{
		employees: []skills.Employee{
			{ID: 1, EmployeeID: "E001", FirstName: "Alice", LastName: "Smith", Department: "Eng", ParentDepartment: "Tech", City: "Pune", Designation: "Backend Engineer"},
			{ID: 2, EmployeeID: "E002", FirstName: "Bob", LastName: "Jones", Department: "Sales", ParentDepartment: "Business", Location: "Mumbai", Title: "Account Manager", EmployeeStatus: skills.EmployeeStatusResigned},
			{ID: 3, EmployeeID: "E003", FirstName: "Carol", LastName: "White", Department: "Eng", ParentDepartment: "Tech", City: "Pune", Designation: "QA Lead", EmployeeStatus: skills.EmployeeStatusActive},
			{ID: 4, EmployeeID: "E004", FirstName: "Dan", LastName: "Brown", Department: "HR", ParentDepartment: "Business", City: "Delhi", Designation: "Recruiter", EmployeeStatus: skills.EmployeeStatusInactive},
		},
		skills: []skills.Skill{
			{ID: 10, Name: "Go", SkillCategory: skills.CategoryTechnical},
			{ID: 11, Name: "Postgres", SkillCategory: skills.CategoryTechnical, ParentSkill: "Backend"},
			{ID: 12, Name: "Communication", SkillCategory: skills.CategoryNonTechnical, ParentSkill: "Soft"},
			{ID: 13, Name: "React", SkillCategory: skills.CategoryTechnical, ParentSkill: "Frontend"},
		},
		certificates: []skills.Certificate{
			{ID: 20, Name: "AWS Solutions Architect", CategoryLabel: "Cloud", DifficultyLevel: skills.DifficultyTough, IssuedBy: "AWS"},
			{ID: 21, Name: "Scrum Master", CategoryLabel: "  "},
		},
		skillAssign: []skills.EmployeeSkill{
			{ID: 100, EmployeeID: 1, SkillID: 10, ProficiencyLevel: skills.ProficiencyExpert, Certified: true, StartDate: skills.NewDate(2024, 3, 5)},
			{ID: 101, EmployeeID: 1, SkillID: 11, ProficiencyLevel: skills.ProficiencyAdvanced},
			{ID: 102, EmployeeID: 2, SkillID: 12, ProficiencyLevel: skills.ProficiencyIntermediate},
			{ID: 103, EmployeeID: 3, SkillID: 13, ProficiencyLevel: skills.ProficiencyBeginner, Certified: true},
		},
		certAssign: []skills.EmployeeCertificate{
			{ID: 200, EmployeeID: 1, CertificateID: 20, Status: skills.CertificateStatusCompleted, ExpiryDate: skills.NewDate(2027, 1, 31)},
			{ID: 201, EmployeeID: 3, CertificateID: 21, Status: skills.CertificateStatusInProgress},
		},
	}
}

func (f fixture) index() *Index {
	return NewIndex(f.skills, f.certificates, f.skillAssign, f.certAssign)
}

func (f fixture) filter(state FilterState) []int64 {
	return ids(FilterEmployees(f.employees, state, f.skills, f.certificates, f.skillAssign, f.certAssign))
}

func ids(employees []skills.Employee) []int64 {
	out := make([]int64, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.ID)
	}
	return out
}
