package skills

const (
	EmployeeStatusActive     = "Active"
	EmployeeStatusInactive   = "Inactive"
	EmployeeStatusResigned   = "Resigned"
	EmployeeStatusTerminated = "Terminated"
)

const (
	CategoryTechnical    = "Technical Skill"
	CategoryNonTechnical = "Non-Technical Skill"
)

const (
	ProficiencyBeginner     = "Beginner"
	ProficiencyIntermediate = "Intermediate"
	ProficiencyAdvanced     = "Advanced"
	ProficiencyExpert       = "Expert"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyTough  = "Tough"
)

const (
	CertificateStatusInProgress = "In-Progress"
	CertificateStatusCompleted  = "Completed"
)

var EmployeeStatuses = []string{
	EmployeeStatusActive,
	EmployeeStatusInactive,
	EmployeeStatusResigned,
	EmployeeStatusTerminated,
}

var SkillCategories = []string{CategoryTechnical, CategoryNonTechnical}

var ProficiencyLevels = []string{
	ProficiencyBeginner,
	ProficiencyIntermediate,
	ProficiencyAdvanced,
	ProficiencyExpert,
}

var DifficultyLevels = []string{DifficultyEasy, DifficultyMedium, DifficultyTough}

var CertificateStatuses = []string{CertificateStatusInProgress, CertificateStatusCompleted}
