package skills

import (
	"strings"
	"time"
)

type Employee struct {
	ID               int64  `json:"id"`
	EmployeeID       string `json:"employee_id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Department       string `json:"department"`
	ParentDepartment string `json:"parent_department"`
	Location         string `json:"location"`
	City             string `json:"city"`
	Designation      string `json:"designation"`
	Title            string `json:"title"`
	EmployeeStatus   string `json:"employee_status"`
	Manager          string `json:"manager"`
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Status falls back to Active when the record carries no status.
func (e Employee) Status() string {
	if strings.TrimSpace(e.EmployeeStatus) == "" {
		return EmployeeStatusActive
	}
	return e.EmployeeStatus
}

// Place prefers city over location.
func (e Employee) Place() string {
	if e.City != "" {
		return e.City
	}
	return e.Location
}

// Role prefers designation over title.
func (e Employee) Role() string {
	if e.Designation != "" {
		return e.Designation
	}
	return e.Title
}

type Skill struct {
	ID            int64  `json:"skill_id"`
	Name          string `json:"skill_name"`
	SkillCategory string `json:"skill_category"`
	ParentSkill   string `json:"parent_skill"`
}

func (s Skill) Category() Category {
	return ParseCategory(s.ParentSkill)
}

type Certificate struct {
	ID              int64  `json:"certificate_id"`
	Name            string `json:"certificate_name"`
	CategoryLabel   string `json:"certificate_category"`
	DifficultyLevel string `json:"difficulty_level,omitempty"`
	IssuedBy        string `json:"issued_by,omitempty"`
}

func (c Certificate) Category() Category {
	return ParseCategory(c.CategoryLabel)
}

type EmployeeSkill struct {
	ID                int64  `json:"id"`
	EmployeeID        int64  `json:"employee_id"`
	SkillID           int64  `json:"skill_id"`
	ProficiencyLevel  string `json:"proficiency_level"`
	Certified         bool   `json:"certified"`
	CertificationName string `json:"certification_name,omitempty"`
	StartDate         Date   `json:"start_date"`
	ExpiryDate        Date   `json:"expiry_date"`
	LastAssessed      string `json:"last_assessed,omitempty"`
	DescriptionNote   string `json:"description_note,omitempty"`
}

type EmployeeCertificate struct {
	ID            int64  `json:"id"`
	EmployeeID    int64  `json:"employee_id"`
	CertificateID int64  `json:"certificate_id"`
	Status        string `json:"status"`
	StartDate     Date   `json:"start_date"`
	ExpiryDate    Date   `json:"expiry_date"`
}

// Date is a calendar date; the zero value means absent.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateFromTime(t *time.Time) Date {
	if t == nil || t.IsZero() {
		return Date{}
	}
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or RFC3339; empty input is the absent date.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return DateFromTime(&parsed), nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: parsed}, nil
}

// ISO renders YYYY-MM-DD, or an empty string for the absent date.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Ptr returns nil for the absent date so it can be bound as SQL NULL.
func (d Date) Ptr() *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.ISO() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
