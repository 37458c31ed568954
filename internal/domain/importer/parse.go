package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"hrconsole/internal/domain/skills"
	"hrconsole/internal/platform/document"
)

const (
	ColEmployeeID   = "Employee ID"
	ColFirstName    = "First Name"
	ColLastName     = "Last Name"
	ColSkillName    = "Skills Name"
	ColCategory     = "Category"
	ColParentSkill  = "Parent Skill"
	ColProficiency  = "Proficiency Level"
	ColCertified    = "Certified"
	ColStartDate    = "Start Date"
	ColExpiryDate   = "Expiry Date"
	ColLastAssessed = "Last Assessed"
)

var RequiredColumns = []string{ColEmployeeID, ColFirstName, ColLastName, ColSkillName, ColCategory, ColProficiency}

var TemplateColumns = []document.Column{
	{Name: ColEmployeeID, Width: 12},
	{Name: ColFirstName, Width: 12},
	{Name: ColLastName, Width: 12},
	{Name: ColSkillName, Width: 20},
	{Name: ColCategory, Width: 12},
	{Name: ColParentSkill, Width: 20},
	{Name: ColProficiency, Width: 16},
	{Name: ColCertified, Width: 10},
	{Name: ColStartDate, Width: 15},
	{Name: ColExpiryDate, Width: 15},
	{Name: ColLastAssessed, Width: 15},
}

var ErrNoDataRows = errors.New("the file has no data rows")

// MissingColumnsError lists the required headers absent from the file.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// Row is one validated spreadsheet line. Line is the 1-based sheet row.
type Row struct {
	Line             int         `json:"row"`
	EmployeeID       string      `json:"employee_id"`
	FirstName        string      `json:"first_name"`
	LastName         string      `json:"last_name"`
	SkillName        string      `json:"skill_name"`
	Category         string      `json:"category"`
	ParentSkill      string      `json:"parent_skill,omitempty"`
	ProficiencyLevel string      `json:"proficiency_level"`
	Certified        bool        `json:"certified"`
	StartDate        skills.Date `json:"start_date"`
	ExpiryDate       skills.Date `json:"expiry_date"`
	LastAssessed     string      `json:"last_assessed,omitempty"`
}

// Parse reads the first worksheet. Invalid lines are reported as messages
// and left out of the returned rows; a missing required header fails the
// whole file.
func Parse(r io.Reader) ([]Row, []string, error) {
	records, err := document.ReadRows(r)
	if err != nil {
		return nil, nil, err
	}
	header := headerIndex(records[0])
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := header[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &MissingColumnsError{Columns: missing}
	}

	var rows []Row
	var problems []string
	for i, record := range records[1:] {
		line := i + 2
		cell := func(col string) string {
			pos, ok := header[strings.ToLower(col)]
			if !ok || pos >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[pos])
		}
		if blank(record) {
			continue
		}
		row, rowErr := buildRow(line, cell)
		if rowErr != nil {
			problems = append(problems, fmt.Sprintf("Row %d: %v", line, rowErr))
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 && len(problems) == 0 {
		return nil, nil, ErrNoDataRows
	}
	return rows, problems, nil
}

func buildRow(line int, cell func(string) string) (Row, error) {
	row := Row{
		Line:             line,
		EmployeeID:       cell(ColEmployeeID),
		FirstName:        cell(ColFirstName),
		LastName:         cell(ColLastName),
		SkillName:        cell(ColSkillName),
		Category:         skills.NormalizeSkillCategory(cell(ColCategory)),
		ParentSkill:      cell(ColParentSkill),
		ProficiencyLevel: skills.NormalizeProficiency(cell(ColProficiency)),
		Certified:        truthy(cell(ColCertified)),
	}
	for _, req := range []struct{ name, value string }{
		{ColEmployeeID, row.EmployeeID},
		{ColFirstName, row.FirstName},
		{ColLastName, row.LastName},
		{ColSkillName, row.SkillName},
		{ColCategory, row.Category},
		{ColProficiency, row.ProficiencyLevel},
	} {
		if req.value == "" {
			return Row{}, fmt.Errorf("%s is required", req.name)
		}
	}
	if !contains(skills.ProficiencyLevels, row.ProficiencyLevel) {
		return Row{}, fmt.Errorf("unknown proficiency level %q", row.ProficiencyLevel)
	}

	var err error
	if row.StartDate, err = ParseDate(cell(ColStartDate)); err != nil {
		return Row{}, fmt.Errorf("%s: %w", ColStartDate, err)
	}
	if row.ExpiryDate, err = ParseDate(cell(ColExpiryDate)); err != nil {
		return Row{}, fmt.Errorf("%s: %w", ColExpiryDate, err)
	}
	if row.LastAssessed, err = ParseMonth(cell(ColLastAssessed)); err != nil {
		return Row{}, fmt.Errorf("%s: %w", ColLastAssessed, err)
	}
	if !row.StartDate.IsZero() && !row.ExpiryDate.IsZero() && row.ExpiryDate.Before(row.StartDate.Time) {
		return Row{}, errors.New("expiry date is before start date")
	}
	return row, nil
}

func headerIndex(header []string) map[string]int {
	out := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := out[key]; !seen && key != "" {
			out[key] = i
		}
	}
	return out
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true", "1", "certified":
		return true
	}
	return false
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
