package matrix

import (
	"hrconsole/internal/domain/skills"
)

type Column struct {
	Name  string
	Width float64
}

var SkillExportColumns = []Column{
	{Name: "Employee ID", Width: 14},
	{Name: "Employee Name", Width: 24},
	{Name: "Department", Width: 20},
	{Name: "Skill Name", Width: 24},
	{Name: "Skill Category", Width: 20},
	{Name: "Parent Skill", Width: 20},
	{Name: "Proficiency Level", Width: 18},
	{Name: "Certified", Width: 10},
	{Name: "Certification Name", Width: 24},
	{Name: "Start Date", Width: 12},
	{Name: "Expiry Date", Width: 12},
	{Name: "Last Assessed", Width: 14},
	{Name: "Description", Width: 30},
}

var CertificateExportColumns = []Column{
	{Name: "Employee ID", Width: 14},
	{Name: "Employee Name", Width: 24},
	{Name: "Department", Width: 20},
	{Name: "Certificate Name", Width: 28},
	{Name: "Certificate Category", Width: 22},
	{Name: "Difficulty Level", Width: 16},
	{Name: "Issued By", Width: 20},
	{Name: "Status", Width: 14},
	{Name: "Start Date", Width: 12},
	{Name: "Expiry Date", Width: 12},
}

// ExportRow is one denormalized assignment keyed by column name.
type ExportRow struct {
	EmployeeID int64
	ItemID     int64
	Values     map[string]string
}

type ExportTable struct {
	Columns []Column
	Rows    []ExportRow
}

// Records returns the rows as string slices in column order, header first.
func (t ExportTable) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	out = append(out, header)
	for _, r := range t.Rows {
		rec := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			rec[i] = r.Values[c.Name]
		}
		out = append(out, rec)
	}
	return out
}

func (t ExportTable) Pairs() []Pair {
	pairs := make([]Pair, 0, len(t.Rows))
	for _, r := range t.Rows {
		pairs = append(pairs, Pair{EmployeeID: r.EmployeeID, ItemID: r.ItemID})
	}
	return pairs
}

// Export denormalizes the matrix into one row per assigned cell, reading the
// same rows and visible columns the matrix was projected with.
func (idx *Index) Export(m Matrix) ExportTable {
	if m.Kind == KindCertificates {
		return idx.ExportCertificateRows(m.Employees(), m.Columns)
	}
	return idx.ExportSkillRows(m.Employees(), m.Columns)
}

// ExportSkillRows emits one row per skill assignment of each employee whose
// skill is among visible. Employees without such assignments emit nothing.
func (idx *Index) ExportSkillRows(employees []skills.Employee, visible []Item) ExportTable {
	t := ExportTable{Columns: SkillExportColumns}
	order := columnOrder(visible)
	for _, e := range employees {
		for _, col := range order {
			a, ok := idx.SkillAssignment(e.ID, col)
			if !ok {
				continue
			}
			s, _ := idx.Skill(a.SkillID)
			t.Rows = append(t.Rows, ExportRow{
				EmployeeID: e.ID,
				ItemID:     s.ID,
				Values: map[string]string{
					"Employee ID":        e.EmployeeID,
					"Employee Name":      e.FullName(),
					"Department":         e.Department,
					"Skill Name":         s.Name,
					"Skill Category":     s.SkillCategory,
					"Parent Skill":       s.Category().Label(),
					"Proficiency Level":  a.ProficiencyLevel,
					"Certified":          yesNo(a.Certified),
					"Certification Name": a.CertificationName,
					"Start Date":         a.StartDate.ISO(),
					"Expiry Date":        a.ExpiryDate.ISO(),
					"Last Assessed":      a.LastAssessed,
					"Description":        a.DescriptionNote,
				},
			})
		}
	}
	return t
}

func (idx *Index) ExportCertificateRows(employees []skills.Employee, visible []Item) ExportTable {
	t := ExportTable{Columns: CertificateExportColumns}
	order := columnOrder(visible)
	for _, e := range employees {
		for _, col := range order {
			a, ok := idx.CertificateAssignment(e.ID, col)
			if !ok {
				continue
			}
			c, _ := idx.Certificate(a.CertificateID)
			t.Rows = append(t.Rows, ExportRow{
				EmployeeID: e.ID,
				ItemID:     c.ID,
				Values: map[string]string{
					"Employee ID":          e.EmployeeID,
					"Employee Name":        e.FullName(),
					"Department":           e.Department,
					"Certificate Name":     c.Name,
					"Certificate Category": c.Category().Label(),
					"Difficulty Level":     c.DifficultyLevel,
					"Issued By":            c.IssuedBy,
					"Status":               a.Status,
					"Start Date":           a.StartDate.ISO(),
					"Expiry Date":          a.ExpiryDate.ISO(),
				},
			})
		}
	}
	return t
}

func columnOrder(visible []Item) []int64 {
	ids := make([]int64, 0, len(visible))
	seen := make(map[int64]bool, len(visible))
	for _, it := range visible {
		if !seen[it.ID] {
			seen[it.ID] = true
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
