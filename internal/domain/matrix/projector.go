package matrix

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"hrconsole/internal/domain/skills"
)

type Kind string

const (
	KindSkills       Kind = "skills"
	KindCertificates Kind = "certificates"
)

const (
	EmptyCode     = "-"
	CertifiedMark = "✓"
)

// Collapse holds the collapsed state of column groups, keyed by group name.
type Collapse map[string]bool

type Group struct {
	Name      string `json:"name"`
	Collapsed bool   `json:"collapsed"`
	Items     []Item `json:"items"`
}

// Cell is Empty unless Skill or Certificate is set.
type Cell struct {
	ItemID      int64                       `json:"item_id"`
	Code        string                      `json:"code"`
	Skill       *skills.EmployeeSkill       `json:"skill,omitempty"`
	Certificate *skills.EmployeeCertificate `json:"certificate,omitempty"`
}

func (c Cell) Assigned() bool {
	return c.Skill != nil || c.Certificate != nil
}

type Row struct {
	Employee skills.Employee `json:"employee"`
	Cells    []Cell          `json:"cells"`
}

type Pair struct {
	EmployeeID int64 `json:"employee_id"`
	ItemID     int64 `json:"item_id"`
}

// Matrix is the projection of filtered employees against the visible items.
type Matrix struct {
	Kind    Kind    `json:"kind"`
	Groups  []Group `json:"groups"`
	Columns []Item  `json:"columns"`
	Rows    []Row   `json:"rows"`
}

// ProjectSkills builds the employees × skills matrix.
func (idx *Index) ProjectSkills(employees []skills.Employee, filtered []skills.Skill, collapse Collapse) Matrix {
	items := SkillItems(filtered)
	return idx.project(KindSkills, employees, items, groupOrder(skills.SkillCategories, items), collapse)
}

// ProjectCertificates builds the employees × certificates matrix with a
// single flat group.
func (idx *Index) ProjectCertificates(employees []skills.Employee, filtered []skills.Certificate, collapse Collapse) Matrix {
	items := CertificateItems(filtered)
	return idx.project(KindCertificates, employees, items, []string{GroupCertificates}, collapse)
}

func (idx *Index) project(kind Kind, employees []skills.Employee, items []Item, order []string, collapse Collapse) Matrix {
	m := Matrix{Kind: kind, Rows: make([]Row, 0, len(employees))}
	for _, name := range order {
		g := Group{Name: name, Collapsed: collapse[name]}
		for _, it := range items {
			if it.Group == name {
				g.Items = append(g.Items, it)
			}
		}
		if len(g.Items) == 0 {
			continue
		}
		m.Groups = append(m.Groups, g)
		if !g.Collapsed {
			m.Columns = append(m.Columns, g.Items...)
		}
	}

	for _, e := range employees {
		row := Row{Employee: e, Cells: make([]Cell, 0, len(m.Columns))}
		for _, col := range m.Columns {
			row.Cells = append(row.Cells, idx.cell(kind, e.ID, col.ID))
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

func (idx *Index) cell(kind Kind, employeeID, itemID int64) Cell {
	c := Cell{ItemID: itemID, Code: EmptyCode}
	switch kind {
	case KindSkills:
		if a, ok := idx.SkillAssignment(employeeID, itemID); ok {
			c.Skill = &a
			c.Code = SkillCode(a)
		}
	case KindCertificates:
		if a, ok := idx.CertificateAssignment(employeeID, itemID); ok {
			c.Certificate = &a
			c.Code = CertificateCode(a)
		}
	}
	return c
}

// SkillCode is the first letter of the proficiency level followed by a
// check mark when the skill is certified.
func SkillCode(a skills.EmployeeSkill) string {
	code := ""
	if level := strings.TrimSpace(a.ProficiencyLevel); level != "" {
		r, _ := utf8.DecodeRuneInString(level)
		code = string(unicode.ToUpper(r))
	}
	if a.Certified {
		code += CertifiedMark
	}
	if code == "" {
		return "•"
	}
	return code
}

func CertificateCode(a skills.EmployeeCertificate) string {
	if a.Status == "" {
		return "Assigned"
	}
	return a.Status
}

// AssignedPairs lists the (employee, item) pairs of non-empty cells in row
// then column order.
func (m Matrix) AssignedPairs() []Pair {
	var pairs []Pair
	for _, r := range m.Rows {
		for _, c := range r.Cells {
			if c.Assigned() {
				pairs = append(pairs, Pair{EmployeeID: r.Employee.ID, ItemID: c.ItemID})
			}
		}
	}
	return pairs
}

func (m Matrix) Employees() []skills.Employee {
	out := make([]skills.Employee, 0, len(m.Rows))
	for _, r := range m.Rows {
		out = append(out, r.Employee)
	}
	return out
}
