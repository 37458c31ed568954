package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"hrconsole/internal/domain/skills"
	"hrconsole/internal/platform/document"
	"hrconsole/internal/platform/events"
)

// Catalog is the slice of the skills service an import needs.
type Catalog interface {
	FindEmployeeByCode(ctx context.Context, employeeID string) (skills.Employee, error)
	FindSkillByName(ctx context.Context, name string) (skills.Skill, error)
	SaveSkill(ctx context.Context, sk skills.Skill) (skills.Skill, error)
	UpsertEmployeeSkill(ctx context.Context, a skills.EmployeeSkill) (skills.EmployeeSkill, bool, error)
}

type Analysis struct {
	NewSkills   int      `json:"new_skills"`
	Assignments int      `json:"assignments"`
	Warnings    []string `json:"warnings"`
	Errors      []string `json:"errors"`
	PreviewData []Row    `json:"preview_data"`
}

type Result struct {
	SkillsCreated      int      `json:"skills_created"`
	AssignmentsCreated int      `json:"assignments_created"`
	AssignmentsUpdated int      `json:"assignments_updated"`
	TotalProcessed     int      `json:"total_processed"`
	Errors             []string `json:"errors"`
}

type Importer struct {
	Catalog Catalog
	Events  events.Publisher
	Logger  *zap.Logger
}

func New(catalog Catalog, publisher events.Publisher, logger *zap.Logger) *Importer {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Importer{Catalog: catalog, Events: publisher, Logger: logger.Named("skills_import")}
}

// Analyze reports what a commit of the file would do without writing.
func (im *Importer) Analyze(ctx context.Context, r io.Reader) (Analysis, error) {
	rows, problems, err := Parse(r)
	if err != nil {
		return Analysis{}, err
	}
	out := Analysis{Warnings: []string{}, Errors: problems, PreviewData: rows}
	if out.Errors == nil {
		out.Errors = []string{}
	}
	if out.PreviewData == nil {
		out.PreviewData = []Row{}
	}

	newSkills := map[string]bool{}
	for _, row := range rows {
		emp, err := im.Catalog.FindEmployeeByCode(ctx, row.EmployeeID)
		if err != nil {
			if !errors.Is(err, skills.ErrNotFound) {
				return Analysis{}, err
			}
			out.Errors = append(out.Errors, fmt.Sprintf("Row %d: employee %s not found", row.Line, row.EmployeeID))
			continue
		}
		if !sameName(emp, row) {
			out.Warnings = append(out.Warnings, fmt.Sprintf("Row %d: name %s %s differs from employee record %s", row.Line, row.FirstName, row.LastName, emp.FullName()))
		}
		key := strings.ToLower(row.SkillName)
		if _, err := im.Catalog.FindSkillByName(ctx, row.SkillName); err != nil {
			if !errors.Is(err, skills.ErrNotFound) {
				return Analysis{}, err
			}
			newSkills[key] = true
		}
		out.Assignments++
	}
	out.NewSkills = len(newSkills)
	return out, nil
}

// Commit creates missing skills and upserts one assignment per valid row.
// Row-level failures are collected; only store failures abort the run.
func (im *Importer) Commit(ctx context.Context, r io.Reader) (Result, error) {
	rows, problems, err := Parse(r)
	if err != nil {
		return Result{}, err
	}
	res := Result{Errors: problems, TotalProcessed: len(rows) + len(problems)}
	if res.Errors == nil {
		res.Errors = []string{}
	}

	known := map[string]skills.Skill{}
	for _, row := range rows {
		emp, err := im.Catalog.FindEmployeeByCode(ctx, row.EmployeeID)
		if err != nil {
			if !errors.Is(err, skills.ErrNotFound) {
				return res, err
			}
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: employee %s not found", row.Line, row.EmployeeID))
			continue
		}

		sk, created, err := im.skill(ctx, known, row)
		if err != nil {
			return res, err
		}
		if created {
			res.SkillsCreated++
		}

		_, inserted, err := im.Catalog.UpsertEmployeeSkill(ctx, skills.EmployeeSkill{
			EmployeeID:       emp.ID,
			SkillID:          sk.ID,
			ProficiencyLevel: row.ProficiencyLevel,
			Certified:        row.Certified,
			StartDate:        row.StartDate,
			ExpiryDate:       row.ExpiryDate,
			LastAssessed:     row.LastAssessed,
		})
		if err != nil {
			if errors.Is(err, skills.ErrInvalidInput) {
				res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", row.Line, err))
				continue
			}
			return res, err
		}
		if inserted {
			res.AssignmentsCreated++
		} else {
			res.AssignmentsUpdated++
		}
	}

	im.Logger.Info("skills import committed",
		zap.Int("rows", res.TotalProcessed),
		zap.Int("skills_created", res.SkillsCreated),
		zap.Int("assignments_created", res.AssignmentsCreated),
		zap.Int("errors", len(res.Errors)))
	im.Events.Publish(events.SkillsImported, 0, res)
	return res, nil
}

func (im *Importer) skill(ctx context.Context, known map[string]skills.Skill, row Row) (skills.Skill, bool, error) {
	key := strings.ToLower(row.SkillName)
	if sk, ok := known[key]; ok {
		return sk, false, nil
	}
	sk, err := im.Catalog.FindSkillByName(ctx, row.SkillName)
	if err == nil {
		known[key] = sk
		return sk, false, nil
	}
	if !errors.Is(err, skills.ErrNotFound) {
		return skills.Skill{}, false, err
	}
	sk, err = im.Catalog.SaveSkill(ctx, skills.Skill{Name: row.SkillName, SkillCategory: row.Category, ParentSkill: row.ParentSkill})
	if errors.Is(err, skills.ErrDuplicateName) {
		sk, err = im.Catalog.FindSkillByName(ctx, row.SkillName)
		if err != nil {
			return skills.Skill{}, false, err
		}
		known[key] = sk
		return sk, false, nil
	}
	if err != nil {
		return skills.Skill{}, false, err
	}
	known[key] = sk
	return sk, true, nil
}

func sameName(e skills.Employee, row Row) bool {
	return strings.EqualFold(strings.TrimSpace(e.FirstName), row.FirstName) &&
		strings.EqualFold(strings.TrimSpace(e.LastName), row.LastName)
}

// WriteTemplate writes the import template workbook with sample rows.
func WriteTemplate(w io.Writer) error {
	return document.WriteXLSX(w, document.Sheet{
		Name:    "Skills Template",
		Columns: TemplateColumns,
		Rows: [][]string{
			{"EMP001", "John", "Doe", "Python Programming", "HardSkill", "Programming Languages", "Expert", "Yes", "2024-01-15", "2027-01-15", "2024-06"},
			{"EMP002", "Jane", "Smith", "Project Management", "SoftSkill", "Leadership", "Advance", "Yes", "2024-03-01", "2027-03-01", "2024-08"},
			{"EMP003", "Bob", "Johnson", "React.js", "HardSkill", "Frontend Development", "Intermediate", "No", "2024-02-10", "", "2024-05"},
		},
	})
}
