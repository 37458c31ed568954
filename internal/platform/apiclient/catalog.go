package apiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"hrconsole/internal/domain/skills"
)

// Catalog runs bulk-import lookups and writes against the backend. Employees,
// skills and assignments are fetched once and kept current as the import
// writes.
type Catalog struct {
	Client *Client

	mu          sync.Mutex
	loaded      bool
	employees   map[string]skills.Employee
	skillsByKey map[string]skills.Skill
	assignments map[[2]int64]skills.EmployeeSkill
}

func NewCatalog(client *Client) *Catalog {
	return &Catalog{Client: client}
}

func (c *Catalog) load(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	employees, err := c.Client.Employees(ctx)
	if err != nil {
		return fmt.Errorf("fetch employees: %w", err)
	}
	items, err := c.Client.Skills(ctx)
	if err != nil {
		return fmt.Errorf("fetch skills: %w", err)
	}
	assigned, err := c.Client.EmployeeSkills(ctx)
	if err != nil {
		return fmt.Errorf("fetch employee skills: %w", err)
	}

	c.employees = make(map[string]skills.Employee, len(employees))
	for _, e := range employees {
		c.employees[strings.TrimSpace(e.EmployeeID)] = e
	}
	c.skillsByKey = make(map[string]skills.Skill, len(items))
	for _, s := range items {
		c.skillsByKey[nameKey(s.Name)] = s
	}
	c.assignments = make(map[[2]int64]skills.EmployeeSkill, len(assigned))
	for _, a := range assigned {
		c.assignments[[2]int64{a.EmployeeID, a.SkillID}] = a
	}
	c.loaded = true
	return nil
}

func (c *Catalog) FindEmployeeByCode(ctx context.Context, employeeID string) (skills.Employee, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return skills.Employee{}, err
	}
	e, ok := c.employees[strings.TrimSpace(employeeID)]
	if !ok {
		return skills.Employee{}, skills.ErrNotFound
	}
	return e, nil
}

func (c *Catalog) FindSkillByName(ctx context.Context, name string) (skills.Skill, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return skills.Skill{}, err
	}
	s, ok := c.skillsByKey[nameKey(name)]
	if !ok {
		return skills.Skill{}, skills.ErrNotFound
	}
	return s, nil
}

func (c *Catalog) SaveSkill(ctx context.Context, sk skills.Skill) (skills.Skill, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return skills.Skill{}, err
	}
	var saved skills.Skill
	var err error
	if sk.ID == 0 {
		saved, err = c.Client.CreateSkill(ctx, sk)
	} else {
		saved, err = c.Client.UpdateSkill(ctx, sk)
	}
	if errors.Is(err, ErrConflict) {
		// Created elsewhere since the fetch; the next lookup refetches.
		c.loaded = false
		return skills.Skill{}, fmt.Errorf("%w: %v", skills.ErrDuplicateName, err)
	}
	if err != nil {
		return skills.Skill{}, domainError(err)
	}
	c.skillsByKey[nameKey(saved.Name)] = saved
	return saved, nil
}

// UpsertEmployeeSkill updates the employee's existing assignment of the skill
// or creates one. The flag reports a create.
func (c *Catalog) UpsertEmployeeSkill(ctx context.Context, a skills.EmployeeSkill) (skills.EmployeeSkill, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return skills.EmployeeSkill{}, false, err
	}
	key := [2]int64{a.EmployeeID, a.SkillID}
	existing, found := c.assignments[key]
	var saved skills.EmployeeSkill
	var err error
	if found {
		a.ID = existing.ID
		saved, err = c.Client.UpdateEmployeeSkill(ctx, a)
	} else {
		saved, err = c.Client.CreateEmployeeSkill(ctx, a)
	}
	if err != nil {
		return skills.EmployeeSkill{}, false, domainError(err)
	}
	c.assignments[key] = saved
	return saved, !found, nil
}

// domainError turns backend rejections into row-level input errors so an
// import keeps going.
func domainError(err error) error {
	var se *StatusError
	if errors.As(err, &se) && (errors.Is(err, ErrBadRequest) || errors.Is(err, ErrConflict)) {
		return fmt.Errorf("%w: %s", skills.ErrInvalidInput, se.Error())
	}
	return err
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
