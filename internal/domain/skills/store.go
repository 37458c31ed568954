package skills

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrconsole/internal/platform/db"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

const employeeColumns = `id, employee_id, first_name, last_name, COALESCE(email, ''), COALESCE(department, ''),
      COALESCE(parent_department, ''), COALESCE(location, ''), COALESCE(city, ''), COALESCE(designation, ''),
      COALESCE(title, ''), COALESCE(employee_status, ''), COALESCE(manager, '')`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.EmployeeID, &e.FirstName, &e.LastName, &e.Email, &e.Department,
		&e.ParentDepartment, &e.Location, &e.City, &e.Designation, &e.Title, &e.EmployeeStatus, &e.Manager)
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    ORDER BY first_name, last_name, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, id))
	return e, mapError(err)
}

func (s *Store) FindEmployeeByCode(ctx context.Context, employeeID string) (Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE lower(employee_id) = lower($1)
  `, employeeID))
	return e, mapError(err)
}

func (s *Store) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	created, err := scanEmployee(s.DB.QueryRow(ctx, `
    INSERT INTO employees (employee_id, first_name, last_name, email, department, parent_department,
      location, city, designation, title, employee_status, manager)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING `+employeeColumns+`
  `, e.EmployeeID, e.FirstName, e.LastName, e.Email, e.Department, e.ParentDepartment,
		e.Location, e.City, e.Designation, e.Title, e.EmployeeStatus, e.Manager))
	return created, mapError(err)
}

func (s *Store) UpdateEmployee(ctx context.Context, e Employee) (Employee, error) {
	updated, err := scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees
    SET employee_id = $2, first_name = $3, last_name = $4, email = $5, department = $6,
      parent_department = $7, location = $8, city = $9, designation = $10, title = $11,
      employee_status = $12, manager = $13, updated_at = now()
    WHERE id = $1
    RETURNING `+employeeColumns+`
  `, e.ID, e.EmployeeID, e.FirstName, e.LastName, e.Email, e.Department, e.ParentDepartment,
		e.Location, e.City, e.Designation, e.Title, e.EmployeeStatus, e.Manager))
	return updated, mapError(err)
}

// DeleteEmployee removes the employee; assignments go with it through ON DELETE CASCADE.
func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, `DELETE FROM employees WHERE id = $1`, id)
}

func (s *Store) deleteByID(ctx context.Context, statement string, id int64) error {
	tag, err := s.DB.Exec(ctx, statement, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) count(ctx context.Context, statement string, id int64) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, statement, id).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) labels(ctx context.Context, statement string) ([]string, error) {
	rows, err := s.DB.Query(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		out = append(out, label)
	}
	return out, rows.Err()
}

// mapAssignmentError reports a second assignment of the same pair as ErrAssigned.
func mapAssignmentError(err error) error {
	if db.IsUniqueViolation(err) {
		return ErrAssigned
	}
	return mapError(err)
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicateName, err)
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: referenced record does not exist", ErrInvalidInput)
	default:
		return err
	}
}
