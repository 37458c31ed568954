package skills

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const employeeSkillColumns = `id, employee_id, skill_id, COALESCE(proficiency_level, ''), certified,
      COALESCE(certification_name, ''), start_date, expiry_date, COALESCE(last_assessed, ''),
      COALESCE(description_note, '')`

func scanEmployeeSkill(row pgx.Row) (EmployeeSkill, error) {
	var a EmployeeSkill
	var start, expiry *time.Time
	err := row.Scan(&a.ID, &a.EmployeeID, &a.SkillID, &a.ProficiencyLevel, &a.Certified,
		&a.CertificationName, &start, &expiry, &a.LastAssessed, &a.DescriptionNote)
	a.StartDate = DateFromTime(start)
	a.ExpiryDate = DateFromTime(expiry)
	return a, err
}

func (s *Store) ListEmployeeSkills(ctx context.Context) ([]EmployeeSkill, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeSkillColumns+`
    FROM employee_skills
    ORDER BY id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeeSkill
	for rows.Next() {
		a, err := scanEmployeeSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployeeSkill(ctx context.Context, id int64) (EmployeeSkill, error) {
	a, err := scanEmployeeSkill(s.DB.QueryRow(ctx, `
    SELECT `+employeeSkillColumns+`
    FROM employee_skills
    WHERE id = $1
  `, id))
	return a, mapError(err)
}

func (s *Store) CreateEmployeeSkill(ctx context.Context, a EmployeeSkill) (EmployeeSkill, error) {
	created, err := scanEmployeeSkill(s.DB.QueryRow(ctx, `
    INSERT INTO employee_skills (employee_id, skill_id, proficiency_level, certified, certification_name,
      start_date, expiry_date, last_assessed, description_note)
    VALUES ($1,$2,$3,$4,NULLIF($5, ''),$6,$7,NULLIF($8, ''),NULLIF($9, ''))
    RETURNING `+employeeSkillColumns+`
  `, a.EmployeeID, a.SkillID, a.ProficiencyLevel, a.Certified, a.CertificationName,
		a.StartDate.Ptr(), a.ExpiryDate.Ptr(), a.LastAssessed, a.DescriptionNote))
	if err != nil {
		return EmployeeSkill{}, mapAssignmentError(err)
	}
	return created, nil
}

func (s *Store) UpdateEmployeeSkill(ctx context.Context, a EmployeeSkill) (EmployeeSkill, error) {
	updated, err := scanEmployeeSkill(s.DB.QueryRow(ctx, `
    UPDATE employee_skills
    SET proficiency_level = $2, certified = $3, certification_name = NULLIF($4, ''),
      start_date = $5, expiry_date = $6, last_assessed = NULLIF($7, ''), description_note = NULLIF($8, '')
    WHERE id = $1
    RETURNING `+employeeSkillColumns+`
  `, a.ID, a.ProficiencyLevel, a.Certified, a.CertificationName,
		a.StartDate.Ptr(), a.ExpiryDate.Ptr(), a.LastAssessed, a.DescriptionNote))
	return updated, mapError(err)
}

// UpsertEmployeeSkill writes the assignment for its (employee, skill) pair and
// reports whether a new row was inserted.
func (s *Store) UpsertEmployeeSkill(ctx context.Context, a EmployeeSkill) (EmployeeSkill, bool, error) {
	var inserted bool
	var start, expiry *time.Time
	var out EmployeeSkill
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_skills (employee_id, skill_id, proficiency_level, certified, certification_name,
      start_date, expiry_date, last_assessed, description_note)
    VALUES ($1,$2,$3,$4,NULLIF($5, ''),$6,$7,NULLIF($8, ''),NULLIF($9, ''))
    ON CONFLICT (employee_id, skill_id) DO UPDATE
    SET proficiency_level = EXCLUDED.proficiency_level, certified = EXCLUDED.certified,
      certification_name = EXCLUDED.certification_name, start_date = EXCLUDED.start_date,
      expiry_date = EXCLUDED.expiry_date, last_assessed = EXCLUDED.last_assessed,
      description_note = EXCLUDED.description_note
    RETURNING `+employeeSkillColumns+`, (xmax = 0)
  `, a.EmployeeID, a.SkillID, a.ProficiencyLevel, a.Certified, a.CertificationName,
		a.StartDate.Ptr(), a.ExpiryDate.Ptr(), a.LastAssessed, a.DescriptionNote).Scan(
		&out.ID, &out.EmployeeID, &out.SkillID, &out.ProficiencyLevel, &out.Certified,
		&out.CertificationName, &start, &expiry, &out.LastAssessed, &out.DescriptionNote, &inserted)
	if err != nil {
		return EmployeeSkill{}, false, mapError(err)
	}
	out.StartDate = DateFromTime(start)
	out.ExpiryDate = DateFromTime(expiry)
	return out, inserted, nil
}

func (s *Store) DeleteEmployeeSkill(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, `DELETE FROM employee_skills WHERE id = $1`, id)
}

const employeeCertificateColumns = `id, employee_id, certificate_id, COALESCE(status, ''), start_date, expiry_date`

func scanEmployeeCertificate(row pgx.Row) (EmployeeCertificate, error) {
	var a EmployeeCertificate
	var start, expiry *time.Time
	err := row.Scan(&a.ID, &a.EmployeeID, &a.CertificateID, &a.Status, &start, &expiry)
	a.StartDate = DateFromTime(start)
	a.ExpiryDate = DateFromTime(expiry)
	return a, err
}

func (s *Store) ListEmployeeCertificates(ctx context.Context) ([]EmployeeCertificate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeCertificateColumns+`
    FROM employee_certificates
    ORDER BY id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeeCertificate
	for rows.Next() {
		a, err := scanEmployeeCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployeeCertificate(ctx context.Context, id int64) (EmployeeCertificate, error) {
	a, err := scanEmployeeCertificate(s.DB.QueryRow(ctx, `
    SELECT `+employeeCertificateColumns+`
    FROM employee_certificates
    WHERE id = $1
  `, id))
	return a, mapError(err)
}

func (s *Store) CreateEmployeeCertificate(ctx context.Context, a EmployeeCertificate) (EmployeeCertificate, error) {
	created, err := scanEmployeeCertificate(s.DB.QueryRow(ctx, `
    INSERT INTO employee_certificates (employee_id, certificate_id, status, start_date, expiry_date)
    VALUES ($1,$2,NULLIF($3, ''),$4,$5)
    RETURNING `+employeeCertificateColumns+`
  `, a.EmployeeID, a.CertificateID, a.Status, a.StartDate.Ptr(), a.ExpiryDate.Ptr()))
	if err != nil {
		return EmployeeCertificate{}, mapAssignmentError(err)
	}
	return created, nil
}

func (s *Store) UpdateEmployeeCertificate(ctx context.Context, a EmployeeCertificate) (EmployeeCertificate, error) {
	updated, err := scanEmployeeCertificate(s.DB.QueryRow(ctx, `
    UPDATE employee_certificates
    SET status = NULLIF($2, ''), start_date = $3, expiry_date = $4
    WHERE id = $1
    RETURNING `+employeeCertificateColumns+`
  `, a.ID, a.Status, a.StartDate.Ptr(), a.ExpiryDate.Ptr()))
	return updated, mapError(err)
}

func (s *Store) DeleteEmployeeCertificate(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, `DELETE FROM employee_certificates WHERE id = $1`, id)
}
