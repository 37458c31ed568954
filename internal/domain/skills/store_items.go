package skills

import (
	"context"

	"github.com/jackc/pgx/v5"
)

func scanSkill(row pgx.Row) (Skill, error) {
	var sk Skill
	err := row.Scan(&sk.ID, &sk.Name, &sk.SkillCategory, &sk.ParentSkill)
	return sk, err
}

func (s *Store) ListSkills(ctx context.Context) ([]Skill, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT skill_id, skill_name, COALESCE(skill_category, ''), COALESCE(parent_skill, '')
    FROM skills
    ORDER BY skill_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Skill
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sk)
	}
	return out, rows.Err()
}

func (s *Store) GetSkill(ctx context.Context, id int64) (Skill, error) {
	sk, err := scanSkill(s.DB.QueryRow(ctx, `
    SELECT skill_id, skill_name, COALESCE(skill_category, ''), COALESCE(parent_skill, '')
    FROM skills
    WHERE skill_id = $1
  `, id))
	return sk, mapError(err)
}

func (s *Store) FindSkillByName(ctx context.Context, name string) (Skill, error) {
	sk, err := scanSkill(s.DB.QueryRow(ctx, `
    SELECT skill_id, skill_name, COALESCE(skill_category, ''), COALESCE(parent_skill, '')
    FROM skills
    WHERE lower(skill_name) = lower($1)
  `, name))
	return sk, mapError(err)
}

func (s *Store) CreateSkill(ctx context.Context, sk Skill) (Skill, error) {
	created, err := scanSkill(s.DB.QueryRow(ctx, `
    INSERT INTO skills (skill_name, skill_category, parent_skill)
    VALUES ($1, $2, NULLIF($3, ''))
    RETURNING skill_id, skill_name, COALESCE(skill_category, ''), COALESCE(parent_skill, '')
  `, sk.Name, sk.SkillCategory, sk.ParentSkill))
	return created, mapError(err)
}

func (s *Store) UpdateSkill(ctx context.Context, sk Skill) (Skill, error) {
	updated, err := scanSkill(s.DB.QueryRow(ctx, `
    UPDATE skills
    SET skill_name = $2, skill_category = $3, parent_skill = NULLIF($4, '')
    WHERE skill_id = $1
    RETURNING skill_id, skill_name, COALESCE(skill_category, ''), COALESCE(parent_skill, '')
  `, sk.ID, sk.Name, sk.SkillCategory, sk.ParentSkill))
	return updated, mapError(err)
}

func (s *Store) DeleteSkill(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, `DELETE FROM skills WHERE skill_id = $1`, id)
}

func (s *Store) CountSkillAssignments(ctx context.Context, skillID int64) (int, error) {
	return s.count(ctx, `SELECT COUNT(1) FROM employee_skills WHERE skill_id = $1`, skillID)
}

func (s *Store) SkillParentCategories(ctx context.Context) ([]string, error) {
	return s.labels(ctx, `
    SELECT DISTINCT trim(parent_skill)
    FROM skills
    WHERE trim(COALESCE(parent_skill, '')) <> ''
    ORDER BY 1
  `)
}

func scanCertificate(row pgx.Row) (Certificate, error) {
	var c Certificate
	err := row.Scan(&c.ID, &c.Name, &c.CategoryLabel, &c.DifficultyLevel, &c.IssuedBy)
	return c, err
}

const certificateColumns = `certificate_id, certificate_name, COALESCE(certificate_category, ''),
      COALESCE(difficulty_level, ''), COALESCE(issued_by, '')`

func (s *Store) ListCertificates(ctx context.Context) ([]Certificate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+certificateColumns+`
    FROM certificates
    ORDER BY certificate_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Certificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCertificate(ctx context.Context, id int64) (Certificate, error) {
	c, err := scanCertificate(s.DB.QueryRow(ctx, `
    SELECT `+certificateColumns+`
    FROM certificates
    WHERE certificate_id = $1
  `, id))
	return c, mapError(err)
}

func (s *Store) CreateCertificate(ctx context.Context, c Certificate) (Certificate, error) {
	created, err := scanCertificate(s.DB.QueryRow(ctx, `
    INSERT INTO certificates (certificate_name, certificate_category, difficulty_level, issued_by)
    VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''))
    RETURNING `+certificateColumns+`
  `, c.Name, c.CategoryLabel, c.DifficultyLevel, c.IssuedBy))
	return created, mapError(err)
}

func (s *Store) UpdateCertificate(ctx context.Context, c Certificate) (Certificate, error) {
	updated, err := scanCertificate(s.DB.QueryRow(ctx, `
    UPDATE certificates
    SET certificate_name = $2, certificate_category = NULLIF($3, ''),
      difficulty_level = NULLIF($4, ''), issued_by = NULLIF($5, '')
    WHERE certificate_id = $1
    RETURNING `+certificateColumns+`
  `, c.ID, c.Name, c.CategoryLabel, c.DifficultyLevel, c.IssuedBy))
	return updated, mapError(err)
}

func (s *Store) DeleteCertificate(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, `DELETE FROM certificates WHERE certificate_id = $1`, id)
}

func (s *Store) CountCertificateAssignments(ctx context.Context, certificateID int64) (int, error) {
	return s.count(ctx, `SELECT COUNT(1) FROM employee_certificates WHERE certificate_id = $1`, certificateID)
}

func (s *Store) CertificateParentCategories(ctx context.Context) ([]string, error) {
	return s.labels(ctx, `
    SELECT DISTINCT trim(certificate_category)
    FROM certificates
    WHERE trim(COALESCE(certificate_category, '')) <> ''
    ORDER BY 1
  `)
}
