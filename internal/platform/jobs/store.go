package jobs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGRunStore struct {
	DB *pgxpool.Pool
}

func NewPGRunStore(db *pgxpool.Pool) *PGRunStore {
	return &PGRunStore{DB: db}
}

func (s *PGRunStore) Create(ctx context.Context, run Run) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO job_runs (id, job_type, status, created_by, created_at)
    VALUES ($1,$2,$3,$4,$5)
  `, run.ID, run.Type, run.Status, run.CreatedBy, run.CreatedAt)
	return err
}

func (s *PGRunStore) Finish(ctx context.Context, id, status string, details []byte, errMsg string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, error = NULLIF($3, ''), completed_at = now()
    WHERE id = $4
  `, status, details, errMsg, id)
	return err
}

func (s *PGRunStore) Get(ctx context.Context, id string) (Run, error) {
	var (
		run     Run
		details []byte
		errMsg  *string
	)
	err := s.DB.QueryRow(ctx, `
    SELECT id, job_type, status, details_json, error, created_by, created_at, completed_at
    FROM job_runs
    WHERE id = $1
  `, id).Scan(&run.ID, &run.Type, &run.Status, &details, &errMsg, &run.CreatedBy, &run.CreatedAt, &run.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, err
	}
	run.Details = details
	if errMsg != nil {
		run.Error = *errMsg
	}
	return run, nil
}
