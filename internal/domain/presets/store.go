package presets

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrconsole/internal/platform/db"
)

type StoreAPI interface {
	List(ctx context.Context, userID, pageContext string) ([]Preset, error)
	Create(ctx context.Context, p Preset) (Preset, error)
	Delete(ctx context.Context, userID, id string) error
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) List(ctx context.Context, userID, pageContext string) ([]Preset, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT f.id::text, f.filter_name, f.page_context, f.created_at, v.filter_key, v.filter_value
    FROM saved_filters f
    LEFT JOIN filter_values v ON v.saved_filter_id = f.id
    WHERE f.user_id = $1 AND ($2 = '' OR f.page_context = $2)
    ORDER BY f.created_at, f.id, v.id
  `, userID, pageContext)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Preset
	index := map[string]int{}
	for rows.Next() {
		var p Preset
		var key *string
		var value []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.PageContext, &p.CreatedAt, &key, &value); err != nil {
			return nil, err
		}
		pos, seen := index[p.ID]
		if !seen {
			p.UserID = userID
			p.Values = []Value{}
			out = append(out, p)
			pos = len(out) - 1
			index[p.ID] = pos
		}
		if key != nil {
			out[pos].Values = append(out[pos].Values, Value{Key: *key, Value: value})
		}
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, p Preset) (Preset, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Preset{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
    INSERT INTO saved_filters (user_id, filter_name, page_context)
    VALUES ($1,$2,$3)
    RETURNING id::text, created_at
  `, p.UserID, p.Name, p.PageContext).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Preset{}, ErrDuplicate
		}
		return Preset{}, err
	}
	for _, v := range p.Values {
		if _, err := tx.Exec(ctx, `
      INSERT INTO filter_values (saved_filter_id, filter_key, filter_value)
      VALUES ($1,$2,$3)
    `, p.ID, v.Key, []byte(v.Value)); err != nil {
			return Preset{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func (s *Store) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM saved_filters WHERE id::text = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
