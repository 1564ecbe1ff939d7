package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS ratings (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL,
	rating     SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS complaints (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL,
	complaint  TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'Pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) AddRating(ctx context.Context, userID int64, stars int) (Rating, error) {
	if err := validateRating(stars); err != nil {
		return Rating{}, err
	}
	r := Rating{UserID: userID, Stars: stars}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO ratings (user_id, rating) VALUES ($1, $2) RETURNING id, created_at`,
		userID, stars,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return Rating{}, fmt.Errorf("insert rating: %w", err)
	}
	return r, nil
}

func (p *Postgres) ListRatings(ctx context.Context) ([]Rating, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, rating, created_at FROM ratings ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	out := []Rating{}
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.ID, &r.UserID, &r.Stars, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) FileComplaint(ctx context.Context, userID int64, text string) (Complaint, error) {
	text, err := validateComplaint(text)
	if err != nil {
		return Complaint{}, err
	}
	c := Complaint{UserID: userID, Text: text, Status: StatusPending}
	err = p.pool.QueryRow(ctx,
		`INSERT INTO complaints (user_id, complaint, status) VALUES ($1, $2, $3) RETURNING id, created_at`,
		userID, text, StatusPending,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return Complaint{}, fmt.Errorf("insert complaint: %w", err)
	}
	return c, nil
}

func (p *Postgres) ListComplaints(ctx context.Context) ([]Complaint, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, complaint, status, created_at FROM complaints ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	out := []Complaint{}
	for rows.Next() {
		var c Complaint
		if err := rows.Scan(&c.ID, &c.UserID, &c.Text, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) ResolveComplaint(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `UPDATE complaints SET status = $1 WHERE id = $2`, StatusResolved, id)
	if err != nil {
		return fmt.Errorf("resolve complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complaint %d: %w", id, ErrNotFound)
	}
	return nil
}

func (p *Postgres) Metrics(ctx context.Context) (Metrics, error) {
	var m Metrics
	err := p.pool.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM ratings),
	(SELECT COALESCE(AVG(rating), 0)::float8 FROM ratings),
	(SELECT COUNT(*) FROM complaints WHERE status = $1),
	(SELECT COUNT(*) FROM complaints WHERE status = $2)`,
		StatusPending, StatusResolved,
	).Scan(&m.Ratings, &m.AverageStars, &m.PendingComplaints, &m.ResolvedComplaints)
	if errors.Is(err, pgx.ErrNoRows) {
		return Metrics{}, nil
	}
	if err != nil {
		return Metrics{}, fmt.Errorf("metrics: %w", err)
	}
	return m, nil
}
