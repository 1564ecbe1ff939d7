package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS ratings (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL,
		rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS complaints (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL,
		complaint  TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'Pending',
		created_at TIMESTAMP NOT NULL
	)`,
}

type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at dsn and ensures the schema.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer keeps SQLite free of "database is locked" errors and keeps
	// ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &SQLite{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *SQLite) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) AddRating(ctx context.Context, userID int64, stars int) (Rating, error) {
	if err := validateRating(stars); err != nil {
		return Rating{}, err
	}
	r := Rating{UserID: userID, Stars: stars, CreatedAt: s.now()}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO ratings (user_id, rating, created_at) VALUES (?, ?, ?)`,
		userID, stars, r.CreatedAt)
	if err != nil {
		return Rating{}, fmt.Errorf("insert rating: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return Rating{}, fmt.Errorf("rating id: %w", err)
	}
	return r, nil
}

func (s *SQLite) ListRatings(ctx context.Context) ([]Rating, error) {
	rows, err := s.db.QueryContext(ctx,
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

func (s *SQLite) FileComplaint(ctx context.Context, userID int64, text string) (Complaint, error) {
	text, err := validateComplaint(text)
	if err != nil {
		return Complaint{}, err
	}
	c := Complaint{UserID: userID, Text: text, Status: StatusPending, CreatedAt: s.now()}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO complaints (user_id, complaint, status, created_at) VALUES (?, ?, ?, ?)`,
		userID, text, StatusPending, c.CreatedAt)
	if err != nil {
		return Complaint{}, fmt.Errorf("insert complaint: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return Complaint{}, fmt.Errorf("complaint id: %w", err)
	}
	return c, nil
}

func (s *SQLite) ListComplaints(ctx context.Context) ([]Complaint, error) {
	rows, err := s.db.QueryContext(ctx,
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

func (s *SQLite) ResolveComplaint(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE complaints SET status = ? WHERE id = ?`, StatusResolved, id)
	if err != nil {
		return fmt.Errorf("resolve complaint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve complaint: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("complaint %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLite) Metrics(ctx context.Context) (Metrics, error) {
	var m Metrics
	err := s.db.QueryRowContext(ctx, `
SELECT
	(SELECT COUNT(*) FROM ratings),
	(SELECT COALESCE(AVG(rating), 0.0) FROM ratings),
	(SELECT COUNT(*) FROM complaints WHERE status = ?),
	(SELECT COUNT(*) FROM complaints WHERE status = ?)`,
		StatusPending, StatusResolved,
	).Scan(&m.Ratings, &m.AverageStars, &m.PendingComplaints, &m.ResolvedComplaints)
	if err != nil {
		return Metrics{}, fmt.Errorf("metrics: %w", err)
	}
	return m, nil
}
