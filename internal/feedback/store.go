package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5 stars")
	ErrEmptyComplaint = errors.New("complaint text is empty")
	ErrNotFound       = errors.New("not found")
)

const (
	StatusPending  = "Pending"
	StatusResolved = "Resolved"
)

type Rating struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"createdAt"`
}

type Complaint struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Text      string    `json:"text"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Metrics struct {
	Ratings            int     `json:"ratings"`
	AverageStars       float64 `json:"averageStars"`
	PendingComplaints  int     `json:"pendingComplaints"`
	ResolvedComplaints int     `json:"resolvedComplaints"`
}

// Store persists service ratings and complaints.
type Store interface {
	AddRating(ctx context.Context, userID int64, stars int) (Rating, error)
	ListRatings(ctx context.Context) ([]Rating, error)
	FileComplaint(ctx context.Context, userID int64, text string) (Complaint, error)
	ListComplaints(ctx context.Context) ([]Complaint, error)
	ResolveComplaint(ctx context.Context, id int64) error
	Metrics(ctx context.Context) (Metrics, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open picks a backend from the URL scheme: postgres:// and postgresql://
// use pgx, anything else is treated as a SQLite DSN (an optional "sqlite:"
// prefix is stripped).
func Open(ctx context.Context, url string) (Store, error) {
	switch {
	case url == "":
		return nil, errors.New("empty database url")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		pg, err := OpenPostgres(ctx, url)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		db, err := OpenSQLite(ctx, strings.TrimPrefix(url, "sqlite:"))
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

func validateRating(stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, stars)
	}
	return nil
}

func validateComplaint(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyComplaint
	}
	return text, nil
}
