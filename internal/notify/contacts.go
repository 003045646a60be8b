package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrContactNotFound is returned when no patient exists for the given id.
var ErrContactNotFound = errors.New("notify: contact not found")

// Contact is the delivery address for a notification.
type Contact struct {
	Email    string
	FullName string
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ContactStore resolves patient ids to email addresses.
type ContactStore struct {
	db rowQuerier
}

func NewContactStore(pool *pgxpool.Pool) *ContactStore {
	if pool == nil {
		panic("notify: pgx pool required")
	}
	return &ContactStore{db: pool}
}

func newContactStoreWithQuerier(db rowQuerier) *ContactStore {
	if db == nil {
		panic("notify: querier required")
	}
	return &ContactStore{db: db}
}

// PatientContact returns the patient's email and display name.
func (s *ContactStore) PatientContact(ctx context.Context, patientID string) (Contact, error) {
	query := `SELECT email, full_name FROM patients WHERE id = $1 AND deleted_at IS NULL`

	var c Contact
	if err := s.db.QueryRow(ctx, query, patientID).Scan(&c.Email, &c.FullName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Contact{}, ErrContactNotFound
		}
		return Contact{}, fmt.Errorf("notify: query patient contact: %w", err)
	}
	return c, nil
}
