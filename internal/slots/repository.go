package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrSlotNotFound is returned when the slot does not exist.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotUnavailable is returned when the slot is disabled or already
	// at capacity. A concurrent booker that loses the conditional
	// increment observes this same error.
	ErrSlotUnavailable = errors.New("slot unavailable")
)

// Slot is a doctor/service/date/time unit of bookable capacity.
type Slot struct {
	ID              string    `json:"id"`
	DoctorID        string    `json:"doctor_id"`
	ServiceID       string    `json:"service_id"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	IsAvailable     bool      `json:"is_available"`
	MaxAppointments int32     `json:"max_appointments"`
	BookedCount     int32     `json:"booked_count"`
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const slotColumns = `id, doctor_id, service_id, slot_date, start_time, end_time,
		is_available, max_appointments, booked_count`

// Repository persists availability slots. Capacity changes are single
// conditional updates so two bookings racing for the last seat cannot both
// succeed.
type Repository struct {
	db querier
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("slots: pgx pool required")
	}
	return &Repository{db: pool}
}

func newRepositoryWithQuerier(db querier) *Repository {
	if db == nil {
		panic("slots: querier required")
	}
	return &Repository{db: db}
}

// GetByID fetches one slot.
func (r *Repository) GetByID(ctx context.Context, id string) (*Slot, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_slots WHERE id = $1`, slotColumns)
	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("slots: load: %w", err)
	}
	return slot, nil
}

// ListOpen returns a doctor's bookable slots for a date.
func (r *Repository) ListOpen(ctx context.Context, doctorID string, date string) ([]*Slot, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM availability_slots
		WHERE doctor_id = $1 AND slot_date = $2
			AND is_available AND booked_count < max_appointments
		ORDER BY start_time`, slotColumns)
	rows, err := r.db.Query(ctx, query, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("slots: list open: %w", err)
	}
	defer rows.Close()

	var out []*Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("slots: scan list: %w", err)
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

// Book atomically takes one unit of capacity. Zero rows updated means the
// slot is absent, disabled, or full.
func (r *Repository) Book(ctx context.Context, id string) error {
	query := `
		UPDATE availability_slots
		SET booked_count = booked_count + 1
		WHERE id = $1 AND is_available AND booked_count < max_appointments
	`
	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("slots: book: %w", err)
	}
	if ct.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrSlotUnavailable
}

// Release returns one unit of capacity, never dropping below zero.
func (r *Repository) Release(ctx context.Context, id string) error {
	query := `
		UPDATE availability_slots
		SET booked_count = booked_count - 1
		WHERE id = $1 AND booked_count > 0
	`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("slots: release: %w", err)
	}
	return nil
}

func scanSlot(row pgx.Row) (*Slot, error) {
	var s Slot
	err := row.Scan(
		&s.ID, &s.DoctorID, &s.ServiceID, &s.Date, &s.StartTime, &s.EndTime,
		&s.IsAvailable, &s.MaxAppointments, &s.BookedCount,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
