package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const appointmentColumns = `id, patient_id, doctor_id, service_id, slot_id,
		appointment_date, start_time, end_time, status, modality,
		meeting_link, video_room_id, doctor_notes, patient_notes,
		rejection_reason, cancellation_reason, cancelled_by,
		confirmed_at, cancelled_at, created_at, updated_at`

// Repository persists appointments. Every transition is a single
// state-checked UPDATE: the WHERE clause repeats the FSM guard, so of two
// concurrent transition attempts exactly one updates a row and the other
// sees zero rows and is classified as not-found or invalid-transition.
type Repository struct {
	db querier
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{db: pool}
}

func newRepositoryWithQuerier(db querier) *Repository {
	if db == nil {
		panic("appointments: querier required")
	}
	return &Repository{db: db}
}

// Create inserts a pending appointment.
func (r *Repository) Create(ctx context.Context, req *CreateRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	query := fmt.Sprintf(`
		INSERT INTO appointments (id, patient_id, doctor_id, service_id, slot_id,
			appointment_date, start_time, end_time, status, modality, patient_notes)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, 'pending', $9, NULLIF($10, ''))
		RETURNING %s`, appointmentColumns)
	row := r.db.QueryRow(ctx, query,
		id, req.PatientID, req.DoctorID, req.ServiceID, req.SlotID,
		req.Date, req.StartTime, req.EndTime, string(req.Modality), req.PatientNotes,
	)
	appt, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}
	return appt, nil
}

// GetByID fetches one appointment.
func (r *Repository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)
	appt, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: load: %w", err)
	}
	return appt, nil
}

// ListByDoctor returns a doctor's appointments ordered by schedule.
func (r *Repository) ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM appointments
		WHERE doctor_id = $1
		ORDER BY appointment_date, start_time`, appointmentColumns)
	rows, err := r.db.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by doctor: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan list: %w", err)
		}
		out = append(out, appt)
	}
	return out, rows.Err()
}

// Confirm moves a pending appointment to confirmed and stamps confirmed_at.
// A non-empty meetingLink replaces the stored one; online appointments keep
// the link set at room provisioning.
func (r *Repository) Confirm(ctx context.Context, id, meetingLink string) (*Appointment, error) {
	query := fmt.Sprintf(`
		UPDATE appointments
		SET status = 'confirmed',
			meeting_link = COALESCE(NULLIF($2, ''), meeting_link),
			confirmed_at = now(),
			updated_at = now()
		WHERE id = $1 AND status = ANY($3)
		RETURNING %s`, appointmentColumns)
	return r.transition(ctx, id, EventConfirm, query, id, meetingLink, statusStrings(ValidFrom(EventConfirm)))
}

// Reject moves a pending appointment to rejected with the given reason.
func (r *Repository) Reject(ctx context.Context, id, reason string) (*Appointment, error) {
	query := fmt.Sprintf(`
		UPDATE appointments
		SET status = 'rejected', rejection_reason = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3)
		RETURNING %s`, appointmentColumns)
	return r.transition(ctx, id, EventReject, query, id, reason, statusStrings(ValidFrom(EventReject)))
}

// Cancel moves a pending or confirmed appointment to cancelled and stamps
// cancelled_at and cancelled_by.
func (r *Repository) Cancel(ctx context.Context, id, reason, cancelledBy string) (*Appointment, error) {
	query := fmt.Sprintf(`
		UPDATE appointments
		SET status = 'cancelled',
			cancellation_reason = $2,
			cancelled_by = NULLIF($3, ''),
			cancelled_at = now(),
			updated_at = now()
		WHERE id = $1 AND status = ANY($4)
		RETURNING %s`, appointmentColumns)
	return r.transition(ctx, id, EventCancel, query, id, reason, cancelledBy, statusStrings(ValidFrom(EventCancel)))
}

// Complete moves a confirmed appointment to completed, storing optional
// doctor notes.
func (r *Repository) Complete(ctx context.Context, id, doctorNotes string) (*Appointment, error) {
	query := fmt.Sprintf(`
		UPDATE appointments
		SET status = 'completed', doctor_notes = NULLIF($2, ''), updated_at = now()
		WHERE id = $1 AND status = ANY($3)
		RETURNING %s`, appointmentColumns)
	return r.transition(ctx, id, EventComplete, query, id, doctorNotes, statusStrings(ValidFrom(EventComplete)))
}

// MarkNoShow moves a confirmed appointment to no_show once its scheduled
// end time has passed.
func (r *Repository) MarkNoShow(ctx context.Context, id string) (*Appointment, error) {
	query := fmt.Sprintf(`
		UPDATE appointments
		SET status = 'no_show', updated_at = now()
		WHERE id = $1 AND status = ANY($2)
			AND (appointment_date + end_time::time) <= now()
		RETURNING %s`, appointmentColumns)
	appt, err := scanAppointment(r.db.QueryRow(ctx, query, id, statusStrings(ValidFrom(EventNoShow))))
	if err == nil {
		return appt, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("appointments: no_show: %w", err)
	}
	// Zero rows: distinguish absent, wrong status, and not-yet-elapsed.
	current, loadErr := r.GetByID(ctx, id)
	if loadErr != nil {
		return nil, loadErr
	}
	if !CanTransition(current.Status, EventNoShow) {
		return nil, ErrInvalidTransition
	}
	return nil, ErrNotElapsed
}

// SetMeetingLink persists a provisioned room on an online appointment.
func (r *Repository) SetMeetingLink(ctx context.Context, id, roomID, meetingLink string) (*Appointment, error) {
	query := fmt.Sprintf(`
		UPDATE appointments
		SET meeting_link = $2, video_room_id = $3, updated_at = now()
		WHERE id = $1 AND modality = 'online'
		RETURNING %s`, appointmentColumns)
	appt, err := scanAppointment(r.db.QueryRow(ctx, query, id, meetingLink, roomID))
	if err == nil {
		return appt, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("appointments: set meeting link: %w", err)
	}
	if _, loadErr := r.GetByID(ctx, id); loadErr != nil {
		return nil, loadErr
	}
	return nil, ErrInvalidModality
}

func (r *Repository) transition(ctx context.Context, id string, ev Event, query string, args ...any) (*Appointment, error) {
	appt, err := scanAppointment(r.db.QueryRow(ctx, query, args...))
	if err == nil {
		return appt, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("appointments: %s: %w", ev, err)
	}
	// Zero rows updated: either the appointment is gone or its current
	// status is not a valid predecessor (including having just lost a
	// race against a concurrent transition).
	if _, loadErr := r.GetByID(ctx, id); loadErr != nil {
		return nil, loadErr
	}
	return nil, ErrInvalidTransition
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.PatientID, &a.DoctorID, &a.ServiceID, &a.SlotID,
		&a.Date, &a.StartTime, &a.EndTime, &a.Status, &a.Modality,
		&a.MeetingLink, &a.VideoRoomID, &a.DoctorNotes, &a.PatientNotes,
		&a.RejectionReason, &a.CancellationReason, &a.CancelledBy,
		&a.ConfirmedAt, &a.CancelledAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func statusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
