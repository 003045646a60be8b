package appointments

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sanavida/clinic-booking-platform/internal/events"
	"github.com/sanavida/clinic-booking-platform/internal/observability/metrics"
	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

var bookingTracer = otel.Tracer("clinic.internal.appointments")

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, req *CreateRequest) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error)
	Confirm(ctx context.Context, id, meetingLink string) (*Appointment, error)
	Reject(ctx context.Context, id, reason string) (*Appointment, error)
	Cancel(ctx context.Context, id, reason, cancelledBy string) (*Appointment, error)
	Complete(ctx context.Context, id, doctorNotes string) (*Appointment, error)
	MarkNoShow(ctx context.Context, id string) (*Appointment, error)
}

// SlotBooker takes and returns availability-slot capacity.
type SlotBooker interface {
	Book(ctx context.Context, slotID string) error
	Release(ctx context.Context, slotID string) error
}

type outboxInserter interface {
	Insert(ctx context.Context, appointmentID string, eventType string, payload any) (uuid.UUID, error)
}

// Service drives the appointment lifecycle. Transitions persist through the
// store's state-checked updates; notification events are queued in the
// outbox and never block or roll back a transition.
type Service struct {
	store   Store
	slots   SlotBooker
	outbox  outboxInserter
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewService constructs an appointments service. slots, outbox, and m may
// be nil when the corresponding side effect is disabled.
func NewService(store Store, slots SlotBooker, outbox outboxInserter, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("appointments: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, slots: slots, outbox: outbox, metrics: m, logger: logger}
}

// Create books the slot (when one is referenced) and inserts a pending
// appointment. A failed insert returns the slot's capacity.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.create")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	slotID := strings.TrimSpace(req.SlotID)
	if slotID != "" && s.slots != nil {
		if err := s.slots.Book(ctx, slotID); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}
	appt, err := s.store.Create(ctx, req)
	if err != nil {
		if slotID != "" && s.slots != nil {
			if relErr := s.slots.Release(ctx, slotID); relErr != nil {
				s.logger.Error("failed to release slot after insert failure", "error", relErr, "slot_id", slotID)
			}
		}
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("clinic.appointment_id", appt.ID))
	s.logger.Info("appointment created", "appointment_id", appt.ID, "doctor_id", appt.DoctorID, "modality", appt.Modality)
	return appt, nil
}

// Get returns one appointment.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.store.GetByID(ctx, id)
}

// ListByDoctor returns a doctor's appointments.
func (s *Service) ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	return s.store.ListByDoctor(ctx, doctorID)
}

// Confirm moves a pending appointment to confirmed and queues the
// confirmation email.
func (s *Service) Confirm(ctx context.Context, id, meetingLink string) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.confirm")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.appointment_id", id))

	appt, err := s.store.Confirm(ctx, id, meetingLink)
	if err != nil {
		s.observe(EventConfirm, err)
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveTransition(string(EventConfirm), "accepted")
	s.enqueue(ctx, appt, events.TypeAppointmentConfirmed, events.AppointmentConfirmedV1{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		Date:          appt.Date.Format("2006-01-02"),
		StartTime:     appt.StartTime,
		Modality:      string(appt.Modality),
		MeetingLink:   deref(appt.MeetingLink),
	})
	s.logger.Info("appointment confirmed", "appointment_id", appt.ID, "doctor_id", appt.DoctorID)
	return appt, nil
}

// Reject moves a pending appointment to rejected, queues the rejection
// email, and frees the slot.
func (s *Service) Reject(ctx context.Context, id, reason string) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.reject")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.appointment_id", id))

	if strings.TrimSpace(reason) == "" {
		return nil, ErrMissingReason
	}
	appt, err := s.store.Reject(ctx, id, reason)
	if err != nil {
		s.observe(EventReject, err)
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveTransition(string(EventReject), "accepted")
	s.enqueue(ctx, appt, events.TypeAppointmentRejected, events.AppointmentRejectedV1{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		Date:          appt.Date.Format("2006-01-02"),
		StartTime:     appt.StartTime,
		Reason:        reason,
	})
	s.releaseSlot(ctx, appt)
	s.logger.Info("appointment rejected", "appointment_id", appt.ID)
	return appt, nil
}

// Cancel moves a pending or confirmed appointment to cancelled and frees
// the slot.
func (s *Service) Cancel(ctx context.Context, id, reason, cancelledBy string) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.appointment_id", id))

	if strings.TrimSpace(reason) == "" {
		return nil, ErrMissingReason
	}
	appt, err := s.store.Cancel(ctx, id, reason, cancelledBy)
	if err != nil {
		s.observe(EventCancel, err)
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveTransition(string(EventCancel), "accepted")
	s.releaseSlot(ctx, appt)
	s.logger.Info("appointment cancelled", "appointment_id", appt.ID, "cancelled_by", cancelledBy)
	return appt, nil
}

// Complete moves a confirmed appointment to completed with optional notes.
func (s *Service) Complete(ctx context.Context, id, doctorNotes string) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.complete")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.appointment_id", id))

	appt, err := s.store.Complete(ctx, id, doctorNotes)
	if err != nil {
		s.observe(EventComplete, err)
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveTransition(string(EventComplete), "accepted")
	s.logger.Info("appointment completed", "appointment_id", appt.ID)
	return appt, nil
}

// MarkNoShow moves a confirmed appointment to no_show once its scheduled
// time has elapsed.
func (s *Service) MarkNoShow(ctx context.Context, id string) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.no_show")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.appointment_id", id))

	appt, err := s.store.MarkNoShow(ctx, id)
	if err != nil {
		s.observe(EventNoShow, err)
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveTransition(string(EventNoShow), "accepted")
	s.logger.Info("appointment marked as no-show", "appointment_id", appt.ID)
	return appt, nil
}

// enqueue writes a notification event to the outbox. Failures are logged
// and swallowed: notification is best-effort relative to the transition.
func (s *Service) enqueue(ctx context.Context, appt *Appointment, eventType string, payload any) {
	if s.outbox == nil {
		return
	}
	if _, err := s.outbox.Insert(ctx, appt.ID, eventType, payload); err != nil {
		s.metrics.ObserveNotification(eventType, "enqueue_failed")
		s.logger.Error("failed to enqueue notification", "error", err, "appointment_id", appt.ID, "type", eventType)
		return
	}
	s.metrics.ObserveNotification(eventType, "enqueued")
}

func (s *Service) releaseSlot(ctx context.Context, appt *Appointment) {
	if s.slots == nil || appt.SlotID == nil || *appt.SlotID == "" {
		return
	}
	if err := s.slots.Release(ctx, *appt.SlotID); err != nil {
		s.logger.Error("failed to release slot", "error", err, "slot_id", *appt.SlotID, "appointment_id", appt.ID)
	}
}

func (s *Service) observe(ev Event, err error) {
	outcome := "error"
	switch {
	case errors.Is(err, ErrInvalidTransition):
		outcome = "invalid_transition"
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrNotElapsed):
		outcome = "not_elapsed"
	}
	s.metrics.ObserveTransition(string(ev), outcome)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
