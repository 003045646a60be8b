package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sanavida/clinic-booking-platform/internal/events"
)

type stubStore struct {
	appt       *Appointment
	err        error
	lastCall   string
	lastReason string
}

func (s *stubStore) result() (*Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.appt, nil
}

func (s *stubStore) Create(ctx context.Context, req *CreateRequest) (*Appointment, error) {
	s.lastCall = "create"
	return s.result()
}

func (s *stubStore) GetByID(ctx context.Context, id string) (*Appointment, error) {
	s.lastCall = "get"
	return s.result()
}

func (s *stubStore) ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	s.lastCall = "list"
	if s.err != nil {
		return nil, s.err
	}
	return []*Appointment{s.appt}, nil
}

func (s *stubStore) Confirm(ctx context.Context, id, meetingLink string) (*Appointment, error) {
	s.lastCall = "confirm"
	return s.result()
}

func (s *stubStore) Reject(ctx context.Context, id, reason string) (*Appointment, error) {
	s.lastCall = "reject"
	s.lastReason = reason
	return s.result()
}

func (s *stubStore) Cancel(ctx context.Context, id, reason, cancelledBy string) (*Appointment, error) {
	s.lastCall = "cancel"
	s.lastReason = reason
	return s.result()
}

func (s *stubStore) Complete(ctx context.Context, id, doctorNotes string) (*Appointment, error) {
	s.lastCall = "complete"
	return s.result()
}

func (s *stubStore) MarkNoShow(ctx context.Context, id string) (*Appointment, error) {
	s.lastCall = "no_show"
	return s.result()
}

type stubOutbox struct {
	inserted []string
	err      error
}

func (s *stubOutbox) Insert(ctx context.Context, appointmentID string, eventType string, payload any) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	s.inserted = append(s.inserted, eventType)
	return uuid.New(), nil
}

type stubSlots struct {
	booked   []string
	released []string
	bookErr  error
}

func (s *stubSlots) Book(ctx context.Context, slotID string) error {
	if s.bookErr != nil {
		return s.bookErr
	}
	s.booked = append(s.booked, slotID)
	return nil
}

func (s *stubSlots) Release(ctx context.Context, slotID string) error {
	s.released = append(s.released, slotID)
	return nil
}

func testAppointment(status Status) *Appointment {
	slotID := "slot-1"
	return &Appointment{
		ID:        "apt-1",
		PatientID: "pat-1",
		DoctorID:  "doc-1",
		ServiceID: "svc-1",
		SlotID:    &slotID,
		Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "09:30",
		Status:    status,
		Modality:  ModalityInPerson,
	}
}

func TestRejectRequiresReason(t *testing.T) {
	store := &stubStore{appt: testAppointment(StatusRejected)}
	svc := NewService(store, nil, nil, nil, nil)

	if _, err := svc.Reject(context.Background(), "apt-1", "  "); !errors.Is(err, ErrMissingReason) {
		t.Fatalf("expected ErrMissingReason, got %v", err)
	}
	if store.lastCall != "" {
		t.Fatalf("store must not be touched on validation failure, called %s", store.lastCall)
	}
}

func TestCancelRequiresReason(t *testing.T) {
	store := &stubStore{appt: testAppointment(StatusCancelled)}
	svc := NewService(store, nil, nil, nil, nil)

	if _, err := svc.Cancel(context.Background(), "apt-1", "", "patient"); !errors.Is(err, ErrMissingReason) {
		t.Fatalf("expected ErrMissingReason, got %v", err)
	}
	if store.lastCall != "" {
		t.Fatalf("store must not be touched on validation failure, called %s", store.lastCall)
	}
}

func TestConfirmEnqueuesNotification(t *testing.T) {
	store := &stubStore{appt: testAppointment(StatusConfirmed)}
	outbox := &stubOutbox{}
	svc := NewService(store, nil, outbox, nil, nil)

	if _, err := svc.Confirm(context.Background(), "apt-1", "https://x"); err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if len(outbox.inserted) != 1 || outbox.inserted[0] != events.TypeAppointmentConfirmed {
		t.Fatalf("expected confirmed event enqueued, got %v", outbox.inserted)
	}
}

func TestConfirmInvalidTransitionDoesNotEnqueue(t *testing.T) {
	store := &stubStore{err: ErrInvalidTransition}
	outbox := &stubOutbox{}
	svc := NewService(store, nil, outbox, nil, nil)

	if _, err := svc.Confirm(context.Background(), "apt-1", "https://x"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(outbox.inserted) != 0 {
		t.Fatalf("no event should be enqueued on failed transition, got %v", outbox.inserted)
	}
}

func TestOutboxFailureDoesNotFailTransition(t *testing.T) {
	store := &stubStore{appt: testAppointment(StatusConfirmed)}
	outbox := &stubOutbox{err: errors.New("outbox down")}
	svc := NewService(store, nil, outbox, nil, nil)

	if _, err := svc.Confirm(context.Background(), "apt-1", "https://x"); err != nil {
		t.Fatalf("transition must succeed despite outbox failure, got %v", err)
	}
}

func TestRejectReleasesSlot(t *testing.T) {
	store := &stubStore{appt: testAppointment(StatusRejected)}
	slotStub := &stubSlots{}
	svc := NewService(store, slotStub, nil, nil, nil)

	if _, err := svc.Reject(context.Background(), "apt-1", "agenda completa"); err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}
	if len(slotStub.released) != 1 || slotStub.released[0] != "slot-1" {
		t.Fatalf("expected slot release, got %v", slotStub.released)
	}
}

func TestCreateBooksSlotAndRollsBackOnInsertFailure(t *testing.T) {
	store := &stubStore{err: errors.New("insert failed")}
	slotStub := &stubSlots{}
	svc := NewService(store, slotStub, nil, nil, nil)

	req := &CreateRequest{
		PatientID: "pat-1", DoctorID: "doc-1", ServiceID: "svc-1",
		SlotID: "slot-1", Date: "2026-03-14", StartTime: "09:00", EndTime: "09:30",
		Modality: ModalityOnline,
	}
	if _, err := svc.Create(context.Background(), req); err == nil {
		t.Fatal("expected create to fail")
	}
	if len(slotStub.booked) != 1 {
		t.Fatalf("expected slot booked once, got %v", slotStub.booked)
	}
	if len(slotStub.released) != 1 {
		t.Fatalf("expected slot released after insert failure, got %v", slotStub.released)
	}
}
