package video

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sanavida/clinic-booking-platform/internal/appointments"
)

type stubApptStore struct {
	appt      *appointments.Appointment
	getErr    error
	setRoomID string
	setLink   string
}

func (s *stubApptStore) GetByID(ctx context.Context, id string) (*appointments.Appointment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.appt, nil
}

func (s *stubApptStore) SetMeetingLink(ctx context.Context, id, roomID, meetingLink string) (*appointments.Appointment, error) {
	s.setRoomID = roomID
	s.setLink = meetingLink
	return s.appt, nil
}

type stubRooms struct {
	calls int
	url   string
	err   error
}

func (s *stubRooms) CreateRoom(ctx context.Context, roomID, createdBy string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if s.url != "" {
		return s.url, nil
	}
	return "https://provider.example/" + roomID, nil
}

func onlineAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:       "apt-1",
		Modality: appointments.ModalityOnline,
		Status:   appointments.StatusPending,
	}
}

func TestCreateRoomProvisionsAndPersists(t *testing.T) {
	store := &stubApptStore{appt: onlineAppointment()}
	rooms := &stubRooms{}
	svc := NewService(store, rooms, nil, "https://meet.example", nil, nil)

	roomID, link, err := svc.CreateRoom(context.Background(), "apt-1", "doc-1")
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	if rooms.calls != 1 {
		t.Fatalf("expected one provider call, got %d", rooms.calls)
	}
	if store.setRoomID != roomID || store.setLink != link {
		t.Fatalf("persisted room %q/%q, returned %q/%q", store.setRoomID, store.setLink, roomID, link)
	}
}

func TestCreateRoomInPersonMakesNoExternalCall(t *testing.T) {
	appt := onlineAppointment()
	appt.Modality = appointments.ModalityInPerson
	store := &stubApptStore{appt: appt}
	rooms := &stubRooms{}
	svc := NewService(store, rooms, nil, "https://meet.example", nil, nil)

	_, _, err := svc.CreateRoom(context.Background(), "apt-1", "doc-1")
	if !errors.Is(err, appointments.ErrInvalidModality) {
		t.Fatalf("expected ErrInvalidModality, got %v", err)
	}
	if rooms.calls != 0 {
		t.Fatalf("provider must not be called for in-person appointments, got %d calls", rooms.calls)
	}
}

func TestCreateRoomIsIdempotent(t *testing.T) {
	appt := onlineAppointment()
	link := "https://meet.example/apt-existing"
	room := "apt-existing"
	appt.MeetingLink = &link
	appt.VideoRoomID = &room
	store := &stubApptStore{appt: appt}
	rooms := &stubRooms{}
	svc := NewService(store, rooms, nil, "https://meet.example", nil, nil)

	roomID, gotLink, err := svc.CreateRoom(context.Background(), "apt-1", "doc-1")
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	if rooms.calls != 0 {
		t.Fatalf("provisioned room must be reused, got %d provider calls", rooms.calls)
	}
	if roomID != room || gotLink != link {
		t.Fatalf("expected existing room returned, got %q/%q", roomID, gotLink)
	}
}

func TestCreateRoomMissingAppointment(t *testing.T) {
	store := &stubApptStore{getErr: appointments.ErrNotFound}
	svc := NewService(store, &stubRooms{}, nil, "https://meet.example", nil, nil)

	_, _, err := svc.CreateRoom(context.Background(), "apt-x", "doc-1")
	if !errors.Is(err, appointments.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateRoomProviderFailureDoesNotPersist(t *testing.T) {
	store := &stubApptStore{appt: onlineAppointment()}
	rooms := &stubRooms{err: ErrUpstream}
	svc := NewService(store, rooms, nil, "https://meet.example", nil, nil)

	_, _, err := svc.CreateRoom(context.Background(), "apt-1", "doc-1")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if store.setLink != "" {
		t.Fatalf("link must not be persisted on provider failure, got %q", store.setLink)
	}
}

func TestTokenMintAndVerifyClaims(t *testing.T) {
	issuer := NewTokenIssuer("key-1", "secret-1", time.Hour)
	svc := NewService(&stubApptStore{appt: onlineAppointment()}, nil, issuer, "https://meet.example", nil, nil)

	token, err := svc.Token("user-1")
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
}

func TestTokenWithoutIssuerIsConfigError(t *testing.T) {
	svc := NewService(&stubApptStore{appt: onlineAppointment()}, nil, nil, "https://meet.example", nil, nil)

	_, err := svc.Token("user-1")
	if !errors.Is(err, ErrTokenNotConfigured) {
		t.Fatalf("expected ErrTokenNotConfigured, got %v", err)
	}
}
