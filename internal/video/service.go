package video

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sanavida/clinic-booking-platform/internal/appointments"
	"github.com/sanavida/clinic-booking-platform/internal/observability/metrics"
	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

var videoTracer = otel.Tracer("clinic.internal.video")

// AppointmentStore is the persistence surface room provisioning needs.
type AppointmentStore interface {
	GetByID(ctx context.Context, id string) (*appointments.Appointment, error)
	SetMeetingLink(ctx context.Context, id, roomID, meetingLink string) (*appointments.Appointment, error)
}

// RoomCreator registers a room with the external provider.
type RoomCreator interface {
	CreateRoom(ctx context.Context, roomID, createdBy string) (string, error)
}

// Service provisions rooms for online appointments and mints join tokens.
type Service struct {
	appts      AppointmentStore
	rooms      RoomCreator
	tokens     *TokenIssuer
	linkDomain string
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
}

// NewService constructs the video service. rooms may be nil, in which case
// the join link is derived from linkDomain without a provider call.
func NewService(appts AppointmentStore, rooms RoomCreator, tokens *TokenIssuer, linkDomain string, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if appts == nil {
		panic("video: appointment store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		appts:      appts,
		rooms:      rooms,
		tokens:     tokens,
		linkDomain: strings.TrimRight(linkDomain, "/"),
		metrics:    m,
		logger:     logger,
	}
}

// CreateRoom provisions a room for an online appointment and persists the
// join link. Provisioning is idempotent: an appointment that already has a
// link returns it without a second provider call. The modality guard runs
// before any external call.
func (s *Service) CreateRoom(ctx context.Context, appointmentID, createdBy string) (roomID, meetingLink string, err error) {
	ctx, span := videoTracer.Start(ctx, "video.create_room")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.appointment_id", appointmentID))

	appt, err := s.appts.GetByID(ctx, appointmentID)
	if err != nil {
		return "", "", err
	}
	if appt.Modality != appointments.ModalityOnline {
		return "", "", appointments.ErrInvalidModality
	}
	if appt.MeetingLink != nil && *appt.MeetingLink != "" {
		existing := ""
		if appt.VideoRoomID != nil {
			existing = *appt.VideoRoomID
		}
		s.logger.Info("room already provisioned", "appointment_id", appt.ID, "room_id", existing)
		return existing, *appt.MeetingLink, nil
	}

	roomID = "apt-" + uuid.NewString()
	meetingLink = fmt.Sprintf("%s/%s", s.linkDomain, roomID)
	if s.rooms != nil {
		start := time.Now()
		link, err := s.rooms.CreateRoom(ctx, roomID, createdBy)
		s.metrics.ObserveUpstreamLatency("video", time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			return "", "", err
		}
		meetingLink = link
	}

	if _, err := s.appts.SetMeetingLink(ctx, appt.ID, roomID, meetingLink); err != nil {
		span.RecordError(err)
		return "", "", err
	}
	s.logger.Info("meeting link persisted", "appointment_id", appt.ID, "room_id", roomID)
	return roomID, meetingLink, nil
}

// Token mints a join token for the user.
func (s *Service) Token(userID string) (string, error) {
	if s.tokens == nil {
		return "", ErrTokenNotConfigured
	}
	return s.tokens.Mint(userID)
}
