package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sanavida/clinic-booking-platform/internal/events"
	"github.com/sanavida/clinic-booking-platform/internal/observability/metrics"
	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

// ContactLookup resolves notification recipients.
type ContactLookup interface {
	PatientContact(ctx context.Context, patientID string) (Contact, error)
}

// Dispatcher turns outbox entries into emails. It implements
// events.DeliveryHandler for the outbox worker.
type Dispatcher struct {
	sender   EmailSender
	contacts ContactLookup
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

func NewDispatcher(sender EmailSender, contacts ContactLookup, m *metrics.BookingMetrics, logger *logging.Logger) *Dispatcher {
	if sender == nil {
		panic("notify: email sender required")
	}
	if contacts == nil {
		panic("notify: contact lookup required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{sender: sender, contacts: contacts, metrics: m, logger: logger}
}

// Handle delivers a single outbox entry. Unknown event types are treated as
// delivered so a stale entry never wedges the queue.
func (d *Dispatcher) Handle(ctx context.Context, entry events.OutboxEntry) error {
	var err error
	switch entry.Type {
	case events.TypeAppointmentConfirmed:
		err = d.handleConfirmed(ctx, entry)
	case events.TypeAppointmentRejected:
		err = d.handleRejected(ctx, entry)
	default:
		d.logger.Warn("skipping unknown event type", "type", entry.Type, "event_id", entry.ID)
		return nil
	}

	if err != nil {
		d.metrics.ObserveNotification(entry.Type, "failure")
		return err
	}
	d.metrics.ObserveNotification(entry.Type, "success")
	return nil
}

func (d *Dispatcher) handleConfirmed(ctx context.Context, entry events.OutboxEntry) error {
	var ev events.AppointmentConfirmedV1
	if err := json.Unmarshal(entry.Payload, &ev); err != nil {
		return fmt.Errorf("notify: unmarshal %s: %w", entry.Type, err)
	}
	contact, err := d.contacts.PatientContact(ctx, ev.PatientID)
	if err != nil {
		return err
	}
	subject, body := confirmationEmail(contact.FullName, ev)
	return d.sender.Send(ctx, EmailMessage{
		To:      contact.Email,
		ToName:  contact.FullName,
		Subject: subject,
		Body:    body,
	})
}

func (d *Dispatcher) handleRejected(ctx context.Context, entry events.OutboxEntry) error {
	var ev events.AppointmentRejectedV1
	if err := json.Unmarshal(entry.Payload, &ev); err != nil {
		return fmt.Errorf("notify: unmarshal %s: %w", entry.Type, err)
	}
	contact, err := d.contacts.PatientContact(ctx, ev.PatientID)
	if err != nil {
		return err
	}
	subject, body := rejectionEmail(contact.FullName, ev)
	return d.sender.Send(ctx, EmailMessage{
		To:      contact.Email,
		ToName:  contact.FullName,
		Subject: subject,
		Body:    body,
	})
}
