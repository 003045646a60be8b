package appointments

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// Modality distinguishes teleconsultations from in-person visits.
type Modality string

const (
	ModalityOnline   Modality = "online"
	ModalityInPerson Modality = "in_person"
)

// Appointment is a booked consultation between a patient and a doctor.
// meeting_link is only ever set on online appointments; confirmed_at and
// cancelled_at are written exactly once, by the transition that produces
// them.
type Appointment struct {
	ID                 string     `json:"id"`
	PatientID          string     `json:"patient_id"`
	DoctorID           string     `json:"doctor_id"`
	ServiceID          string     `json:"service_id"`
	SlotID             *string    `json:"slot_id,omitempty"`
	Date               time.Time  `json:"date"`
	StartTime          string     `json:"start_time"`
	EndTime            string     `json:"end_time"`
	Status             Status     `json:"status"`
	Modality           Modality   `json:"modality"`
	MeetingLink        *string    `json:"meeting_link,omitempty"`
	VideoRoomID        *string    `json:"video_room_id,omitempty"`
	DoctorNotes        *string    `json:"doctor_notes,omitempty"`
	PatientNotes       *string    `json:"patient_notes,omitempty"`
	RejectionReason    *string    `json:"rejection_reason,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledBy        *string    `json:"cancelled_by,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// CreateRequest is the payload for booking a new appointment.
type CreateRequest struct {
	PatientID    string   `json:"patient_id"`
	DoctorID     string   `json:"doctor_id"`
	ServiceID    string   `json:"service_id"`
	SlotID       string   `json:"slot_id"`
	Date         string   `json:"date"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Modality     Modality `json:"modality"`
	PatientNotes string   `json:"patient_notes"`
}

// Validate checks required fields on a booking request.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.PatientID) == "" ||
		strings.TrimSpace(r.DoctorID) == "" ||
		strings.TrimSpace(r.ServiceID) == "" ||
		strings.TrimSpace(r.Date) == "" ||
		strings.TrimSpace(r.StartTime) == "" ||
		strings.TrimSpace(r.EndTime) == "" {
		return ErrMissingFields
	}
	switch r.Modality {
	case ModalityOnline, ModalityInPerson:
		return nil
	default:
		return ErrMissingFields
	}
}
