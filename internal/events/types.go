package events

// Event type identifiers stored in the outbox `type` column. Versioned so
// payloads can evolve without breaking the worker.
const (
	TypeAppointmentConfirmed = "appointment.confirmed.v1"
	TypeAppointmentRejected  = "appointment.rejected.v1"
)

// AppointmentConfirmedV1 is emitted when a doctor confirms an appointment.
type AppointmentConfirmedV1 struct {
	AppointmentID string `json:"appointment_id"`
	PatientID     string `json:"patient_id"`
	DoctorID      string `json:"doctor_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	Modality      string `json:"modality"`
	MeetingLink   string `json:"meeting_link,omitempty"`
}

// AppointmentRejectedV1 is emitted when a doctor rejects an appointment.
type AppointmentRejectedV1 struct {
	AppointmentID string `json:"appointment_id"`
	PatientID     string `json:"patient_id"`
	DoctorID      string `json:"doctor_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	Reason        string `json:"reason"`
}
