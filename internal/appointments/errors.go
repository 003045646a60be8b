package appointments

import "errors"

var (
	// ErrNotFound is returned when the appointment does not exist.
	ErrNotFound = errors.New("appointment not found")

	// ErrInvalidTransition is returned when the current status is not a
	// valid predecessor for the requested transition. A concurrent writer
	// that loses a state-checked update observes this same error.
	ErrInvalidTransition = errors.New("invalid appointment transition")

	// ErrInvalidModality is returned when a video operation targets an
	// in-person appointment.
	ErrInvalidModality = errors.New("appointment is not online")

	// ErrMissingReason is returned when a reject or cancel request omits
	// the required reason.
	ErrMissingReason = errors.New("reason is required")

	// ErrMissingFields is returned when a booking request omits required
	// fields or carries an unknown modality.
	ErrMissingFields = errors.New("missing required fields")

	// ErrNotElapsed is returned when a no-show is requested before the
	// appointment's scheduled end time has passed.
	ErrNotElapsed = errors.New("appointment time has not elapsed")
)
