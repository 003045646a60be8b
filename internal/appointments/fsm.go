package appointments

// Event names a lifecycle transition. Every handler consults the same
// table before writing, and the repository repeats the check inside the
// conditional UPDATE so concurrent writers serialize at the database.
type Event string

const (
	EventConfirm  Event = "confirm"
	EventReject   Event = "reject"
	EventCancel   Event = "cancel"
	EventComplete Event = "complete"
	EventNoShow   Event = "no_show"
)

var transitions = map[Event]struct {
	from []Status
	to   Status
}{
	EventConfirm:  {from: []Status{StatusPending}, to: StatusConfirmed},
	EventReject:   {from: []Status{StatusPending}, to: StatusRejected},
	EventCancel:   {from: []Status{StatusPending, StatusConfirmed}, to: StatusCancelled},
	EventComplete: {from: []Status{StatusConfirmed}, to: StatusCompleted},
	EventNoShow:   {from: []Status{StatusConfirmed}, to: StatusNoShow},
}

// ValidFrom returns the statuses from which the event may fire.
func ValidFrom(ev Event) []Status {
	return transitions[ev].from
}

// Target returns the status the event produces.
func Target(ev Event) Status {
	return transitions[ev].to
}

// CanTransition reports whether the event may fire from the given status.
func CanTransition(from Status, ev Event) bool {
	for _, s := range transitions[ev].from {
		if s == from {
			return true
		}
	}
	return false
}

// Terminal reports whether no event can fire from the status.
func Terminal(s Status) bool {
	for ev := range transitions {
		if CanTransition(s, ev) {
			return false
		}
	}
	return true
}
