package appointment

// transitions is the single authoritative edge table for the appointment
// state machine. Every operation checks it against the latest persisted
// status; nothing else in the codebase branches on raw status values.
var transitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusAwaitingPayment: true,
		StatusCancelled:       true,
	},
	StatusAwaitingPayment: {
		StatusPaid:      true,
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusPaid: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusCompleted: true,
		StatusCancelled: true,
	},
}

func CanTransition(from, to Status) bool {
	return transitions[from][to]
}
