package appointment

import "context"

// Notifier is the read-only hook external integrations (calendar events,
// client notifications) subscribe to. Failures are the subscriber's
// problem: a transition that committed is never rolled back for a
// notification.
type Notifier interface {
	StatusChanged(ctx context.Context, appointment *Appointment, from, to Status)
}

type noopNotifier struct{}

func (noopNotifier) StatusChanged(context.Context, *Appointment, Status, Status) {}
