package appointment

import (
	"context"
	"time"
)

// StatusChange is the write applied together with a status transition; nil
// fields are left untouched.
type StatusChange struct {
	To            Status
	FinalPrice    *float64
	VideoCallLink *string
	TransactionID *string
	CancelReason  *string
	PaidAt        *time.Time
	ConfirmedAt   *time.Time
}

type Repository interface {
	GetByID(ctx context.Context, appointmentID string) (*Appointment, error)
	List(ctx context.Context, pageID string, filter ListFilter) ([]Appointment, int64, error)
	Create(ctx context.Context, appointment *Appointment) error
	// UpdateStatus applies change only while the persisted status still
	// equals from (compare-and-set); it reports whether a row changed.
	UpdateStatus(ctx context.Context, appointmentID string, from Status, change StatusChange) (bool, error)
	GetPageOwner(ctx context.Context, pageID string) (string, error)
	SetClientID(ctx context.Context, appointmentID, clientID string) error
}
