package finance

import "time"

// PaymentRecord is one immutable ledger entry derived from a paid
// appointment. AppointmentID carries a uniqueness constraint: that
// constraint, not any lock, is what guarantees at most one entry per
// appointment. The only field ever mutated after creation is the
// withdrawal linkage.
type PaymentRecord struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	AppointmentID string    `gorm:"type:uuid;not null;uniqueIndex"`
	OwnerID       string    `gorm:"type:uuid;not null;index"`
	PageID        string    `gorm:"type:uuid;not null;index"`
	ClientID      *string   `gorm:"type:uuid"`
	ClientEmail   string    `gorm:"not null"`
	Amount        float64   `gorm:"type:numeric(12,2);not null"`
	RecordedAt    time.Time `gorm:"not null"`
	AvailableAt   time.Time `gorm:"not null;index"`
	WithdrawalID  *string   `gorm:"type:uuid"`
}

// ReconcilableAppointment is the projection of an appointment the engine
// needs: paid status, positive price.
type ReconcilableAppointment struct {
	ID          string
	PageID      string
	OwnerID     string
	ClientID    *string
	ClientEmail string
	Amount      float64
}

// ReconcileResult reports what a sweep did, so callers can retry only the
// failures.
type ReconcileResult struct {
	Migrated int `json:"migrated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

type Summary struct {
	TotalPaid        float64 `json:"total_paid"`
	PendingAmount    float64 `json:"pending_amount"`
	ConfirmedAmount  float64 `json:"confirmed_amount"`
	AvailableBalance float64 `json:"available_balance"`
}
