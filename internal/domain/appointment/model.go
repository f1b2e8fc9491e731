package appointment

import "time"

// Status values follow the product's Portuguese naming; they are persisted
// as-is and only ever change along the edges in transitions.go.
type Status string

const (
	StatusPending          Status = "pendente"
	StatusAwaitingPayment  Status = "aguardando_pagamento"
	StatusPaid             Status = "pago"
	StatusConfirmed        Status = "confirmado"
	StatusCompleted        Status = "finalizado"
	StatusCancelled        Status = "cancelado"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAwaitingPayment, StatusPaid, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Paid reports whether the appointment has reached a state that counts as
// paid for client registration and financial reconciliation.
func (s Status) Paid() bool {
	return s == StatusPaid || s == StatusConfirmed || s == StatusCompleted
}

type Appointment struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	PageID          string    `gorm:"type:uuid;not null;index"`
	OwnerID         string    `gorm:"type:uuid;not null;index"`
	ClientID        *string   `gorm:"type:uuid"`
	ClientName      string    `gorm:"not null"`
	ClientEmail     string    `gorm:"not null;index"`
	Status          Status    `gorm:"type:varchar(24);not null;index"`
	ProposedMin     *float64  `gorm:"type:numeric(12,2)"`
	ProposedMax     *float64  `gorm:"type:numeric(12,2)"`
	FinalPrice      float64   `gorm:"type:numeric(12,2);not null;default:0"`
	VideoCallLink   string
	TransactionID   string
	CancelReason    string
	AppointmentDate time.Time `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	PaidAt          *time.Time
	ConfirmedAt     *time.Time
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// CreateRequestInput comes from the public booking flow; every appointment
// starts life as pendente.
type CreateRequestInput struct {
	PageID          string
	ClientName      string
	ClientEmail     string
	ProposedMin     *float64
	ProposedMax     *float64
	AppointmentDate time.Time
}

type ListFilter struct {
	Status *Status
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// SetPriceResult carries the soft range warning: a price outside the
// proposed range is flagged, never rejected.
type SetPriceResult struct {
	Appointment     *Appointment
	PriceOutOfRange bool
}
