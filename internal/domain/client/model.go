package client

import "time"

const (
	StatusActive   = "ativo"
	StatusInactive = "inativo"
)

// Client is a permanent per-tenant contact record, deduplicated by
// (OwnerID, Email). TotalAppointments, TotalSpent and LastContact are
// derived from appointment history and only ever written by
// RefreshAggregates.
type Client struct {
	ID                string     `gorm:"type:uuid;primaryKey"`
	OwnerID           string     `gorm:"type:uuid;not null;uniqueIndex:idx_clients_owner_email"`
	Email             string     `gorm:"not null;uniqueIndex:idx_clients_owner_email"`
	Name              string     `gorm:"not null"`
	Phone             string
	Status            string     `gorm:"type:varchar(16);not null;default:'ativo'"`
	TotalAppointments int64      `gorm:"not null;default:0"`
	TotalSpent        float64    `gorm:"type:numeric(12,2);not null;default:0"`
	LastContact       *time.Time
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime"`
}

type RegisterInput struct {
	Email string
	Name  string
	Phone string
}

// Aggregates is the derived slice of a client recomputed from appointments:
// count of non-cancelled appointments, sum spent on paid ones, and the most
// recent appointment date.
type Aggregates struct {
	TotalAppointments int64
	TotalSpent        float64
	LastContact       *time.Time
}
