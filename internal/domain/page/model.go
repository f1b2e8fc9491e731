package page

import "time"

const (
	KindIndividual = "individual"
	KindFirm       = "firm"
)

// Page is a tenant: a lawyer's or firm's public profile that owns clients,
// appointments and collaborations. One user may own several pages.
type Page struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	OwnerID   string    `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Slug      string    `gorm:"not null;uniqueIndex"`
	Kind      string    `gorm:"type:varchar(16);not null"`
	OAB       string    `gorm:"column:oab"`
	Phone     string
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type CreatePageInput struct {
	OwnerID string
	Name    string
	Slug    string
	Kind    string
	OAB     string
	Phone   string
}

type UpdatePageInput struct {
	Name  string
	OAB   string
	Phone string
}
