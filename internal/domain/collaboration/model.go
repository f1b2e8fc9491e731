package collaboration

import "time"

type Role string

const (
	RoleLawyer    Role = "lawyer"
	RoleIntern    Role = "intern"
	RoleFinancial Role = "financial"
)

func (r Role) Valid() bool {
	switch r {
	case RoleLawyer, RoleIntern, RoleFinancial:
		return true
	}
	return false
}

type Permission string

const (
	PermissionClients      Permission = "clients"
	PermissionAppointments Permission = "appointments"
	PermissionFinancial    Permission = "financial"
)

type PermissionSet map[Permission]bool

func (s PermissionSet) Has(p Permission) bool { return s[p] }

// rolePermissions is the authoritative role to permission mapping. It is
// never stored and never client-supplied: the role alone determines the set.
var rolePermissions = map[Role]PermissionSet{
	RoleLawyer:    {PermissionClients: true, PermissionAppointments: true, PermissionFinancial: true},
	RoleIntern:    {PermissionClients: true, PermissionAppointments: true},
	RoleFinancial: {PermissionFinancial: true},
}

// RolePermissions returns a copy so callers cannot mutate the table.
func RolePermissions(role Role) PermissionSet {
	set := make(PermissionSet, len(rolePermissions[role]))
	for p := range rolePermissions[role] {
		set[p] = true
	}
	return set
}

// Collaboration grants a role to a non-owner user on a specific page.
// Permissions are intentionally absent from the record: they are derived
// from Role on every read.
type Collaboration struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	PageID         string    `gorm:"type:uuid;not null;uniqueIndex:idx_collab_page_user"`
	OwnerID        string    `gorm:"type:uuid;not null;index"`
	CollaboratorID string    `gorm:"type:uuid;not null;uniqueIndex:idx_collab_page_user"`
	Role           Role      `gorm:"type:varchar(16);not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Access is the Permission Resolver's verdict for one actor on one page.
// An unknown actor or missing page yields the zero value: no role, no
// permissions, deny everything.
type Access struct {
	ActorID     string
	PageID      string
	OwnerID     string
	IsOwner     bool
	Role        Role
	Permissions PermissionSet
}

func (a Access) has(p Permission) bool {
	return a.IsOwner || a.Permissions.Has(p)
}

// Page and collaboration records are mutated only by the owner, so the
// edit/delete/invite capabilities never derive from a collaborator role.
func (a Access) CanEdit() bool   { return a.IsOwner }
func (a Access) CanDelete() bool { return a.IsOwner }
func (a Access) CanInvite() bool { return a.IsOwner }

func (a Access) CanViewFinancial() bool      { return a.has(PermissionFinancial) }
func (a Access) CanManageClients() bool      { return a.has(PermissionClients) }
func (a Access) CanManageAppointments() bool { return a.has(PermissionAppointments) }
