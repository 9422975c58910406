package entity

import "time"

// Roles de administrador de tienda.
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// StoreAdmin vincula un usuario con una tienda y su rol.
type StoreAdmin struct {
	ID          string
	UserID      string
	PhoneNumber string
	Email       string
	FullName    string
	StoreID     string
	Role        string // owner, manager, staff
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Store *Store // opcional, cargado en perfil
}

// IsValidRole indica si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleManager, RoleStaff:
		return true
	}
	return false
}

// CanManageCatalog owner y manager pueden modificar productos y configuración de tienda.
func (a *StoreAdmin) CanManageCatalog() bool {
	return a.Role == RoleOwner || a.Role == RoleManager
}
