package entity

import "time"

// Supplier representa un proveedor del tenant. Borrado lógico vía DeletedAt.
type Supplier struct {
	ID        int64
	TenantID  int64
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
