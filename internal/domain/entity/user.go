package entity

import "time"

// Roles válidos para User. Las mutaciones de catálogo exigen admin o bodeguero;
// las lecturas están disponibles para cualquier rol autenticado del tenant.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// User representa un usuario del sistema (pertenece a un Tenant).
type User struct {
	ID           string // UUID
	TenantID     int64
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, bodeguero, vendedor
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
