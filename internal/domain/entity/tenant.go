package entity

import "time"

// Tenant representa una organización aislada del sistema (multi-tenant).
// Toda entidad y toda consulta se particiona por TenantID.
type Tenant struct {
	ID        int64
	Name      string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
