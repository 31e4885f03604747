package entity

import "time"

// Category representa una categoría de productos dentro del árbol jerárquico de un tenant.
// ParentID nil significa categoría raíz. La relación padre-hijo debe formar un bosque:
// sin ciclos y sin nombres repetidos entre hermanos (mismo padre, mismo tenant).
type Category struct {
	ID          int64
	TenantID    int64
	Name        string // 2–255 caracteres
	Description string // opcional, ≤500 caracteres
	ParentID    *int64 // nil si es raíz
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot indica si la categoría está en el grupo raíz del tenant.
func (c *Category) IsRoot() bool { return c.ParentID == nil }
