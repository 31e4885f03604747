package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Referencia a su Category vía CategoryID;
// el borrado es lógico (DeletedAt) para conservar histórico, a diferencia de las
// categorías que se eliminan físicamente cuando quedan vacías.
type Product struct {
	ID          int64
	TenantID    int64
	SKU         string // único por tenant
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  *int64 // nil = sin categoría asignada
	SupplierID  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // tombstone: nil = activo
}
