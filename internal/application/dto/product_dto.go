package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest datos para crear un producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *int64          `json:"category_id"`
	SupplierID  *int64          `json:"supplier_id"`
}

// UpdateProductRequest patch parcial de producto. CategoryID y SupplierID son
// tri-estado (ausente / null / valor), igual que el parent de categorías.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  OptionalInt64    `json:"category_id"`
	SupplierID  OptionalInt64    `json:"supplier_id"`
}

// ProductResponse representación de un producto en respuestas.
type ProductResponse struct {
	ID          int64           `json:"id"`
	TenantID    int64           `json:"tenant_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *int64          `json:"category_id"`
	SupplierID  *int64          `json:"supplier_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
