package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest datos para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"max=500"`
	ParentID    *int64 `json:"parent_id"` // nil = categoría raíz
}

// UpdateCategoryRequest patch parcial. ParentID es tri-estado: ausente no toca
// el padre, null explícito mueve a la raíz, valor reubica bajo ese padre.
type UpdateCategoryRequest struct {
	Name        *string       `json:"name" validate:"omitempty,min=2,max=255"`
	Description *string       `json:"description" validate:"omitempty,max=500"`
	ParentID    OptionalInt64 `json:"parent_id"`
}

// MoveCategoryRequest reubica una categoría. ParentID nil = mover a la raíz.
type MoveCategoryRequest struct {
	ParentID *int64 `json:"parent_id"`
}

// CategoryRef referencia mínima a una categoría (hijos directos, breadcrumb).
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryResponse detalle de una categoría con campos derivados.
type CategoryResponse struct {
	ID           int64         `json:"id"`
	TenantID     int64         `json:"tenant_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	ParentID     *int64        `json:"parent_id"`
	ParentName   string        `json:"parent_name,omitempty"`
	ProductCount int           `json:"product_count"`
	Children     []CategoryRef `json:"children"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// CategoryListResponse listado plano de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Total int                `json:"total"`
}

// CategoryTreeNode nodo del árbol de categorías. Children se serializa siempre,
// aunque esté vacío, para que los consumidores traten todos los nodos igual.
type CategoryTreeNode struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description,omitempty"`
	ParentID     *int64              `json:"parent_id"`
	ProductCount int                 `json:"product_count"`
	Children     []*CategoryTreeNode `json:"children"`
}

// CategoryTreeResponse bosque completo del tenant.
type CategoryTreeResponse struct {
	Roots []*CategoryTreeNode `json:"tree"`
}

// CategoryPathResponse breadcrumb de raíz a nodo, ambos inclusive.
type CategoryPathResponse struct {
	Path []CategoryRef `json:"path"`
}

// DeleteCategoryResponse confirmación de borrado.
type DeleteCategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryStatsResponse agregados del catálogo del tenant.
type CategoryStatsResponse struct {
	TotalCategories        int             `json:"total_categories"`
	RootCategories         int             `json:"root_categories"`
	CategoriesWithProducts int             `json:"categories_with_products"`
	AvgProductsPerCategory decimal.Decimal `json:"avg_products_per_category"`
}
