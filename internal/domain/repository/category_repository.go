package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category (DIP).
// Todas las operaciones están acotadas al tenant; un id de otro tenant se
// comporta como inexistente. Los Get* devuelven (nil, nil) si no hay fila.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id, tenantID int64) (*entity.Category, error)
	ListByParent(tenantID int64, parentID *int64) ([]*entity.Category, error)
	ListAll(tenantID int64) ([]*entity.Category, error)
	Update(category *entity.Category) error
	Delete(id, tenantID int64) error
	// DetachDeletedProducts desvincula de la categoría los productos con tombstone
	// que aún la referencian; sin esto el DELETE físico tropieza con el FK aunque
	// no quede ningún producto activo.
	DetachDeletedProducts(categoryID, tenantID int64) error
	// CountProducts cuenta productos activos (sin tombstone) que referencian la categoría.
	CountProducts(categoryID, tenantID int64) (int, error)
	// CountProductsGrouped devuelve el conteo de productos activos por categoría
	// para todo el tenant, para anotar listados y árboles sin N consultas.
	CountProductsGrouped(tenantID int64) (map[int64]int, error)
}
