package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// Delete es lógico (marca DeletedAt); ninguna lectura devuelve filas con tombstone.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id, tenantID int64) (*entity.Product, error)
	GetByTenantAndSKU(tenantID int64, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByTenant(tenantID int64, limit, offset int) ([]*entity.Product, error)
	Delete(id, tenantID int64) error
}
