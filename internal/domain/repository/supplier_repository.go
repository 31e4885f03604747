package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id, tenantID int64) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	ListByTenant(tenantID int64, limit, offset int) ([]*entity.Supplier, error)
	Delete(id, tenantID int64) error
}
