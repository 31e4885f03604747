package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// TenantRepository define el puerto de persistencia para Tenant (DIP).
type TenantRepository interface {
	Create(tenant *entity.Tenant) error
	GetByID(id int64) (*entity.Tenant, error)
	GetByEmail(email string) (*entity.Tenant, error)
}
