package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndTenant(email string, tenantID int64) (*entity.User, error)
}
