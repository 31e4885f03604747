package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL.
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador de persistencia para tenants.
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// Create persiste un tenant nuevo y asigna el id generado.
func (r *TenantRepo) Create(tenant *entity.Tenant) error {
	query := `
		INSERT INTO tenants (name, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		tenant.Name, tenant.Email, tenant.Status, tenant.CreatedAt, tenant.UpdatedAt,
	).Scan(&tenant.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene un tenant por id. (nil, nil) si no existe.
func (r *TenantRepo) GetByID(id int64) (*entity.Tenant, error) {
	return r.getOne(`SELECT id, name, email, status, created_at, updated_at FROM tenants WHERE id = $1`, id)
}

// GetByEmail obtiene un tenant por email de contacto. (nil, nil) si no existe.
func (r *TenantRepo) GetByEmail(email string) (*entity.Tenant, error) {
	return r.getOne(`SELECT id, name, email, status, created_at, updated_at FROM tenants WHERE email = $1`, email)
}

func (r *TenantRepo) getOne(query string, args ...any) (*entity.Tenant, error) {
	var t entity.Tenant
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&t.ID, &t.Name, &t.Email, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}
