package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de persistencia para proveedores.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor nuevo y asigna el id generado.
func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (tenant_id, name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		supplier.TenantID, supplier.Name, supplier.Email, supplier.Phone,
		supplier.Address, supplier.CreatedAt, supplier.UpdatedAt,
	).Scan(&supplier.ID)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor activo del tenant. (nil, nil) si no existe.
func (r *SupplierRepo) GetByID(id, tenantID int64) (*entity.Supplier, error) {
	query := `
		SELECT id, tenant_id, name, email, phone, address, created_at, updated_at
		FROM suppliers WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`
	var s entity.Supplier
	err := r.q.QueryRow(context.Background(), query, id, tenantID).Scan(
		&s.ID, &s.TenantID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// Update actualiza un proveedor existente.
func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $3, email = $4, phone = $5, address = $6, updated_at = $7
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(context.Background(), query,
		supplier.ID, supplier.TenantID, supplier.Name, supplier.Email,
		supplier.Phone, supplier.Address, supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant lista proveedores activos del tenant con paginación.
func (r *SupplierRepo) ListByTenant(tenantID int64, limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT id, tenant_id, name, email, phone, address, created_at, updated_at
		FROM suppliers WHERE tenant_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &s.Email, &s.Phone, &s.Address,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete marca el tombstone del proveedor (borrado lógico).
func (r *SupplierRepo) Delete(id, tenantID int64) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE suppliers SET deleted_at = $3 WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`,
		id, tenantID, time.Now())
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
