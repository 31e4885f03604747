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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx). El borrado es lógico: deleted_at marca el tombstone
// y todas las lecturas lo excluyen.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, tenant_id, sku, name, description, price, category_id, supplier_id, created_at, updated_at`

// Create persiste un producto nuevo y asigna el id generado.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (tenant_id, sku, name, description, price, category_id, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		product.TenantID, product.SKU, product.Name, product.Description,
		product.Price, product.CategoryID, product.SupplierID,
		product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto activo del tenant. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(id, tenantID int64) (*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`
	return r.getOne(query, id, tenantID)
}

// GetByTenantAndSKU obtiene un producto activo por tenant y SKU.
func (r *ProductRepo) GetByTenantAndSKU(tenantID int64, sku string) (*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE tenant_id = $1 AND sku = $2 AND deleted_at IS NULL`
	return r.getOne(query, tenantID, sku)
}

// Update actualiza un producto existente.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $3, description = $4, price = $5, category_id = $6, supplier_id = $7, updated_at = $8
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(context.Background(), query,
		product.ID, product.TenantID, product.Name, product.Description,
		product.Price, product.CategoryID, product.SupplierID, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant lista productos activos del tenant con paginación.
func (r *ProductRepo) ListByTenant(tenantID int64, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE tenant_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.Description, &p.Price,
			&p.CategoryID, &p.SupplierID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete marca el tombstone del producto (borrado lógico).
func (r *ProductRepo) Delete(id, tenantID int64) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET deleted_at = $3 WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`,
		id, tenantID, time.Now())
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) getOne(query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.Description, &p.Price,
		&p.CategoryID, &p.SupplierID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}
