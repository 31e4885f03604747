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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL
// (usable con pool o tx). La tabla lleva índices únicos parciales sobre
// (tenant_id, parent_id, name) y (tenant_id, name) WHERE parent_id IS NULL como
// respaldo del invariante de nombres únicos entre hermanos.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría nueva y asigna el id generado.
func (r *CategoryRepo) Create(category *entity.Category) error {
	query := `
		INSERT INTO categories (tenant_id, name, description, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		category.TenantID, category.Name, category.Description, category.ParentID,
		category.CreatedAt, category.UpdatedAt,
	).Scan(&category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por id dentro del tenant. (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(id, tenantID int64) (*entity.Category, error) {
	query := `
		SELECT id, tenant_id, name, description, parent_id, created_at, updated_at
		FROM categories WHERE id = $1 AND tenant_id = $2`
	var c entity.Category
	err := r.q.QueryRow(context.Background(), query, id, tenantID).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Description, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// ListByParent lista las hijas directas de un padre; parentID nil selecciona el
// grupo raíz (parent_id IS NULL, no un centinela).
func (r *CategoryRepo) ListByParent(tenantID int64, parentID *int64) ([]*entity.Category, error) {
	query := `
		SELECT id, tenant_id, name, description, parent_id, created_at, updated_at
		FROM categories WHERE tenant_id = $1 AND parent_id IS NOT DISTINCT FROM $2`
	rows, err := r.q.Query(context.Background(), query, tenantID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list categories by parent: %w", err)
	}
	return scanCategories(rows)
}

// ListAll devuelve el set plano completo del tenant.
func (r *CategoryRepo) ListAll(tenantID int64) ([]*entity.Category, error) {
	query := `
		SELECT id, tenant_id, name, description, parent_id, created_at, updated_at
		FROM categories WHERE tenant_id = $1`
	rows, err := r.q.Query(context.Background(), query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return scanCategories(rows)
}

// Update actualiza nombre, descripción y padre de una categoría existente.
func (r *CategoryRepo) Update(category *entity.Category) error {
	query := `
		UPDATE categories SET name = $3, description = $4, parent_id = $5, updated_at = $6
		WHERE id = $1 AND tenant_id = $2`
	cmd, err := r.q.Exec(context.Background(), query,
		category.ID, category.TenantID, category.Name, category.Description,
		category.ParentID, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina físicamente la categoría. El FK RESTRICT de parent_id y de
// products.category_id actúa de respaldo si una hija o un producto apareció
// entre la validación y el write.
func (r *CategoryRepo) Delete(id, tenantID int64) error {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM categories WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DetachDeletedProducts pone en NULL el category_id de los productos con
// tombstone que aún referencian la categoría. El FK RESTRICT queda como
// respaldo solo contra productos activos que aparezcan en la carrera.
func (r *CategoryRepo) DetachDeletedProducts(categoryID, tenantID int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET category_id = NULL
		 WHERE category_id = $1 AND tenant_id = $2 AND deleted_at IS NOT NULL`,
		categoryID, tenantID)
	if err != nil {
		return fmt.Errorf("detach deleted products: %w", err)
	}
	return nil
}

// CountProducts cuenta productos activos (sin tombstone) de la categoría.
func (r *CategoryRepo) CountProducts(categoryID, tenantID int64) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM products WHERE category_id = $1 AND tenant_id = $2 AND deleted_at IS NULL`,
		categoryID, tenantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return count, nil
}

// CountProductsGrouped devuelve el conteo de productos activos por categoría del tenant.
func (r *CategoryRepo) CountProductsGrouped(tenantID int64) (map[int64]int, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT category_id, count(*) FROM products
		 WHERE tenant_id = $1 AND deleted_at IS NULL AND category_id IS NOT NULL
		 GROUP BY category_id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("count products grouped: %w", err)
	}
	defer rows.Close()
	counts := make(map[int64]int)
	for rows.Next() {
		var categoryID int64
		var count int
		if err := rows.Scan(&categoryID, &count); err != nil {
			return nil, fmt.Errorf("scan product count: %w", err)
		}
		counts[categoryID] = count
	}
	return counts, rows.Err()
}

func scanCategories(rows pgx.Rows) ([]*entity.Category, error) {
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Description, &c.ParentID,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
