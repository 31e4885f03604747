package usecase

import (
	"time"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. La categoría asignada debe
// existir en el tenant; el conteo de productos por categoría alimenta la regla
// de borrado del árbol de categorías.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, supplierRepo repository.SupplierRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, supplierRepo: supplierRepo}
}

// Create crea un producto. SKU único por tenant; categoría y proveedor, si vienen, deben existir.
func (uc *ProductUseCase) Create(tenantID int64, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, err := uc.repo.GetByTenantAndSKU(tenantID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkRefs(tenantID, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		TenantID:    tenantID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		SupplierID:  in.SupplierID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del tenant.
func (uc *ProductUseCase) GetByID(id, tenantID int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id, tenantID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update aplica un patch parcial. Reasignar la categoría (incluido quitarla con
// null) es la vía para vaciar una categoría que se quiere eliminar.
func (uc *ProductUseCase) Update(id, tenantID int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id, tenantID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.CategoryID.Present {
		if err := uc.checkRefs(tenantID, in.CategoryID.Value, nil); err != nil {
			return nil, err
		}
		product.CategoryID = in.CategoryID.Value
	}
	if in.SupplierID.Present {
		if err := uc.checkRefs(tenantID, nil, in.SupplierID.Value); err != nil {
			return nil, err
		}
		product.SupplierID = in.SupplierID.Value
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos del tenant con paginación.
func (uc *ProductUseCase) List(tenantID int64, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByTenant(tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete marca el tombstone del producto (borrado lógico).
func (uc *ProductUseCase) Delete(id, tenantID int64) error {
	product, err := uc.repo.GetByID(id, tenantID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id, tenantID)
}

// checkRefs valida que la categoría y el proveedor referenciados existan en el tenant.
func (uc *ProductUseCase) checkRefs(tenantID int64, categoryID, supplierID *int64) error {
	if categoryID != nil {
		cat, err := uc.categoryRepo.GetByID(*categoryID, tenantID)
		if err != nil {
			return err
		}
		if cat == nil {
			return domain.ErrNotFound
		}
	}
	if supplierID != nil {
		sup, err := uc.supplierRepo.GetByID(*supplierID, tenantID)
		if err != nil {
			return err
		}
		if sup == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		TenantID:    p.TenantID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
