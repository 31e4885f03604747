package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// CategoryTxRunner ejecuta fn con un CategoryRepository atado a una transacción.
// Las mutaciones de categorías validan y escriben dentro de la misma transacción
// para que el chequeo de unicidad/ciclos y el write no se separen bajo concurrencia;
// el índice único de la tabla actúa de respaldo adicional (se mapea a ErrDuplicate).
type CategoryTxRunner interface {
	Run(ctx context.Context, fn func(repo repository.CategoryRepository) error) error
}

// ParentFilter filtro opcional por padre en List. Set en false no filtra;
// Set en true con ID nil selecciona solo las categorías raíz.
type ParentFilter struct {
	Set bool
	ID  *int64
}

// CategoryUseCase mantiene el árbol de categorías de cada tenant: altas, bajas,
// renombres y reubicaciones preservando los invariantes estructurales (bosque sin
// ciclos, nombres únicos entre hermanos, borrado solo de hojas sin productos), y
// resuelve las consultas jerárquicas (árbol, breadcrumb, stats).
type CategoryUseCase struct {
	repo repository.CategoryRepository
	tx   CategoryTxRunner
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, tx CategoryTxRunner) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, tx: tx}
}

// Create crea una categoría, opcionalmente bajo un padre existente del mismo tenant.
// Aquí no hay chequeo de ciclos a propósito: un nodo que todavía no existe no puede
// ser ancestro de nadie, así que solo se valida el padre y la unicidad entre hermanos.
func (uc *CategoryUseCase) Create(ctx context.Context, tenantID int64, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	var out *dto.CategoryResponse
	err := uc.tx.Run(ctx, func(repo repository.CategoryRepository) error {
		if in.ParentID != nil {
			parent, err := repo.GetByID(*in.ParentID, tenantID)
			if err != nil {
				return err
			}
			if parent == nil {
				return domain.ErrNotFound
			}
		}
		taken, err := siblingNameTaken(repo, tenantID, in.ParentID, in.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.Conflictf("ya existe una categoría llamada %q en este nivel", in.Name)
		}
		now := time.Now()
		cat := &entity.Category{
			TenantID:    tenantID,
			Name:        in.Name,
			Description: in.Description,
			ParentID:    in.ParentID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repo.Create(cat); err != nil {
			return err
		}
		resp, err := uc.detailResponse(repo, cat)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene una categoría del tenant con sus derivados: conteo de productos,
// nombre del padre e hijos directos (id/nombre).
func (uc *CategoryUseCase) GetByID(id, tenantID int64) (*dto.CategoryResponse, error) {
	cat, err := uc.repo.GetByID(id, tenantID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	return uc.detailResponse(uc.repo, cat)
}

// List devuelve el listado plano del tenant, filtrable por substring del nombre
// (sin distinguir mayúsculas) y por padre exacto, ordenado por nombre.
func (uc *CategoryUseCase) List(tenantID int64, search string, parent ParentFilter) (*dto.CategoryListResponse, error) {
	rows, err := uc.repo.ListAll(tenantID)
	if err != nil {
		return nil, err
	}
	counts, err := uc.repo.CountProductsGrouped(tenantID)
	if err != nil {
		return nil, err
	}
	idx := newTreeIndex(rows)
	needle := strings.ToLower(search)
	filtered := make([]*entity.Category, 0, len(rows))
	for _, c := range rows {
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		if parent.Set {
			if parent.ID == nil {
				if c.ParentID != nil {
					continue
				}
			} else if c.ParentID == nil || *c.ParentID != *parent.ID {
				continue
			}
		}
		filtered = append(filtered, c)
	}
	sortByName(filtered)
	items := make([]dto.CategoryResponse, 0, len(filtered))
	for _, c := range filtered {
		items = append(items, dto.CategoryResponse{
			ID:           c.ID,
			TenantID:     c.TenantID,
			Name:         c.Name,
			Description:  c.Description,
			ParentID:     c.ParentID,
			ProductCount: counts[c.ID],
			Children:     idx.childRefs(c.ID),
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		})
	}
	return &dto.CategoryListResponse{Items: items, Total: len(items)}, nil
}

// Tree materializa el bosque completo del tenant: raíces ordenadas por nombre y,
// recursivamente, los hijos de cada nodo. Todo nodo lleva Children aunque esté vacío.
func (uc *CategoryUseCase) Tree(tenantID int64) (*dto.CategoryTreeResponse, error) {
	rows, err := uc.repo.ListAll(tenantID)
	if err != nil {
		return nil, err
	}
	counts, err := uc.repo.CountProductsGrouped(tenantID)
	if err != nil {
		return nil, err
	}
	idx := newTreeIndex(rows)
	roots := make([]*dto.CategoryTreeNode, 0, len(idx.roots))
	for _, r := range idx.roots {
		roots = append(roots, idx.buildNode(r, counts))
	}
	return &dto.CategoryTreeResponse{Roots: roots}, nil
}

// Path devuelve el breadcrumb de la raíz a la categoría, ambos inclusive.
// Un id inexistente (o de otro tenant) responde ErrNotFound, igual que el resto
// de lecturas puntuales.
func (uc *CategoryUseCase) Path(id, tenantID int64) (*dto.CategoryPathResponse, error) {
	rows, err := uc.repo.ListAll(tenantID)
	if err != nil {
		return nil, err
	}
	idx := newTreeIndex(rows)
	cur, ok := idx.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	var chain []dto.CategoryRef
	for steps := 0; cur != nil; steps++ {
		if steps > len(rows) {
			return nil, fmt.Errorf("resolver ruta de la categoría %d: la cadena de ancestros excede el total de categorías, jerarquía corrupta", id)
		}
		chain = append(chain, dto.CategoryRef{ID: cur.ID, Name: cur.Name})
		if cur.ParentID == nil {
			break
		}
		// Un padre que no aparece en el set del tenant termina la caminata:
		// el breadcrumb parcial sigue siendo válido hacia arriba.
		cur = idx.byID[*cur.ParentID]
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return &dto.CategoryPathResponse{Path: chain}, nil
}

// Update aplica un patch parcial (nombre, descripción y/o padre) validando los
// invariantes: el padre nuevo debe existir en el tenant, no puede ser la propia
// categoría ni un descendiente (ciclo), y el nombre resultante no puede chocar
// con un hermano del grupo destino.
func (uc *CategoryUseCase) Update(ctx context.Context, id, tenantID int64, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	var out *dto.CategoryResponse
	err := uc.tx.Run(ctx, func(repo repository.CategoryRepository) error {
		cat, err := repo.GetByID(id, tenantID)
		if err != nil {
			return err
		}
		if cat == nil {
			return domain.ErrNotFound
		}

		newParent := cat.ParentID
		if in.ParentID.Present {
			if in.ParentID.Value == nil {
				newParent = nil
			} else {
				np := *in.ParentID.Value
				if np == id {
					return domain.Conflictf("la categoría %q no puede ser su propio padre", cat.Name)
				}
				if cat.ParentID == nil || *cat.ParentID != np {
					parent, err := repo.GetByID(np, tenantID)
					if err != nil {
						return err
					}
					if parent == nil {
						return domain.ErrNotFound
					}
					cycle, err := wouldCreateCycle(repo, tenantID, id, np)
					if err != nil {
						return err
					}
					if cycle {
						return domain.Conflictf("mover %q bajo la categoría %d crearía un ciclo en la jerarquía", cat.Name, np)
					}
				}
				newParent = &np
			}
		}

		newName := cat.Name
		if in.Name != nil {
			newName = *in.Name
		}
		if newName != cat.Name || !sameParent(cat.ParentID, newParent) {
			taken, err := siblingNameTaken(repo, tenantID, newParent, newName, id)
			if err != nil {
				return err
			}
			if taken {
				return domain.Conflictf("ya existe una categoría llamada %q en este nivel", newName)
			}
		}

		cat.Name = newName
		if in.Description != nil {
			cat.Description = *in.Description
		}
		cat.ParentID = newParent
		cat.UpdatedAt = time.Now()
		if err := repo.Update(cat); err != nil {
			return err
		}
		resp, err := uc.detailResponse(repo, cat)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Move reubica la categoría bajo otro padre (nil = a la raíz). Es azúcar sobre
// Update tocando solo el padre; la validación es idéntica.
func (uc *CategoryUseCase) Move(ctx context.Context, id, tenantID int64, newParentID *int64) (*dto.CategoryResponse, error) {
	return uc.Update(ctx, id, tenantID, dto.UpdateCategoryRequest{
		ParentID: dto.OptionalInt64{Present: true, Value: newParentID},
	})
}

// Delete elimina físicamente una categoría. Solo procede si no tiene productos
// activos ni subcategorías; el mensaje de rechazo incluye el conteo que bloquea.
func (uc *CategoryUseCase) Delete(ctx context.Context, id, tenantID int64) (*dto.DeleteCategoryResponse, error) {
	var out *dto.DeleteCategoryResponse
	err := uc.tx.Run(ctx, func(repo repository.CategoryRepository) error {
		cat, err := repo.GetByID(id, tenantID)
		if err != nil {
			return err
		}
		if cat == nil {
			return domain.ErrNotFound
		}
		count, err := repo.CountProducts(id, tenantID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.Conflictf("no se puede eliminar la categoría %q: tiene %d producto(s); muévalos o elimínelos primero", cat.Name, count)
		}
		children, err := repo.ListByParent(tenantID, &id)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return domain.Conflictf("no se puede eliminar la categoría %q: tiene %d subcategoría(s); elimínelas primero", cat.Name, len(children))
		}
		// Los productos con tombstone no cuentan para la regla pero siguen
		// referenciando la fila; se desvinculan para que el FK no frene el DELETE.
		if err := repo.DetachDeletedProducts(id, tenantID); err != nil {
			return err
		}
		if err := repo.Delete(id, tenantID); err != nil {
			return err
		}
		out = &dto.DeleteCategoryResponse{ID: cat.ID, Name: cat.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Stats calcula agregados del catálogo del tenant. Lectura pura, sin invariantes.
func (uc *CategoryUseCase) Stats(tenantID int64) (*dto.CategoryStatsResponse, error) {
	rows, err := uc.repo.ListAll(tenantID)
	if err != nil {
		return nil, err
	}
	counts, err := uc.repo.CountProductsGrouped(tenantID)
	if err != nil {
		return nil, err
	}
	stats := &dto.CategoryStatsResponse{
		TotalCategories:        len(rows),
		AvgProductsPerCategory: decimal.Zero,
	}
	var totalProducts int64
	for _, c := range rows {
		if c.ParentID == nil {
			stats.RootCategories++
		}
		if counts[c.ID] > 0 {
			stats.CategoriesWithProducts++
		}
		totalProducts += int64(counts[c.ID])
	}
	if len(rows) > 0 {
		stats.AvgProductsPerCategory = decimal.NewFromInt(totalProducts).
			Div(decimal.NewFromInt(int64(len(rows)))).Round(2)
	}
	return stats, nil
}

// detailResponse arma la respuesta de detalle con los derivados de la categoría.
func (uc *CategoryUseCase) detailResponse(repo repository.CategoryRepository, cat *entity.Category) (*dto.CategoryResponse, error) {
	count, err := repo.CountProducts(cat.ID, cat.TenantID)
	if err != nil {
		return nil, err
	}
	parentName := ""
	if cat.ParentID != nil {
		parent, err := repo.GetByID(*cat.ParentID, cat.TenantID)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			parentName = parent.Name
		}
	}
	children, err := repo.ListByParent(cat.TenantID, &cat.ID)
	if err != nil {
		return nil, err
	}
	sortByName(children)
	refs := make([]dto.CategoryRef, 0, len(children))
	for _, ch := range children {
		refs = append(refs, dto.CategoryRef{ID: ch.ID, Name: ch.Name})
	}
	return &dto.CategoryResponse{
		ID:           cat.ID,
		TenantID:     cat.TenantID,
		Name:         cat.Name,
		Description:  cat.Description,
		ParentID:     cat.ParentID,
		ParentName:   parentName,
		ProductCount: count,
		Children:     refs,
		CreatedAt:    cat.CreatedAt,
		UpdatedAt:    cat.UpdatedAt,
	}, nil
}

// siblingNameTaken informa si otra categoría del mismo tenant y mismo grupo de
// hermanos (raíz incluida) ya usa el nombre, excluyendo excludeID para que
// renombrar un nodo a su nombre actual no choque consigo mismo.
func siblingNameTaken(repo repository.CategoryRepository, tenantID int64, parentID *int64, name string, excludeID int64) (bool, error) {
	siblings, err := repo.ListByParent(tenantID, parentID)
	if err != nil {
		return false, err
	}
	for _, s := range siblings {
		if s.ID != excludeID && s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// wouldCreateCycle determina si colgar categoryID bajo proposedParentID lo haría
// ancestro de sí mismo. Camina hacia arriba desde el padre propuesto sobre un
// índice en memoria del set plano del tenant; el límite de pasos es defensivo
// por si un write fuera de banda rompió la aciclicidad.
func wouldCreateCycle(repo repository.CategoryRepository, tenantID, categoryID, proposedParentID int64) (bool, error) {
	rows, err := repo.ListAll(tenantID)
	if err != nil {
		return false, err
	}
	idx := newTreeIndex(rows)
	cur := idx.byID[proposedParentID]
	for steps := 0; cur != nil; steps++ {
		if steps > len(rows) {
			return false, fmt.Errorf("verificar ciclo para la categoría %d: la cadena de ancestros excede el total de categorías, jerarquía corrupta", categoryID)
		}
		if cur.ID == categoryID {
			return true, nil
		}
		if cur.ParentID == nil {
			return false, nil
		}
		cur = idx.byID[*cur.ParentID]
	}
	return false, nil
}

// treeIndex es la representación de adyacencia del bosque de un tenant: arena por
// id más multimapa padre→hijos, construida una sola vez por operación de lectura
// en lugar de re-derivarla con consultas anidadas.
type treeIndex struct {
	byID     map[int64]*entity.Category
	roots    []*entity.Category
	children map[int64][]*entity.Category
}

func newTreeIndex(rows []*entity.Category) *treeIndex {
	idx := &treeIndex{
		byID:     make(map[int64]*entity.Category, len(rows)),
		children: make(map[int64][]*entity.Category),
	}
	for _, c := range rows {
		idx.byID[c.ID] = c
	}
	for _, c := range rows {
		if c.ParentID == nil {
			idx.roots = append(idx.roots, c)
		} else {
			idx.children[*c.ParentID] = append(idx.children[*c.ParentID], c)
		}
	}
	sortByName(idx.roots)
	for _, group := range idx.children {
		sortByName(group)
	}
	return idx
}

// childRefs devuelve las referencias (id/nombre) de las hijas directas, ya
// ordenadas por nombre. Nunca nil: un nodo hoja serializa children como [].
func (idx *treeIndex) childRefs(id int64) []dto.CategoryRef {
	refs := make([]dto.CategoryRef, 0, len(idx.children[id]))
	for _, ch := range idx.children[id] {
		refs = append(refs, dto.CategoryRef{ID: ch.ID, Name: ch.Name})
	}
	return refs
}

// buildNode arma recursivamente el nodo y sus descendientes. Children nunca es
// nil para que serialice como [] y no como ausente.
func (idx *treeIndex) buildNode(cat *entity.Category, counts map[int64]int) *dto.CategoryTreeNode {
	node := &dto.CategoryTreeNode{
		ID:           cat.ID,
		Name:         cat.Name,
		Description:  cat.Description,
		ParentID:     cat.ParentID,
		ProductCount: counts[cat.ID],
		Children:     make([]*dto.CategoryTreeNode, 0, len(idx.children[cat.ID])),
	}
	for _, ch := range idx.children[cat.ID] {
		node.Children = append(node.Children, idx.buildNode(ch, counts))
	}
	return node
}

// sortByName ordena in situ por nombre con colación española ignorando mayúsculas
// (á, ñ, etc. quedan donde un usuario espera; byte a byte no).
func sortByName(cats []*entity.Category) {
	coll := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(cats, func(i, j int) bool {
		return coll.CompareString(cats[i].Name, cats[j].Name) < 0
	})
}

// sameParent compara dos punteros de padre por valor.
func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
