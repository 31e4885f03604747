package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	apphttp "github.com/jhoicas/catalogo-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorio en memoria para probar el handler contra el caso de uso real
// ──────────────────────────────────────────────────────────────────────────────

type memCategoryRepo struct {
	seq    int64
	cats   map[int64]*entity.Category
	counts map[int64]int
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{cats: make(map[int64]*entity.Category), counts: make(map[int64]int)}
}

func copyCat(c *entity.Category) *entity.Category {
	cp := *c
	if c.ParentID != nil {
		p := *c.ParentID
		cp.ParentID = &p
	}
	return &cp
}

func (r *memCategoryRepo) Create(category *entity.Category) error {
	r.seq++
	category.ID = r.seq
	r.cats[category.ID] = copyCat(category)
	return nil
}

func (r *memCategoryRepo) GetByID(id, tenantID int64) (*entity.Category, error) {
	c, ok := r.cats[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	return copyCat(c), nil
}

func (r *memCategoryRepo) ListByParent(tenantID int64, parentID *int64) ([]*entity.Category, error) {
	var list []*entity.Category
	for _, c := range r.cats {
		if c.TenantID != tenantID {
			continue
		}
		if parentID == nil && c.ParentID == nil ||
			parentID != nil && c.ParentID != nil && *c.ParentID == *parentID {
			list = append(list, copyCat(c))
		}
	}
	return list, nil
}

func (r *memCategoryRepo) ListAll(tenantID int64) ([]*entity.Category, error) {
	var list []*entity.Category
	for _, c := range r.cats {
		if c.TenantID == tenantID {
			list = append(list, copyCat(c))
		}
	}
	return list, nil
}

func (r *memCategoryRepo) Update(category *entity.Category) error {
	if _, ok := r.cats[category.ID]; !ok {
		return domain.ErrNotFound
	}
	r.cats[category.ID] = copyCat(category)
	return nil
}

func (r *memCategoryRepo) Delete(id, tenantID int64) error {
	c, ok := r.cats[id]
	if !ok || c.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.cats, id)
	return nil
}

func (r *memCategoryRepo) DetachDeletedProducts(categoryID, tenantID int64) error {
	return nil
}

func (r *memCategoryRepo) CountProducts(categoryID, tenantID int64) (int, error) {
	return r.counts[categoryID], nil
}

func (r *memCategoryRepo) CountProductsGrouped(tenantID int64) (map[int64]int, error) {
	out := make(map[int64]int)
	for id, n := range r.counts {
		if c, ok := r.cats[id]; ok && c.TenantID == tenantID {
			out[id] = n
		}
	}
	return out, nil
}

type memTx struct{ repo repository.CategoryRepository }

func (t memTx) Run(ctx context.Context, fn func(repo repository.CategoryRepository) error) error {
	return fn(t.repo)
}

// buildCategoryApp monta las rutas de categorías igual que el router real:
// auth JWT delante y las rutas fijas (/tree, /stats) antes que /:id.
func buildCategoryApp(repo *memCategoryRepo) *fiber.App {
	uc := usecase.NewCategoryUseCase(repo, memTx{repo: repo})
	h := apphttp.NewCategoryHandler(uc)

	app := fiber.New()
	g := app.Group("/api/categories", apphttp.AuthMiddleware(testJWTSecret))
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/tree", h.Tree)
	g.Get("/stats", h.Stats)
	g.Get("/:id", h.GetByID)
	g.Get("/:id/path", h.Path)
	g.Put("/:id/move", h.Move)
	g.Put("/:id", h.Update)
	g.Delete("/:id", h.Delete)
	return app
}

// doJSON lanza una petición autenticada con cuerpo JSON opcional.
func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	if body != "" {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeCategory(t *testing.T, resp *http.Response) dto.CategoryResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.CategoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryHandler_CreateYObtener(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())

	resp := doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Electrónica","description":"Dispositivos"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeCategory(t, resp)
	assert.Equal(t, "Electrónica", created.Name)
	assert.Nil(t, created.ParentID)

	resp = doJSON(t, app, http.MethodGet, "/api/categories/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeCategory(t, resp)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Dispositivos", got.Description)
}

func TestCategoryHandler_NombreCorto_400(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	resp := doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"X"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestCategoryHandler_DuplicadoEntreHermanos_409(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	resp := doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Electrónica"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Electrónica"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decodeError(t, resp)
	assert.Equal(t, "CONFLICT", errBody.Code)
	assert.Contains(t, errBody.Message, "Electrónica",
		"el mensaje de conflicto debe nombrar la categoría que choca")
}

// El detalle de una hoja serializa children como [], igual que los nodos del árbol.
func TestCategoryHandler_GetHoja_ChildrenComoListaVacia(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Electrónica"}`).Body.Close()

	resp := doJSON(t, app, http.MethodGet, "/api/categories/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	require.Contains(t, raw, "children", "el detalle debe incluir children aunque no haya hijas")
	assert.JSONEq(t, `[]`, string(raw["children"]))
}

func TestCategoryHandler_GetDesconocido_404(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	resp := doJSON(t, app, http.MethodGet, "/api/categories/99", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}

func TestCategoryHandler_IdNoNumerico_400(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	resp := doJSON(t, app, http.MethodGet, "/api/categories/abc", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCategoryHandler_ListParentIdNull_SoloRaices(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Electrónica"}`).Body.Close()
	doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Portátiles","parent_id":1}`).Body.Close()

	resp := doJSON(t, app, http.MethodGet, "/api/categories/?parent_id=null", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var list dto.CategoryListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Electrónica", list.Items[0].Name)
}

func TestCategoryHandler_ParentIdInvalido_400(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	resp := doJSON(t, app, http.MethodGet, "/api/categories/?parent_id=abc", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCategoryHandler_TreeConChildrenVacio(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Electrónica"}`).Body.Close()

	resp := doJSON(t, app, http.MethodGet, "/api/categories/tree", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	// children debe serializarse como [] aunque la raíz no tenga hijos
	assert.JSONEq(t, `[{"id":1,"name":"Electrónica","parent_id":null,"product_count":0,"children":[]}]`, string(raw["tree"]))
}

func TestCategoryHandler_Path(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Electrónica"}`).Body.Close()
	doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Portátiles","parent_id":1}`).Body.Close()

	resp := doJSON(t, app, http.MethodGet, "/api/categories/2/path", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var out dto.CategoryPathResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Path, 2)
	assert.Equal(t, "Electrónica", out.Path[0].Name)
	assert.Equal(t, "Portátiles", out.Path[1].Name)
}

// El patch es tri-estado: omitir parent_id no toca el padre; null explícito
// mueve a la raíz.
func TestCategoryHandler_UpdateTriEstadoParentId(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Electrónica"}`).Body.Close()
	doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Portátiles","parent_id":1}`).Body.Close()

	// renombrar sin tocar el padre
	resp := doJSON(t, app, http.MethodPut, "/api/categories/2", `{"name":"Laptops"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeCategory(t, resp)
	assert.Equal(t, "Laptops", out.Name)
	require.NotNil(t, out.ParentID, "omitir parent_id no debe desanclar la categoría")
	assert.Equal(t, int64(1), *out.ParentID)

	// null explícito mueve a la raíz
	resp = doJSON(t, app, http.MethodPut, "/api/categories/2", `{"parent_id":null}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out = decodeCategory(t, resp)
	assert.Nil(t, out.ParentID)
}

func TestCategoryHandler_MoveConCiclo_409(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"A"}`).Body.Close()
	doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"B","parent_id":1}`).Body.Close()

	resp := doJSON(t, app, http.MethodPut, "/api/categories/1/move", `{"parent_id":2}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decodeError(t, resp)
	assert.Equal(t, "CONFLICT", errBody.Code)
	assert.Contains(t, errBody.Message, "ciclo")
}

func TestCategoryHandler_DeleteConProductos_409ConConteo(t *testing.T) {
	repo := newMemCategoryRepo()
	app := buildCategoryApp(repo)
	doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Electrónica"}`).Body.Close()
	repo.counts[1] = 3

	resp := doJSON(t, app, http.MethodDelete, "/api/categories/1", "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decodeError(t, resp)
	assert.Equal(t, "CONFLICT", errBody.Code)
	assert.Contains(t, errBody.Message, "3", "el mensaje debe incluir el conteo de productos que bloquea")
}

func TestCategoryHandler_DeleteHoja_200(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	doJSON(t, app, http.MethodPost, "/api/categories/", `{"name":"Electrónica"}`).Body.Close()

	resp := doJSON(t, app, http.MethodDelete, "/api/categories/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var out dto.DeleteCategoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, int64(1), out.ID)
	assert.Equal(t, "Electrónica", out.Name)
}

func TestCategoryHandler_SinToken_401(t *testing.T) {
	app := buildCategoryApp(newMemCategoryRepo())
	req := httptest.NewRequest(http.MethodGet, "/api/categories/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
