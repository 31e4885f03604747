package http

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain"
)

// CategoryHandler maneja las peticiones HTTP del árbol de categorías (protegido).
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "tenant_id requerido"})
	}
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msg := validateCategoryFields(&in.Name, &in.Description); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
	}
	out, err := h.uc.Create(c.UserContext(), tenantID, in)
	if err != nil {
		return categoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoría por ID (con conteo de productos e hijos directos)
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un entero"})
	}
	out, err := h.uc.GetByID(id, tenantID)
	if err != nil {
		return categoryError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar categorías (plano)
// @Description  Filtros: search (substring, sin mayúsculas) y parent_id (entero, o "null" para solo raíces).
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Substring del nombre"
// @Param        parent_id  query  string  false  "ID del padre o 'null' para raíces"
// @Success      200  {object}  dto.CategoryListResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var parent usecase.ParentFilter
	if raw := c.Query("parent_id"); raw != "" {
		parent.Set = true
		if raw != "null" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parent_id debe ser un entero o 'null'"})
			}
			parent.ID = &id
		}
	}
	out, err := h.uc.List(tenantID, c.Query("search"), parent)
	if err != nil {
		return categoryError(c, err)
	}
	return c.JSON(out)
}

// Tree godoc
// @Summary      Árbol completo de categorías del tenant
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CategoryTreeResponse
// @Router       /api/categories/tree [get]
func (h *CategoryHandler) Tree(c *fiber.Ctx) error {
	out, err := h.uc.Tree(GetTenantID(c))
	if err != nil {
		return categoryError(c, err)
	}
	return c.JSON(out)
}

// Path godoc
// @Summary      Breadcrumb de la raíz a la categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryPathResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/path [get]
func (h *CategoryHandler) Path(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un entero"})
	}
	out, err := h.uc.Path(id, GetTenantID(c))
	if err != nil {
		return categoryError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Agregados del catálogo del tenant
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CategoryStatsResponse
// @Router       /api/categories/stats [get]
func (h *CategoryHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(GetTenantID(c))
	if err != nil {
		return categoryError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar categoría (nombre, descripción y/o padre)
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Patch parcial; parent_id null mueve a la raíz"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un entero"})
	}
	var in dto.UpdateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msg := validateCategoryFields(in.Name, in.Description); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
	}
	out, err := h.uc.Update(c.UserContext(), id, GetTenantID(c), in)
	if err != nil {
		return categoryError(c, err)
	}
	return c.JSON(out)
}

// Move godoc
// @Summary      Reubicar categoría bajo otro padre (null = a la raíz)
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la categoría"
// @Param        body  body  dto.MoveCategoryRequest  true  "Nuevo padre"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/move [put]
func (h *CategoryHandler) Move(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un entero"})
	}
	var in dto.MoveCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Move(c.UserContext(), id, GetTenantID(c), in.ParentID)
	if err != nil {
		return categoryError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar categoría (solo hojas sin productos)
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.DeleteCategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un entero"})
	}
	out, err := h.uc.Delete(c.UserContext(), id, GetTenantID(c))
	if err != nil {
		return categoryError(c, err)
	}
	return c.JSON(out)
}

// validateCategoryFields valida longitudes de nombre (2–255) y descripción (≤500).
// Acepta punteros nil para los patch parciales.
func validateCategoryFields(name, description *string) string {
	if name != nil {
		if n := utf8.RuneCountInString(*name); n < 2 || n > 255 {
			return "name debe tener entre 2 y 255 caracteres"
		}
	}
	if description != nil && utf8.RuneCountInString(*description) > 500 {
		return "description no puede superar 500 caracteres"
	}
	return ""
}

// categoryError mapea errores de dominio a códigos HTTP. ConflictError conserva
// el mensaje con el conteo que bloquea, así el cliente no tiene que re-consultar.
func categoryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "categoría no encontrada"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe una categoría con ese nombre en este nivel"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
