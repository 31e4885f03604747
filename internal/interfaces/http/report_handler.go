package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/pdf"
)

// ReportHandler expone el reporte PDF del catálogo de categorías (protegido).
type ReportHandler struct {
	categoryUC *usecase.CategoryUseCase
	tenantRepo repository.TenantRepository
	generator  *pdf.CategoryReportGenerator
}

// NewReportHandler construye el handler de reportes.
func NewReportHandler(categoryUC *usecase.CategoryUseCase, tenantRepo repository.TenantRepository, generator *pdf.CategoryReportGenerator) *ReportHandler {
	return &ReportHandler{categoryUC: categoryUC, tenantRepo: tenantRepo, generator: generator}
}

// Categories godoc
// @Summary      Reporte PDF del catálogo de categorías
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/categories [get]
func (h *ReportHandler) Categories(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	tenant, err := h.tenantRepo.GetByID(tenantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	tenantName := ""
	if tenant != nil {
		tenantName = tenant.Name
	}
	tree, err := h.categoryUC.Tree(tenantID)
	if err != nil {
		return categoryError(c, err)
	}
	stats, err := h.categoryUC.Stats(tenantID)
	if err != nil {
		return categoryError(c, err)
	}
	doc, err := h.generator.GenerateCategoryReport(tenantName, tree, stats)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="categorias.pdf"`)
	return c.Send(doc)
}
