package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/auth"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	SupplierUC *usecase.SupplierUseCase
	AuthUC     *auth.AuthUseCase
	Reports    *ReportHandler
	JWTSecret  string
}

// Router registra las rutas de la API. Las lecturas de catálogo están abiertas a
// cualquier rol autenticado del tenant; las mutaciones exigen admin o bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	canWrite := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Alta de usuarios del tenant (solo admin)
	authGroup.Post("/users", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin), authHandler.RegisterUser)

	// Categories (protegido). Las rutas fijas van antes de /:id.
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/tree", categoryHandler.Tree)
	categories.Get("/stats", categoryHandler.Stats)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", canWrite, categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Get("/:id/path", categoryHandler.Path)
	categories.Put("/:id", canWrite, categoryHandler.Update)
	categories.Put("/:id/move", canWrite, categoryHandler.Move)
	categories.Delete("/:id", canWrite, categoryHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", canWrite, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", canWrite, productHandler.Update)
	products.Delete("/:id", canWrite, productHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", canWrite, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", canWrite, supplierHandler.Update)
	suppliers.Delete("/:id", canWrite, supplierHandler.Delete)

	// Reports (protegido)
	if deps.Reports != nil {
		reports := protected.Group("/reports")
		reports.Get("/categories", deps.Reports.Categories)
	}
}
