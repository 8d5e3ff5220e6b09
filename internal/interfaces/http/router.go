package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/teaestate-api/internal/application/inventory"
	"github.com/jhoicas/teaestate-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC          *inventory.ItemUseCase
	AdjustUC        *inventory.AdjustStockUseCase
	ReportUC        *inventory.ReportUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	// JWTSecret vacío deja la API sin autenticación (desarrollo / red interna).
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	authEnabled := deps.JWTSecret != ""
	if authEnabled {
		api.Use(AuthMiddleware(deps.JWTSecret))
	}
	// role restringe la ruta solo si la autenticación está activa.
	role := func(roles ...string) fiber.Handler {
		if !authEnabled {
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		return RequireRole(roles...)
	}
	managers := role(jwt.RoleAdmin, jwt.RoleSupervisor)

	itemHandler := NewItemHandler(deps.ItemUC, deps.AdjustUC)
	reportHandler := NewReportHandler(deps.ReportUC, deps.ReplenishmentUC)

	items := api.Group("/items")
	items.Post("/", managers, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Patch("/:id", managers, itemHandler.Update)
	items.Delete("/:id", role(jwt.RoleAdmin), itemHandler.Delete)
	items.Post("/:id/adjust", itemHandler.Adjust)
	items.Get("/:id/adjustments", itemHandler.ListAdjustments)
	items.Get("/:id/adjustments.xlsx", reportHandler.ExportAdjustments)
	items.Get("/:id/valuation", reportHandler.Valuation)
	items.Get("/:id/report.pdf", reportHandler.ValuationPDF)

	api.Get("/replenishment-list", reportHandler.GetReplenishmentList)
}
