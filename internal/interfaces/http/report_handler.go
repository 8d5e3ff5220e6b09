package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/application/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

// ReportHandler reportes de valorización, exportación de bitácora y reposición.
type ReportHandler struct {
	reports       *inventory.ReportUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *inventory.ReportUseCase, replenishment *inventory.ReplenishmentUseCase) *ReportHandler {
	return &ReportHandler{reports: reports, replenishment: replenishment}
}

// Valuation godoc
// @Summary      Valorización FIFO del ítem
// @Description  Entradas, salidas y costo FIFO consumido en el periodo (por defecto últimos 30 días).
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del ítem"
// @Param        from  query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Success      200  {object}  dto.ValuationReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/valuation [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	from, to, ok := dateRange(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC3339 o YYYY-MM-DD"})
	}
	out, err := h.reports.Valuation(c.UserContext(), c.Params("id"), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ValuationPDF godoc
// @Summary      Valorización FIFO en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id    path   string  true   "ID del ítem"
// @Param        from  query  string  false  "Desde"
// @Param        to    query  string  false  "Hasta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/report.pdf [get]
func (h *ReportHandler) ValuationPDF(c *fiber.Ctx) error {
	from, to, ok := dateRange(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC3339 o YYYY-MM-DD"})
	}
	id := c.Params("id")
	b, err := h.reports.ValuationPDF(c.UserContext(), id, from, to)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="valorizacion-%s.pdf"`, id))
	return c.Send(b)
}

// ExportAdjustments godoc
// @Summary      Exportar bitácora a Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/adjustments.xlsx [get]
func (h *ReportHandler) ExportAdjustments(c *fiber.Ctx) error {
	id := c.Params("id")
	b, err := h.reports.ExportAdjustments(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ajustes-%s.xlsx"`, id))
	return c.Send(b)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Ítems en o bajo su mínimo con la cantidad sugerida para llegar a 1.5 × mínimo,
// @Description  ordenados por déficit relativo.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "fertilizer | insecticide (vacío = todas)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/replenishment-list [get]
func (h *ReportHandler) GetReplenishmentList(c *fiber.Ctx) error {
	category := entity.Category(c.Query("category"))
	if category != "" && !category.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "category debe ser fertilizer o insecticide"})
	}
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), category)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
