package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/kirana-admin-api/internal/application/analytics"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
)

// ReportHandler reportes por período y su descarga.
type ReportHandler struct {
	uc *appanalytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Generate godoc
// @Summary      Reporte del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        period  path  string  true  "daily | weekly | monthly"
// @Success      200  {object}  dto.ReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/{period} [get]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	out, err := h.uc.Generate(c.UserContext(), GetStoreID(c), c.Params("period"))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.ReportData)
	return c.JSON(out)
}

// Export godoc
// @Summary      Descargar reporte
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/pdf
// @Param        period  path   string  true   "daily | weekly | monthly"
// @Param        format  query  string  false  "csv | pdf"  default(csv)
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/{period}/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	file, err := h.uc.Export(c.UserContext(), GetStoreID(c), c.Params("period"), c.Query("format", appanalytics.FormatCSV))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", strconv.Quote(file.Filename)))
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(file.Content)
}
