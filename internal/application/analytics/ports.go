package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
)

// ReportPDFGenerator genera la versión PDF de un reporte de ventas.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, storeName string, report *dto.ReportResponse, generatedAt time.Time) ([]byte, error)
}
