package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
)

func TestGenerateReportPDF(t *testing.T) {
	gen := NewMarotoPDFGenerator()
	at := time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)

	report := &dto.ReportResponse{
		Period:    "weekly",
		StartDate: "2026-03-02",
		EndDate:   "2026-03-08",
		Summary: dto.ReportSummaryDTO{
			TotalOrders:       42,
			TotalRevenue:      decimal.RequireFromString("18450.50"),
			TotalCustomers:    17,
			AverageOrderValue: decimal.RequireFromString("439.30"),
		},
		TopProducts: []dto.TopProductDTO{
			{ID: "p1", Name: "Toor Dal 1kg", Category: "Pulses", TotalSales: 30, TotalRevenue: decimal.NewFromInt(4500), OrderCount: 12},
			{ID: "p2", Name: "Basmati Rice 5kg", Category: "Grains", TotalSales: 8, TotalRevenue: decimal.NewFromInt(5200), OrderCount: 8},
		},
		CategoryBreakdown: []dto.CategoryBreakdownDTO{
			{Category: "Pulses", TotalSales: 30, TotalRevenue: decimal.NewFromInt(4500), OrderCount: 12, Percentage: decimal.RequireFromString("24.39")},
			{Category: "Grains", TotalSales: 8, TotalRevenue: decimal.NewFromInt(5200), OrderCount: 8, Percentage: decimal.RequireFromString("28.18")},
		},
	}

	t.Run("reporte con datos", func(t *testing.T) {
		out, err := gen.GenerateReportPDF(context.Background(), "Sharma Kirana", report, at)
		require.NoError(t, err)
		require.NotEmpty(t, out)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	})

	t.Run("reporte vacío", func(t *testing.T) {
		empty := &dto.ReportResponse{Period: "daily", StartDate: "2026-03-09", EndDate: "2026-03-09"}
		out, err := gen.GenerateReportPDF(context.Background(), "Sharma Kirana", empty, at)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	})
}
