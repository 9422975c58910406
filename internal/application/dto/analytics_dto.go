package dto

import "github.com/shopspring/decimal"

// DateRangeQuery rango YYYY-MM-DD de los endpoints de analítica. Vacío: últimos 30 días.
type DateRangeQuery struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// AnalyticsOverviewResponse respuesta de GET /api/analytics/overview.
type AnalyticsOverviewResponse struct {
	TotalOrders       int             `json:"totalOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalCustomers    int             `json:"totalCustomers"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	GrowthPercentage  decimal.Decimal `json:"growthPercentage"`
	TopCategory       string          `json:"topCategory"`
}

// TrendPointDTO un día de una serie.
type TrendPointDTO struct {
	Date  string          `json:"date"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// TopProductDTO producto más vendido.
type TopProductDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	TotalSales   int             `json:"totalSales"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	OrderCount   int             `json:"orderCount"`
}

// CategoryBreakdownDTO ventas por categoría.
type CategoryBreakdownDTO struct {
	Category     string          `json:"category"`
	TotalSales   int             `json:"totalSales"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	OrderCount   int             `json:"orderCount"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// ReportSummaryDTO totales del reporte.
type ReportSummaryDTO struct {
	TotalOrders       int             `json:"totalOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalCustomers    int             `json:"totalCustomers"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// ReportResponse respuesta de GET /api/reports/:period.
type ReportResponse struct {
	Period            string                 `json:"period"`
	StartDate         string                 `json:"startDate"`
	EndDate           string                 `json:"endDate"`
	Summary           ReportSummaryDTO       `json:"summary"`
	TopProducts       []TopProductDTO        `json:"topProducts"`
	CategoryBreakdown []CategoryBreakdownDTO `json:"categoryBreakdown"`
	OrderTrends       []TrendPointDTO        `json:"orderTrends"`
	RevenueTrends     []TrendPointDTO        `json:"revenueTrends"`
}

// ReportFile archivo exportado.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
