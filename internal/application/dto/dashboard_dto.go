package dto

import "github.com/shopspring/decimal"

// DashboardStatsResponse respuesta de GET /api/dashboard/stats.
type DashboardStatsResponse struct {
	TotalOrders      int             `json:"totalOrders"`
	PendingOrders    int             `json:"pendingOrders"`
	CompletedOrders  int             `json:"completedOrders"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalCustomers   int             `json:"totalCustomers"`
	LowStockProducts int             `json:"lowStockProducts"`
}
