package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kirana-admin-api/internal/domain/analytics"
)

// DashboardStats fila de la vista dashboard_stats.
type DashboardStats struct {
	TotalOrders      int
	PendingOrders    int
	CompletedOrders  int
	TotalRevenue     decimal.Decimal
	TotalCustomers   int
	LowStockProducts int
}

// AnalyticsRepository consultas de solo lectura que alimentan la agregación.
// Los rangos son inclusivos en ambos extremos.
type AnalyticsRepository interface {
	ListOrderFacts(ctx context.Context, storeID string, from, to time.Time) ([]analytics.OrderFact, error)
	ListItemFacts(ctx context.Context, storeID string, from, to time.Time) ([]analytics.ItemFact, error)
	// GetDashboardStats devuelve ceros si la tienda no tiene filas.
	GetDashboardStats(ctx context.Context, storeID string) (DashboardStats, error)
	// ListLowStock productos disponibles con stock < threshold, máximo limit.
	ListLowStock(ctx context.Context, storeID string, threshold, limit int) ([]LowStockProduct, error)
}

// LowStockProduct producto con poco stock (alertas).
type LowStockProduct struct {
	ID            string
	Name          string
	StockQuantity int
}
