package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kirana-admin-api/internal/domain/analytics"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para dashboard, analítica y reportes.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// ListOrderFacts pedidos de la tienda creados en [from, to]. Incluye todos los estados.
func (r *AnalyticsRepo) ListOrderFacts(ctx context.Context, storeID string, from, to time.Time) ([]analytics.OrderFact, error) {
	const query = `
	SELECT id, COALESCE(customer_id::text, ''), total_amount, created_at
	FROM orders
	WHERE store_id = $1
	  AND created_at BETWEEN $2 AND $3
	ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.ListOrderFacts: %w", err)
	}
	defer rows.Close()

	var facts []analytics.OrderFact
	for rows.Next() {
		var f analytics.OrderFact
		if err := rows.Scan(&f.ID, &f.CustomerID, &f.TotalAmount, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("analytics.ListOrderFacts scan: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// ListItemFacts líneas de los pedidos del rango con nombre y categoría del producto.
// Un producto borrado conserva la línea con nombre y categoría vacíos.
func (r *AnalyticsRepo) ListItemFacts(ctx context.Context, storeID string, from, to time.Time) ([]analytics.ItemFact, error) {
	const query = `
	SELECT
	    oi.order_id,
	    COALESCE(oi.product_id::text, ''),
	    COALESCE(p.name, ''),
	    COALESCE(p.category, ''),
	    oi.quantity,
	    oi.price,
	    o.created_at
	FROM order_items oi
	JOIN orders        o ON o.id = oi.order_id
	LEFT JOIN products p ON p.id = oi.product_id
	WHERE o.store_id = $1
	  AND o.created_at BETWEEN $2 AND $3`

	rows, err := r.q.Query(ctx, query, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.ListItemFacts: %w", err)
	}
	defer rows.Close()

	var facts []analytics.ItemFact
	for rows.Next() {
		var f analytics.ItemFact
		if err := rows.Scan(&f.OrderID, &f.ProductID, &f.ProductName, &f.Category, &f.Quantity, &f.Price, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("analytics.ListItemFacts scan: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// GetDashboardStats lee la vista dashboard_stats. Sin fila devuelve ceros.
func (r *AnalyticsRepo) GetDashboardStats(ctx context.Context, storeID string) (repository.DashboardStats, error) {
	const query = `
	SELECT total_orders, pending_orders, completed_orders, total_revenue, total_customers, low_stock_products
	FROM dashboard_stats
	WHERE store_id = $1`

	var s repository.DashboardStats
	err := r.q.QueryRow(ctx, query, storeID).Scan(
		&s.TotalOrders, &s.PendingOrders, &s.CompletedOrders, &s.TotalRevenue, &s.TotalCustomers, &s.LowStockProducts,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.DashboardStats{}, nil
		}
		return repository.DashboardStats{}, fmt.Errorf("analytics.GetDashboardStats: %w", err)
	}
	return s, nil
}

// ListLowStock productos disponibles con stock bajo, los de menos unidades primero.
func (r *AnalyticsRepo) ListLowStock(ctx context.Context, storeID string, threshold, limit int) ([]repository.LowStockProduct, error) {
	const query = `
	SELECT id, name, stock_quantity
	FROM products
	WHERE store_id = $1 AND is_available AND stock_quantity < $2
	ORDER BY stock_quantity, name
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, storeID, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.ListLowStock: %w", err)
	}
	defer rows.Close()

	var list []repository.LowStockProduct
	for rows.Next() {
		var p repository.LowStockProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.StockQuantity); err != nil {
			return nil, fmt.Errorf("analytics.ListLowStock scan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
