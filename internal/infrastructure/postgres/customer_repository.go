package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador de clientes. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Agregados por cliente dentro de una tienda. $1 = store_id.
const customerSummarySelect = `
	SELECT c.id, c.full_name, c.phone_number, COALESCE(c.email, ''), c.created_at,
		COUNT(o.id)                      AS total_orders,
		COALESCE(SUM(o.total_amount), 0) AS total_spent,
		MAX(o.created_at)                AS last_order_date
	FROM customers c
	JOIN orders o ON o.customer_id = c.id AND o.store_id = $1`

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(ctx, `
		SELECT id, full_name, phone_number, COALESCE(email, ''), created_at
		FROM customers WHERE id = $1`, id).Scan(&c.ID, &c.FullName, &c.PhoneNumber, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// ListSummaries clientes que han comprado en la tienda, por último pedido descendente.
func (r *CustomerRepo) ListSummaries(ctx context.Context, storeID string) ([]*entity.CustomerSummary, error) {
	query := customerSummarySelect + `
	GROUP BY c.id
	ORDER BY last_order_date DESC`
	return r.querySummaries(ctx, query, storeID)
}

// SearchSummaries igual que ListSummaries filtrando por nombre o teléfono.
func (r *CustomerRepo) SearchSummaries(ctx context.Context, storeID, q string) ([]*entity.CustomerSummary, error) {
	query := customerSummarySelect + `
	WHERE c.full_name ILIKE $2 OR c.phone_number ILIKE $2
	GROUP BY c.id
	ORDER BY last_order_date DESC`
	return r.querySummaries(ctx, query, storeID, likePattern(q))
}

func (r *CustomerRepo) querySummaries(ctx context.Context, query string, args ...any) ([]*entity.CustomerSummary, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	list := []*entity.CustomerSummary{}
	for rows.Next() {
		var s entity.CustomerSummary
		if err := rows.Scan(&s.ID, &s.FullName, &s.PhoneNumber, &s.Email, &s.CreatedAt,
			&s.TotalOrders, &s.TotalSpent, &s.LastOrderDate); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
