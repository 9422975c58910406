package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderSelect = `
	SELECT o.id, o.order_number, COALESCE(o.customer_id::text, ''), o.store_id, o.status, o.total_amount,
		o.delivery_address, o.created_at, o.updated_at,
		c.id::text, c.full_name, c.phone_number, c.email, c.created_at
	FROM orders o
	LEFT JOIN customers c ON c.id = o.customer_id`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o                          entity.Order
		cID, cName, cPhone, cEmail *string
		cCreated                   *time.Time
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.StoreID, &o.Status, &o.TotalAmount,
		&o.DeliveryAddress, &o.CreatedAt, &o.UpdatedAt,
		&cID, &cName, &cPhone, &cEmail, &cCreated,
	)
	if err != nil {
		return nil, err
	}
	if cID != nil {
		c := &entity.Customer{ID: *cID}
		if cName != nil {
			c.FullName = *cName
		}
		if cPhone != nil {
			c.PhoneNumber = *cPhone
		}
		if cEmail != nil {
			c.Email = *cEmail
		}
		if cCreated != nil {
			c.CreatedAt = *cCreated
		}
		o.Customer = c
	}
	return &o, nil
}

func (r *OrderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachItems carga las líneas (con su producto) de todos los pedidos en una sola consulta.
func (r *OrderRepo) attachItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = []entity.OrderItem{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT oi.id, oi.order_id, COALESCE(oi.product_id::text, ''), oi.quantity, oi.price,
			p.id::text, p.name, p.image_url
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1::uuid[])
		ORDER BY oi.id`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it                 entity.OrderItem
			pID, pName, pImage *string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price, &pID, &pName, &pImage); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if pID != nil {
			p := &entity.Product{ID: *pID}
			if pName != nil {
				p.Name = *pName
			}
			if pImage != nil {
				p.ImageURL = *pImage
			}
			it.Product = p
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

// List pedidos de la tienda con filtros y paginación. Devuelve también el total sin paginar.
func (r *OrderRepo) List(ctx context.Context, storeID string, f repository.OrderFilter) ([]*entity.Order, int, error) {
	where := []string{"o.store_id = $1"}
	args := []any{storeID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("o.status = $%d", f.Status)
	}
	if strings.TrimSpace(f.Search) != "" {
		add("o.order_number ILIKE $%d", likePattern(f.Search))
	}
	if f.DateFrom != nil {
		add("o.created_at >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("o.created_at <= $%d", *f.DateTo)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders o WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := orderSelect + ` WHERE ` + cond + ` ORDER BY o.created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}
	list, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// GetByID pedido con cliente y líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.attachItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// ListRecent últimos limit pedidos de la tienda.
func (r *OrderRepo) ListRecent(ctx context.Context, storeID string, limit int) ([]*entity.Order, error) {
	return r.queryOrders(ctx, orderSelect+` WHERE o.store_id = $1 ORDER BY o.created_at DESC LIMIT $2`, storeID, limit)
}

// ListByCustomer pedidos de un cliente en la tienda, más recientes primero.
func (r *OrderRepo) ListByCustomer(ctx context.Context, storeID, customerID string) ([]*entity.Order, error) {
	return r.queryOrders(ctx,
		orderSelect+` WHERE o.store_id = $1 AND o.customer_id = $2 ORDER BY o.created_at DESC`,
		storeID, customerID)
}

// UpdateStatus cambia el estado y updated_at si el pedido sigue en from.
// Otra transacción que ya cambió el estado deja 0 filas: ErrConflict.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`, id, to, at, from)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// AddStatusHistory registra un cambio de estado.
func (r *OrderRepo) AddStatusHistory(ctx context.Context, h *entity.OrderStatusHistory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_status_history (id, order_id, from_status, to_status, changed_by, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID, h.OrderID, nullString(h.FromStatus), h.ToStatus, nullString(h.ChangedBy), nullString(h.Notes), h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order status history: %w", err)
	}
	return nil
}

// ListStatusHistory historial del pedido, más reciente primero, con el nombre de quien cambió el estado.
func (r *OrderRepo) ListStatusHistory(ctx context.Context, orderID string) ([]*entity.OrderStatusHistory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT h.id, h.order_id, COALESCE(h.from_status, ''), h.to_status, COALESCE(h.changed_by::text, ''),
			COALESCE(a.full_name, ''), COALESCE(h.notes, ''), h.created_at
		FROM order_status_history h
		LEFT JOIN store_admins a ON a.id = h.changed_by
		WHERE h.order_id = $1
		ORDER BY h.created_at DESC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order status history: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderStatusHistory
	for rows.Next() {
		var h entity.OrderStatusHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.FromStatus, &h.ToStatus, &h.ChangedBy,
			&h.ChangedByName, &h.Notes, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order status history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
