package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación del puerto StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de persistencia para tiendas. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

const storeColumns = `
	id, name, owner_id, address, phone_number, latitude, longitude, is_open, is_active,
	COALESCE(business_hours, '{}'::jsonb), delivery_enabled, min_order_amount, delivery_fee, tax_rate,
	created_at, updated_at`

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	err := row.Scan(
		&s.ID, &s.Name, &s.OwnerID, &s.Address, &s.PhoneNumber, &s.Latitude, &s.Longitude,
		&s.IsOpen, &s.IsActive, &s.BusinessHours, &s.DeliveryEnabled, &s.MinOrderAmount,
		&s.DeliveryFee, &s.TaxRate, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste una tienda nueva.
func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	query := `
		INSERT INTO stores (id, name, owner_id, address, phone_number, latitude, longitude, is_open, is_active,
			business_hours, delivery_enabled, min_order_amount, delivery_fee, tax_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.OwnerID, s.Address, s.PhoneNumber, s.Latitude, s.Longitude, s.IsOpen, s.IsActive,
		s.BusinessHours, s.DeliveryEnabled, s.MinOrderAmount, s.DeliveryFee, s.TaxRate, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda por ID.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	s, err := scanStore(r.q.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return s, nil
}

// Update guarda los campos editables desde configuración.
func (r *StoreRepo) Update(ctx context.Context, s *entity.Store) error {
	query := `
		UPDATE stores SET name = $2, address = $3, phone_number = $4, is_open = $5, business_hours = $6,
			delivery_enabled = $7, min_order_amount = $8, delivery_fee = $9, tax_rate = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Address, s.PhoneNumber, s.IsOpen, s.BusinessHours,
		s.DeliveryEnabled, s.MinOrderAmount, s.DeliveryFee, s.TaxRate, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActive tiendas activas (para tareas programadas).
func (r *StoreRepo) ListActive(ctx context.Context) ([]*entity.Store, error) {
	rows, err := r.q.Query(ctx, `SELECT `+storeColumns+` FROM stores WHERE is_active ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
