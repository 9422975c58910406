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

var _ repository.StoreAdminRepository = (*StoreAdminRepo)(nil)

// StoreAdminRepo implementación del puerto StoreAdminRepository sobre PostgreSQL.
type StoreAdminRepo struct {
	q Querier
}

// NewStoreAdminRepository construye el adaptador de administradores de tienda.
func NewStoreAdminRepository(q Querier) *StoreAdminRepo {
	return &StoreAdminRepo{q: q}
}

const adminColumns = `
	a.id, a.user_id, a.phone_number, COALESCE(a.email, ''), a.full_name, a.store_id, a.role, a.is_active,
	a.created_at, a.updated_at`

func scanAdmin(row pgx.Row, extra ...any) (*entity.StoreAdmin, error) {
	var a entity.StoreAdmin
	dest := []any{
		&a.ID, &a.UserID, &a.PhoneNumber, &a.Email, &a.FullName, &a.StoreID, &a.Role, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste un administrador. Un usuario solo puede estar una vez por tienda.
func (r *StoreAdminRepo) Create(ctx context.Context, a *entity.StoreAdmin) error {
	query := `
		INSERT INTO store_admins (id, user_id, store_id, phone_number, email, full_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.UserID, a.StoreID, a.PhoneNumber, nullString(a.Email), a.FullName, a.Role, a.IsActive,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert store admin: %w", err)
	}
	return nil
}

// GetByID obtiene un administrador por ID.
func (r *StoreAdminRepo) GetByID(ctx context.Context, id string) (*entity.StoreAdmin, error) {
	a, err := scanAdmin(r.q.QueryRow(ctx, `SELECT `+adminColumns+` FROM store_admins a WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store admin: %w", err)
	}
	return a, nil
}

// GetByUserID devuelve el registro de administrador del usuario junto con su tienda.
// Si el usuario administra varias tiendas se prioriza la activa más antigua.
func (r *StoreAdminRepo) GetByUserID(ctx context.Context, userID string) (*entity.StoreAdmin, error) {
	query := `SELECT ` + adminColumns + `,
		s.id, s.name, s.owner_id, s.address, s.phone_number, s.latitude, s.longitude, s.is_open, s.is_active,
		COALESCE(s.business_hours, '{}'::jsonb), s.delivery_enabled, s.min_order_amount, s.delivery_fee, s.tax_rate,
		s.created_at, s.updated_at
		FROM store_admins a
		JOIN stores s ON s.id = a.store_id
		WHERE a.user_id = $1
		ORDER BY a.is_active DESC, a.created_at
		LIMIT 1`
	var s entity.Store
	a, err := scanAdmin(r.q.QueryRow(ctx, query, userID),
		&s.ID, &s.Name, &s.OwnerID, &s.Address, &s.PhoneNumber, &s.Latitude, &s.Longitude,
		&s.IsOpen, &s.IsActive, &s.BusinessHours, &s.DeliveryEnabled, &s.MinOrderAmount,
		&s.DeliveryFee, &s.TaxRate, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store admin by user: %w", err)
	}
	a.Store = &s
	return a, nil
}

// ExistsByPhone indica si ya hay un administrador con ese teléfono en cualquier tienda.
func (r *StoreAdminRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM store_admins WHERE phone_number = $1)`, phone).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists store admin: %w", err)
	}
	return exists, nil
}

// ListByStore administradores de la tienda, más recientes primero.
func (r *StoreAdminRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.StoreAdmin, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+adminColumns+` FROM store_admins a WHERE a.store_id = $1 ORDER BY a.created_at DESC`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list store admins: %w", err)
	}
	defer rows.Close()
	var list []*entity.StoreAdmin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store admin: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update guarda nombre, email, rol y estado.
func (r *StoreAdminRepo) Update(ctx context.Context, a *entity.StoreAdmin) error {
	query := `
		UPDATE store_admins SET full_name = $2, email = $3, role = $4, is_active = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, a.ID, a.FullName, nullString(a.Email), a.Role, a.IsActive, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update store admin: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
