package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

var _ repository.StoreHoursRepository = (*StoreHoursRepo)(nil)

// StoreHoursRepo horario semanal por tienda.
type StoreHoursRepo struct {
	q Querier
}

// NewStoreHoursRepository construye el adaptador de horarios.
func NewStoreHoursRepository(q Querier) *StoreHoursRepo {
	return &StoreHoursRepo{q: q}
}

// ListByStore devuelve los días configurados ordenados por day_of_week.
func (r *StoreHoursRepo) ListByStore(ctx context.Context, storeID string) ([]entity.StoreHours, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, store_id, day_of_week, open_time, close_time, is_closed
		FROM store_hours WHERE store_id = $1 ORDER BY day_of_week`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list store hours: %w", err)
	}
	defer rows.Close()
	var list []entity.StoreHours
	for rows.Next() {
		var h entity.StoreHours
		if err := rows.Scan(&h.ID, &h.StoreID, &h.DayOfWeek, &h.OpenTime, &h.CloseTime, &h.IsClosed); err != nil {
			return nil, fmt.Errorf("scan store hours: %w", err)
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

// ReplaceAll borra y vuelve a insertar el horario. Asigna ID a las filas que no lo tengan.
func (r *StoreHoursRepo) ReplaceAll(ctx context.Context, storeID string, hours []entity.StoreHours) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM store_hours WHERE store_id = $1`, storeID); err != nil {
		return fmt.Errorf("delete store hours: %w", err)
	}
	for i := range hours {
		h := &hours[i]
		if h.ID == "" {
			h.ID = uuid.New().String()
		}
		h.StoreID = storeID
		_, err := r.q.Exec(ctx, `
			INSERT INTO store_hours (id, store_id, day_of_week, open_time, close_time, is_closed)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			h.ID, storeID, h.DayOfWeek, h.OpenTime, h.CloseTime, h.IsClosed,
		)
		if err != nil {
			return fmt.Errorf("insert store hours: %w", err)
		}
	}
	return nil
}
