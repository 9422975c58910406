package repository

import (
	"context"

	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
)

// StoreRepository puerto de persistencia para tiendas y su configuración.
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
	ListActive(ctx context.Context) ([]*entity.Store, error)
}

// StoreHoursRepository horario semanal de una tienda.
type StoreHoursRepository interface {
	ListByStore(ctx context.Context, storeID string) ([]entity.StoreHours, error)
	// ReplaceAll borra el horario existente e inserta hours. Usar dentro de una transacción.
	ReplaceAll(ctx context.Context, storeID string, hours []entity.StoreHours) error
}
