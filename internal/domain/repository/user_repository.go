package repository

import (
	"context"

	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para cuentas de acceso.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateEmail(ctx context.Context, id, email string) error
}

// StoreAdminRepository puerto de persistencia para administradores de tienda.
type StoreAdminRepository interface {
	Create(ctx context.Context, admin *entity.StoreAdmin) error
	GetByID(ctx context.Context, id string) (*entity.StoreAdmin, error)
	// GetByUserID devuelve el admin con su Store cargada.
	GetByUserID(ctx context.Context, userID string) (*entity.StoreAdmin, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ListByStore(ctx context.Context, storeID string) ([]*entity.StoreAdmin, error)
	Update(ctx context.Context, admin *entity.StoreAdmin) error
}
