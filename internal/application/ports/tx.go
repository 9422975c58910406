package ports

import (
	"context"

	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Users  repository.UserRepository
	Stores repository.StoreRepository
	Admins repository.StoreAdminRepository
	Hours  repository.StoreHoursRepository
	Orders repository.OrderRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// SessionRevoker invalida los tokens ya emitidos a un usuario (baja o cambio de rol).
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}
