package repository

import (
	"context"

	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
)

// CategoryRepository lectura del catálogo de categorías.
type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
}
