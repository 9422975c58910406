package usecase

import (
	"context"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

// CategoryUseCase lectura del catálogo global de categorías.
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	cache *querycache.Cache
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, cache *querycache.Cache) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, cache: cache}
}

// List categorías ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	return querycache.GetOrLoad(ctx, uc.cache, querycache.GlobalScope, querycache.Categories, nil, func(ctx context.Context) ([]dto.CategoryResponse, error) {
		list, err := uc.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.CategoryResponse, 0, len(list))
		for _, c := range list {
			out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt})
		}
		return out, nil
	})
}
