package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para el catálogo de la tienda.
type ProductUseCase struct {
	repo      repository.ProductRepository
	cache     *querycache.Cache
	publisher ports.EventPublisher
	threshold int
}

// NewProductUseCase construye el caso de uso. threshold es el umbral de stock bajo (<= 0 usa el valor por defecto).
func NewProductUseCase(repo repository.ProductRepository, cache *querycache.Cache, publisher ports.EventPublisher, threshold int) *ProductUseCase {
	if threshold <= 0 {
		threshold = entity.LowStockThreshold
	}
	return &ProductUseCase{repo: repo, cache: cache, publisher: publisher, threshold: threshold}
}

// Create crea un producto. is_available es true si no se indica.
func (uc *ProductUseCase) Create(ctx context.Context, storeID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Price.IsNegative() || in.StockQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		StoreID:       storeID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price.Round(2),
		ImageURL:      in.ImageURL,
		Category:      strings.TrimSpace(in.Category),
		StockQuantity: in.StockQuantity,
		IsAvailable:   available,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if product.Name == "" || product.Category == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, storeID)
	return uc.toProductResponse(product), nil
}

// GetByID obtiene un producto de la tienda. ErrNotFound si no existe o es de otra tienda.
func (uc *ProductUseCase) GetByID(ctx context.Context, storeID, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return uc.toProductResponse(product), nil
}

// Update actualización parcial: solo se modifican los campos presentes.
func (uc *ProductUseCase) Update(ctx context.Context, storeID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
		if product.Name == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = in.Price.Round(2)
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
		if product.Category == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.StockQuantity = *in.StockQuantity
	}
	if in.IsAvailable != nil {
		product.IsAvailable = *in.IsAvailable
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, storeID)
	return uc.toProductResponse(product), nil
}

// List lista productos de la tienda con filtros, más recientes primero.
func (uc *ProductUseCase) List(ctx context.Context, storeID string, q dto.ProductListQuery) ([]dto.ProductResponse, error) {
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.Products, q, func(ctx context.Context) ([]dto.ProductResponse, error) {
		filter := repository.ProductFilter{Category: q.Category, Search: q.Search}
		if q.IsAvailable != "" {
			v := q.IsAvailable == "true"
			filter.IsAvailable = &v
		}
		if q.LowStock {
			filter.LowStockBelow = uc.threshold
		}
		list, err := uc.repo.List(ctx, storeID, filter)
		if err != nil {
			return nil, err
		}
		items := make([]dto.ProductResponse, 0, len(list))
		for _, p := range list {
			items = append(items, *uc.toProductResponse(p))
		}
		return items, nil
	})
}

// Delete elimina un producto de la tienda.
func (uc *ProductUseCase) Delete(ctx context.Context, storeID, id string) error {
	if _, err := uc.get(ctx, storeID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx, storeID)
	return nil
}

func (uc *ProductUseCase) get(ctx context.Context, storeID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context, storeID string) {
	resources := []querycache.Resource{querycache.Products, querycache.Dashboard}
	uc.cache.Evict(ctx, storeID, resources...)
	if uc.publisher != nil {
		uc.publisher.Publish(storeID, invalidateEvent(resources...))
	}
}

func (uc *ProductUseCase) toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		StoreID:       p.StoreID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		ImageURL:      p.ImageURL,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		IsAvailable:   p.IsAvailable,
		IsLowStock:    p.IsLowStock(uc.threshold),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
