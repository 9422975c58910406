package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

// ProfileUseCase perfil del administrador autenticado.
type ProfileUseCase struct {
	admins repository.StoreAdminRepository
	tx     ports.TxRunner
	cache  *querycache.Cache
	now    func() time.Time
}

// NewProfileUseCase construye el caso de uso. El email se escribe en users y store_admins
// dentro de una transacción.
func NewProfileUseCase(admins repository.StoreAdminRepository, tx ports.TxRunner, cache *querycache.Cache) *ProfileUseCase {
	return &ProfileUseCase{admins: admins, tx: tx, cache: cache, now: time.Now}
}

// Get devuelve el admin del usuario con su tienda.
func (uc *ProfileUseCase) Get(ctx context.Context, storeID, userID string) (*dto.AdminResponse, error) {
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.Profile, userID, func(ctx context.Context) (*dto.AdminResponse, error) {
		admin, err := uc.current(ctx, storeID, userID)
		if err != nil {
			return nil, err
		}
		return entityToAdminResponse(admin), nil
	})
}

// Update modifica nombre y email. El email se guarda también en la cuenta de acceso.
func (uc *ProfileUseCase) Update(ctx context.Context, storeID, userID string, in dto.UpdateProfileRequest) (*dto.AdminResponse, error) {
	admin, err := uc.current(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	emailChanged := false
	if in.FullName != nil {
		admin.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		emailChanged = email != admin.Email
		admin.Email = email
	}
	admin.UpdatedAt = uc.now()
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		if emailChanged {
			if err := repos.Users.UpdateEmail(ctx, userID, admin.Email); err != nil {
				return err
			}
		}
		return repos.Admins.Update(ctx, admin)
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Evict(ctx, storeID, querycache.Profile, querycache.StaffMembers)
	return entityToAdminResponse(admin), nil
}

func (uc *ProfileUseCase) current(ctx context.Context, storeID, userID string) (*entity.StoreAdmin, error) {
	admin, err := uc.admins.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if admin == nil || admin.StoreID != storeID {
		return nil, domain.ErrUserNotFound
	}
	return admin, nil
}

func entityToAdminResponse(a *entity.StoreAdmin) *dto.AdminResponse {
	if a == nil {
		return nil
	}
	return &dto.AdminResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		PhoneNumber: a.PhoneNumber,
		Email:       a.Email,
		FullName:    a.FullName,
		StoreID:     a.StoreID,
		Role:        a.Role,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		Store:       toStoreResponse(a.Store),
	}
}
