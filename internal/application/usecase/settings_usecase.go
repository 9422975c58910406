package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
	"github.com/jhoicas/kirana-admin-api/pkg/phone"
)

var maxTaxRate = decimal.NewFromInt(100)

// SettingsUseCase configuración de la tienda, equipo y horario semanal.
type SettingsUseCase struct {
	stores   repository.StoreRepository
	admins   repository.StoreAdminRepository
	hours    repository.StoreHoursRepository
	tx       ports.TxRunner
	cache    *querycache.Cache
	sessions ports.SessionRevoker
	log      zerolog.Logger
	now      func() time.Time
}

// NewSettingsUseCase construye el caso de uso. sessions cierra las sesiones del personal dado de
// baja o con otro rol; puede ser nil.
func NewSettingsUseCase(
	stores repository.StoreRepository,
	admins repository.StoreAdminRepository,
	hours repository.StoreHoursRepository,
	tx ports.TxRunner,
	cache *querycache.Cache,
	sessions ports.SessionRevoker,
	log zerolog.Logger,
) *SettingsUseCase {
	return &SettingsUseCase{
		stores:   stores,
		admins:   admins,
		hours:    hours,
		tx:       tx,
		cache:    cache,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

// GetStore configuración de la tienda.
func (uc *SettingsUseCase) GetStore(ctx context.Context, storeID string) (*dto.StoreResponse, error) {
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.StoreSettings, nil, func(ctx context.Context) (*dto.StoreResponse, error) {
		s, err := uc.stores.GetByID(ctx, storeID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, domain.ErrNotFound
		}
		return toStoreResponse(s), nil
	})
}

// UpdateStore actualización parcial de la tienda.
func (uc *SettingsUseCase) UpdateStore(ctx context.Context, storeID string, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	s, err := uc.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		s.Address = strings.TrimSpace(*in.Address)
	}
	if in.PhoneNumber != nil {
		p := phone.Format(*in.PhoneNumber)
		if !phone.IsValidIndian(p) {
			return nil, domain.ErrInvalidInput
		}
		s.PhoneNumber = p
	}
	if in.IsOpen != nil {
		s.IsOpen = *in.IsOpen
	}
	if in.BusinessHours != nil {
		bh, err := toBusinessHours(*in.BusinessHours)
		if err != nil {
			return nil, err
		}
		s.BusinessHours = bh
	}
	if in.DeliveryEnabled != nil {
		s.DeliveryEnabled = *in.DeliveryEnabled
	}
	if in.MinOrderAmount != nil {
		if in.MinOrderAmount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		s.MinOrderAmount = in.MinOrderAmount.Round(2)
	}
	if in.DeliveryFee != nil {
		if in.DeliveryFee.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		s.DeliveryFee = in.DeliveryFee.Round(2)
	}
	if in.TaxRate != nil {
		if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(maxTaxRate) {
			return nil, domain.ErrInvalidInput
		}
		s.TaxRate = in.TaxRate.Round(2)
	}
	s.UpdatedAt = uc.now()
	if err := uc.stores.Update(ctx, s); err != nil {
		return nil, err
	}
	uc.cache.Evict(ctx, storeID, querycache.StoreSettings, querycache.Profile)
	return toStoreResponse(s), nil
}

// ListStaff administradores de la tienda, más recientes primero.
func (uc *SettingsUseCase) ListStaff(ctx context.Context, storeID string) ([]dto.AdminResponse, error) {
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.StaffMembers, nil, func(ctx context.Context) ([]dto.AdminResponse, error) {
		list, err := uc.admins.ListByStore(ctx, storeID)
		if err != nil {
			return nil, err
		}
		out := make([]dto.AdminResponse, 0, len(list))
		for _, a := range list {
			out = append(out, *entityToAdminResponse(a))
		}
		return out, nil
	})
}

// CreateStaff da de alta un manager o staff. Si el teléfono no tiene cuenta se crea una sin
// contraseña; el miembro entra con OTP.
func (uc *SettingsUseCase) CreateStaff(ctx context.Context, storeID string, in dto.CreateStaffRequest) (*dto.AdminResponse, error) {
	if in.Role != entity.RoleManager && in.Role != entity.RoleStaff {
		return nil, domain.ErrInvalidInput
	}
	p := phone.Format(in.PhoneNumber)
	if !phone.IsValidIndian(p) {
		return nil, domain.ErrInvalidInput
	}
	exists, err := uc.admins.ExistsByPhone(ctx, p)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrPhoneAlreadyExists
	}

	now := uc.now()
	admin := &entity.StoreAdmin{
		ID:          uuid.New().String(),
		PhoneNumber: p,
		FullName:    strings.TrimSpace(in.FullName),
		StoreID:     storeID,
		Role:        in.Role,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		user, err := repos.Users.GetByPhone(ctx, p)
		if err != nil {
			return err
		}
		if user == nil {
			user = &entity.User{ID: uuid.New().String(), PhoneNumber: p, CreatedAt: now, UpdatedAt: now}
			if err := repos.Users.Create(ctx, user); err != nil {
				return err
			}
		}
		admin.UserID = user.ID
		admin.Email = user.Email
		return repos.Admins.Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Evict(ctx, storeID, querycache.StaffMembers)
	return entityToAdminResponse(admin), nil
}

// UpdateStaff modifica nombre, rol o estado. El owner no se modifica por esta vía.
func (uc *SettingsUseCase) UpdateStaff(ctx context.Context, storeID, id string, in dto.UpdateStaffRequest) (*dto.AdminResponse, error) {
	admin, err := uc.staffMember(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	prevRole, wasActive := admin.Role, admin.IsActive
	if in.FullName != nil {
		admin.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Role != nil {
		if *in.Role != entity.RoleManager && *in.Role != entity.RoleStaff {
			return nil, domain.ErrInvalidInput
		}
		admin.Role = *in.Role
	}
	if in.IsActive != nil {
		admin.IsActive = *in.IsActive
	}
	admin.UpdatedAt = uc.now()
	if err := uc.admins.Update(ctx, admin); err != nil {
		return nil, err
	}
	uc.cache.Evict(ctx, storeID, querycache.StaffMembers, querycache.Profile)
	if admin.Role != prevRole || (wasActive && !admin.IsActive) {
		if err := uc.revoke(ctx, admin); err != nil {
			return nil, err
		}
	}
	return entityToAdminResponse(admin), nil
}

// DeactivateStaff baja lógica (is_active=false).
func (uc *SettingsUseCase) DeactivateStaff(ctx context.Context, storeID, id string) error {
	admin, err := uc.staffMember(ctx, storeID, id)
	if err != nil {
		return err
	}
	admin.IsActive = false
	admin.UpdatedAt = uc.now()
	if err := uc.admins.Update(ctx, admin); err != nil {
		return err
	}
	uc.cache.Evict(ctx, storeID, querycache.StaffMembers, querycache.Profile)
	return uc.revoke(ctx, admin)
}

// revoke cierra las sesiones abiertas del miembro: sus tokens llevan el rol anterior.
func (uc *SettingsUseCase) revoke(ctx context.Context, admin *entity.StoreAdmin) error {
	if uc.sessions == nil || admin.UserID == "" {
		return nil
	}
	if err := uc.sessions.RevokeUser(ctx, admin.UserID); err != nil {
		return fmt.Errorf("cerrar sesiones de %s: %w", admin.ID, err)
	}
	uc.log.Info().Str("store_id", admin.StoreID).Str("admin_id", admin.ID).Msg("sesiones del miembro revocadas")
	return nil
}

func (uc *SettingsUseCase) staffMember(ctx context.Context, storeID, id string) (*entity.StoreAdmin, error) {
	admin, err := uc.admins.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil || admin.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	if admin.Role == entity.RoleOwner {
		return nil, domain.ErrForbidden
	}
	return admin, nil
}

// GetHours horario semanal ordenado por día. Si la tienda no tiene horario se crea el de por defecto.
func (uc *SettingsUseCase) GetHours(ctx context.Context, storeID string) ([]dto.StoreHoursDTO, error) {
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.StoreHours, nil, func(ctx context.Context) ([]dto.StoreHoursDTO, error) {
		hours, err := uc.hours.ListByStore(ctx, storeID)
		if err != nil {
			return nil, err
		}
		if len(hours) == 0 {
			hours = entity.DefaultStoreHours(storeID)
			for i := range hours {
				hours[i].ID = uuid.New().String()
			}
			err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
				return repos.Hours.ReplaceAll(ctx, storeID, hours)
			})
			if err != nil {
				return nil, err
			}
		}
		return toStoreHoursDTOs(hours), nil
	})
}

// UpdateHours reemplaza el horario completo en una transacción.
func (uc *SettingsUseCase) UpdateHours(ctx context.Context, storeID string, in dto.UpdateStoreHoursRequest) ([]dto.StoreHoursDTO, error) {
	hours, err := validateStoreHours(storeID, in.Hours)
	if err != nil {
		return nil, err
	}
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		return repos.Hours.ReplaceAll(ctx, storeID, hours)
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Evict(ctx, storeID, querycache.StoreHours)
	return toStoreHoursDTOs(hours), nil
}

// validateStoreHours días 0..6 sin repetir; open < close salvo que el día esté cerrado.
func validateStoreHours(storeID string, in []dto.StoreHoursDTO) ([]entity.StoreHours, error) {
	seen := make(map[int]bool, len(in))
	out := make([]entity.StoreHours, 0, len(in))
	for _, h := range in {
		if h.DayOfWeek < 0 || h.DayOfWeek > 6 || seen[h.DayOfWeek] {
			return nil, fmt.Errorf("%w: día %d inválido o repetido", domain.ErrInvalidInput, h.DayOfWeek)
		}
		seen[h.DayOfWeek] = true
		row := entity.StoreHours{
			ID:        uuid.New().String(),
			StoreID:   storeID,
			DayOfWeek: h.DayOfWeek,
			IsClosed:  h.IsClosed,
		}
		if !h.IsClosed {
			open, ok1 := minutesOfDay(h.OpenTime)
			closing, ok2 := minutesOfDay(h.CloseTime)
			if !ok1 || !ok2 || open >= closing {
				return nil, fmt.Errorf("%w: horario de %s inválido", domain.ErrInvalidInput, entity.DayName(h.DayOfWeek))
			}
			row.OpenTime = h.OpenTime
			row.CloseTime = h.CloseTime
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

// minutesOfDay interpreta HH:MM de 24 horas.
func minutesOfDay(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func toBusinessHours(in map[string]dto.DayHoursDTO) (map[string]entity.DayHours, error) {
	valid := make(map[string]bool, len(entity.WeekDays))
	for _, d := range entity.WeekDays {
		valid[d] = true
	}
	out := make(map[string]entity.DayHours, len(in))
	for day, h := range in {
		key := strings.ToLower(day)
		if !valid[key] {
			return nil, fmt.Errorf("%w: día %q desconocido", domain.ErrInvalidInput, day)
		}
		if !h.Closed {
			open, ok1 := minutesOfDay(h.Open)
			closing, ok2 := minutesOfDay(h.Close)
			if !ok1 || !ok2 || open >= closing {
				return nil, fmt.Errorf("%w: horario de %s inválido", domain.ErrInvalidInput, key)
			}
		}
		out[key] = entity.DayHours{Open: h.Open, Close: h.Close, Closed: h.Closed}
	}
	return out, nil
}

func toStoreHoursDTOs(hours []entity.StoreHours) []dto.StoreHoursDTO {
	out := make([]dto.StoreHoursDTO, 0, len(hours))
	for _, h := range hours {
		out = append(out, dto.StoreHoursDTO{
			ID:        h.ID,
			DayOfWeek: h.DayOfWeek,
			DayName:   entity.DayName(h.DayOfWeek),
			OpenTime:  h.OpenTime,
			CloseTime: h.CloseTime,
			IsClosed:  h.IsClosed,
		})
	}
	return out
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	if s == nil {
		return nil
	}
	var bh map[string]dto.DayHoursDTO
	if len(s.BusinessHours) > 0 {
		bh = make(map[string]dto.DayHoursDTO, len(s.BusinessHours))
		for day, h := range s.BusinessHours {
			bh[day] = dto.DayHoursDTO{Open: h.Open, Close: h.Close, Closed: h.Closed}
		}
	}
	return &dto.StoreResponse{
		ID:              s.ID,
		Name:            s.Name,
		OwnerID:         s.OwnerID,
		Address:         s.Address,
		PhoneNumber:     s.PhoneNumber,
		Latitude:        s.Latitude,
		Longitude:       s.Longitude,
		IsOpen:          s.IsOpen,
		IsActive:        s.IsActive,
		BusinessHours:   bh,
		DeliveryEnabled: s.DeliveryEnabled,
		MinOrderAmount:  s.MinOrderAmount,
		DeliveryFee:     s.DeliveryFee,
		TaxRate:         s.TaxRate,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
