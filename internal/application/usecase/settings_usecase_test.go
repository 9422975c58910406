package usecase

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
)

type settingsFixture struct {
	uc       *SettingsUseCase
	profile  *ProfileUseCase
	stores   *fakeStoreRepo
	admins   *fakeAdminRepo
	users    *fakeUserRepo
	hours    *fakeHoursRepo
	tx       *fakeTx
	sessions *recordingRevoker
}

func newSettingsFixture(t *testing.T) settingsFixture {
	t.Helper()
	qc, _ := newTestCache(t)
	stores := &fakeStoreRepo{stores: map[string]*entity.Store{
		"store-1": {ID: "store-1", Name: "Sharma Kirana", IsActive: true, TaxRate: decimal.NewFromInt(5)},
	}}
	admins := newFakeAdminRepo(
		&entity.StoreAdmin{ID: "adm-owner", UserID: "user-1", PhoneNumber: "+919876543210", StoreID: "store-1", Role: entity.RoleOwner, IsActive: true},
		&entity.StoreAdmin{ID: "adm-staff", UserID: "user-5", PhoneNumber: "+919555555555", FullName: "Suresh", StoreID: "store-1", Role: entity.RoleManager, IsActive: true},
	)
	users := &fakeUserRepo{users: map[string]*entity.User{
		"user-5": {ID: "user-5", PhoneNumber: "+919555555555", Email: "suresh@example.com"},
		"user-9": {ID: "user-9", PhoneNumber: "+919000000009", Email: "ravi@example.com"},
	}}
	hours := &fakeHoursRepo{hours: map[string][]entity.StoreHours{}}
	tx := &fakeTx{repos: ports.TxRepos{Users: users, Stores: stores, Admins: admins, Hours: hours}}
	sessions := &recordingRevoker{}
	return settingsFixture{
		uc:       NewSettingsUseCase(stores, admins, hours, tx, qc, sessions, zerolog.Nop()),
		profile:  NewProfileUseCase(admins, tx, qc),
		stores:   stores,
		admins:   admins,
		users:    users,
		hours:    hours,
		tx:       tx,
		sessions: sessions,
	}
}

func TestSettingsUseCase_UpdateStore(t *testing.T) {
	f := newSettingsFixture(t)
	ctx := context.Background()

	before, err := f.uc.GetStore(ctx, "store-1")
	require.NoError(t, err)
	assert.Equal(t, "Sharma Kirana", before.Name)

	name := "Sharma General Store"
	fee := decimal.RequireFromString("25")
	hours := map[string]dto.DayHoursDTO{"Monday": {Open: "08:00", Close: "22:00"}, "sunday": {Closed: true}}
	got, err := f.uc.UpdateStore(ctx, "store-1", dto.UpdateStoreRequest{Name: &name, DeliveryFee: &fee, BusinessHours: &hours})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Contains(t, got.BusinessHours, "monday")
	assert.True(t, got.BusinessHours["sunday"].Closed)

	cached, err := f.uc.GetStore(ctx, "store-1")
	require.NoError(t, err)
	assert.Equal(t, name, cached.Name, "la actualización invalida la caché")

	tooHigh := decimal.NewFromInt(101)
	_, err = f.uc.UpdateStore(ctx, "store-1", dto.UpdateStoreRequest{TaxRate: &tooHigh})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := map[string]dto.DayHoursDTO{"funday": {Open: "08:00", Close: "22:00"}}
	_, err = f.uc.UpdateStore(ctx, "store-1", dto.UpdateStoreRequest{BusinessHours: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.GetStore(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettingsUseCase_CreateStaff(t *testing.T) {
	f := newSettingsFixture(t)
	ctx := context.Background()

	created, err := f.uc.CreateStaff(ctx, "store-1", dto.CreateStaffRequest{PhoneNumber: "9123456789", FullName: "Meena", Role: entity.RoleStaff})
	require.NoError(t, err)
	assert.Equal(t, "+919123456789", created.PhoneNumber)
	assert.True(t, created.IsActive)
	u, _ := f.users.GetByPhone(ctx, "+919123456789")
	require.NotNil(t, u)
	assert.False(t, u.HasPassword(), "el personal entra por OTP")

	existing, err := f.uc.CreateStaff(ctx, "store-1", dto.CreateStaffRequest{PhoneNumber: "+91 90000 00009", FullName: "Ravi", Role: entity.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "user-9", existing.UserID)
	assert.Equal(t, "ravi@example.com", existing.Email)

	_, err = f.uc.CreateStaff(ctx, "store-1", dto.CreateStaffRequest{PhoneNumber: "9876543210", FullName: "Dup", Role: entity.RoleStaff})
	assert.ErrorIs(t, err, domain.ErrPhoneAlreadyExists)

	_, err = f.uc.CreateStaff(ctx, "store-1", dto.CreateStaffRequest{PhoneNumber: "9111111111", FullName: "Boss", Role: entity.RoleOwner})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	staff, err := f.uc.ListStaff(ctx, "store-1")
	require.NoError(t, err)
	assert.Len(t, staff, 4)
}

func TestSettingsUseCase_DeactivateStaffRevokesSessions(t *testing.T) {
	f := newSettingsFixture(t)

	require.NoError(t, f.uc.DeactivateStaff(context.Background(), "store-1", "adm-staff"))
	assert.False(t, f.admins.admins["adm-staff"].IsActive)
	assert.Equal(t, []string{"user-5"}, f.sessions.users)
}

func TestSettingsUseCase_UpdateStaff(t *testing.T) {
	ctx := context.Background()

	t.Run("cambio de nombre refresca el perfil sin cerrar sesión", func(t *testing.T) {
		f := newSettingsFixture(t)
		before, err := f.profile.Get(ctx, "store-1", "user-5")
		require.NoError(t, err)
		assert.Equal(t, "Suresh", before.FullName)

		name := "Suresh Patil"
		_, err = f.uc.UpdateStaff(ctx, "store-1", "adm-staff", dto.UpdateStaffRequest{FullName: &name})
		require.NoError(t, err)

		after, err := f.profile.Get(ctx, "store-1", "user-5")
		require.NoError(t, err)
		assert.Equal(t, "Suresh Patil", after.FullName)
		assert.Empty(t, f.sessions.users)
	})

	t.Run("cambio de rol revoca sesiones", func(t *testing.T) {
		f := newSettingsFixture(t)
		role := entity.RoleStaff
		got, err := f.uc.UpdateStaff(ctx, "store-1", "adm-staff", dto.UpdateStaffRequest{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, entity.RoleStaff, got.Role)
		assert.Equal(t, []string{"user-5"}, f.sessions.users)
	})

	t.Run("desactivar revoca sesiones", func(t *testing.T) {
		f := newSettingsFixture(t)
		inactive := false
		_, err := f.uc.UpdateStaff(ctx, "store-1", "adm-staff", dto.UpdateStaffRequest{IsActive: &inactive})
		require.NoError(t, err)
		assert.Equal(t, []string{"user-5"}, f.sessions.users)
	})
}

func TestProfileUseCase_UpdateRunsInTx(t *testing.T) {
	ctx := context.Background()
	f := newSettingsFixture(t)

	email := "Suresh.P@Example.com"
	got, err := f.profile.Update(ctx, "store-1", "user-5", dto.UpdateProfileRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "suresh.p@example.com", got.Email)
	assert.Equal(t, "suresh.p@example.com", f.users.users["user-5"].Email)
	assert.Equal(t, 1, f.tx.runs)

	f.admins.updateErr = domain.ErrConflict
	other := "otro@example.com"
	_, err = f.profile.Update(ctx, "store-1", "user-5", dto.UpdateProfileRequest{Email: &other})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 2, f.tx.runs)
}

func TestSettingsUseCase_OwnerCannotBeModified(t *testing.T) {
	f := newSettingsFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.uc.DeactivateStaff(ctx, "store-1", "adm-owner"), domain.ErrForbidden)
	assert.ErrorIs(t, f.uc.DeactivateStaff(ctx, "store-2", "adm-owner"), domain.ErrNotFound)
}

func TestSettingsUseCase_GetHoursSeedsDefaults(t *testing.T) {
	f := newSettingsFixture(t)

	got, err := f.uc.GetHours(context.Background(), "store-1")
	require.NoError(t, err)
	require.Len(t, got, 7)
	assert.Equal(t, "Sunday", got[0].DayName)
	assert.Equal(t, "09:00", got[0].OpenTime)
	assert.Equal(t, 1, f.hours.replaced)
}

func TestValidateStoreHours(t *testing.T) {
	tests := []struct {
		name    string
		in      []dto.StoreHoursDTO
		wantErr bool
	}{
		{"válido y desordenado", []dto.StoreHoursDTO{
			{DayOfWeek: 3, OpenTime: "09:00", CloseTime: "18:00"},
			{DayOfWeek: 0, IsClosed: true},
		}, false},
		{"día repetido", []dto.StoreHoursDTO{
			{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00"},
			{DayOfWeek: 1, OpenTime: "10:00", CloseTime: "19:00"},
		}, true},
		{"día fuera de rango", []dto.StoreHoursDTO{{DayOfWeek: 7, IsClosed: true}}, true},
		{"cierre antes de apertura", []dto.StoreHoursDTO{{DayOfWeek: 2, OpenTime: "20:00", CloseTime: "08:00"}}, true},
		{"hora mal formada", []dto.StoreHoursDTO{{DayOfWeek: 2, OpenTime: "9am", CloseTime: "18:00"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateStoreHours("store-1", tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, 0, got[0].DayOfWeek)
			assert.Empty(t, got[0].OpenTime)
			assert.Equal(t, 3, got[1].DayOfWeek)
		})
	}
}
