package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
	"github.com/jhoicas/kirana-admin-api/pkg/jwt"
	"github.com/jhoicas/kirana-admin-api/pkg/phone"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

const (
	otpKeyPrefix     = "kirana:otp:"
	revokedKeyPrefix = "kirana:revoked:"
	revokedUserKey   = "kirana:revoked-user:"
	otpDigits        = 6
)

// AuthUseCase casos de uso de autenticación: login con contraseña u OTP, registro de tienda y logout.
type AuthUseCase struct {
	users  repository.UserRepository
	admins repository.StoreAdminRepository
	tx     ports.TxRunner
	cache  ports.Cache
	otp    ports.OTPSender
	jwtCfg JWTConfig
	otpTTL time.Duration
	log    zerolog.Logger
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	users repository.UserRepository,
	admins repository.StoreAdminRepository,
	tx ports.TxRunner,
	cache ports.Cache,
	otp ports.OTPSender,
	jwtCfg JWTConfig,
	otpTTL time.Duration,
	log zerolog.Logger,
) *AuthUseCase {
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	return &AuthUseCase{
		users:  users,
		admins: admins,
		tx:     tx,
		cache:  cache,
		otp:    otp,
		jwtCfg: jwtCfg,
		otpTTL: otpTTL,
		log:    log,
		now:    time.Now,
	}
}

// Login verifica teléfono o email más contraseña y emite el token.
// Usuario desconocido o contraseña incorrecta: ErrUnauthorized. Admin inactivo o sin tienda: ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	var (
		user *entity.User
		err  error
	)
	switch {
	case in.Phone != "":
		user, err = uc.users.GetByPhone(ctx, phone.Format(in.Phone))
	case in.Email != "":
		user, err = uc.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasPassword() {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.issue(ctx, user)
}

// RequestOTP genera un código de 6 dígitos y lo envía. Un teléfono sin cuenta no produce error,
// así la respuesta no revela qué números están registrados.
func (uc *AuthUseCase) RequestOTP(ctx context.Context, in dto.OTPRequest) error {
	to := phone.Format(in.Phone)
	user, err := uc.users.GetByPhone(ctx, to)
	if err != nil {
		return err
	}
	if user == nil {
		uc.log.Debug().Str("phone", phone.Display(to)).Msg("otp solicitado para teléfono sin cuenta")
		return nil
	}
	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := uc.cache.Set(ctx, otpKeyPrefix+to, []byte(code), uc.otpTTL); err != nil {
		return fmt.Errorf("auth: guardar otp: %w", err)
	}
	return uc.otp.Send(ctx, to, code)
}

// VerifyOTP valida el código (un solo uso) y emite el token.
func (uc *AuthUseCase) VerifyOTP(ctx context.Context, in dto.OTPVerifyRequest) (*dto.AuthResponse, error) {
	to := phone.Format(in.Phone)
	key := otpKeyPrefix + to
	// Comparar y borrar en una sola operación: dos verificaciones simultáneas no canjean el mismo código.
	used, err := uc.cache.CompareAndDelete(ctx, key, []byte(in.OTP))
	if err != nil {
		return nil, fmt.Errorf("auth: verificar otp: %w", err)
	}
	if !used {
		return nil, domain.ErrInvalidOTP
	}
	user, err := uc.users.GetByPhone(ctx, to)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidOTP
	}
	return uc.issue(ctx, user)
}

// Register crea usuario, tienda, horario por defecto y admin owner en una transacción.
// Devuelve ErrPhoneAlreadyExists si el teléfono ya tiene cuenta.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	ownerPhone := phone.Format(in.Phone)
	storePhone := phone.Format(in.StorePhone)
	if !phone.IsValidIndian(ownerPhone) || !phone.IsValidIndian(storePhone) {
		return nil, domain.ErrInvalidInput
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := uc.users.GetByPhone(ctx, ownerPhone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrPhoneAlreadyExists
	}
	if email != "" {
		byEmail, err := uc.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if byEmail != nil {
			return nil, domain.ErrEmailAlreadyExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		PhoneNumber:  ownerPhone,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	store := &entity.Store{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(in.StoreName),
		OwnerID:         user.ID,
		Address:         strings.TrimSpace(in.StoreAddress),
		PhoneNumber:     storePhone,
		IsOpen:          true,
		IsActive:        true,
		BusinessHours:   entity.DefaultBusinessHours(),
		DeliveryEnabled: true,
		MinOrderAmount:  decimal.Zero,
		DeliveryFee:     decimal.Zero,
		TaxRate:         decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Latitude != nil {
		store.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		store.Longitude = *in.Longitude
	}
	admin := &entity.StoreAdmin{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		PhoneNumber: ownerPhone,
		Email:       email,
		FullName:    strings.TrimSpace(in.FullName),
		StoreID:     store.ID,
		Role:        entity.RoleOwner,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		if err := repos.Stores.Create(ctx, store); err != nil {
			return err
		}
		if err := repos.Hours.ReplaceAll(ctx, store.ID, entity.DefaultStoreHours(store.ID)); err != nil {
			return err
		}
		return repos.Admins.Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("store_id", store.ID).Str("user_id", user.ID).Msg("tienda registrada")

	admin.Store = store
	return uc.token(admin)
}

// Logout revoca el token hasta su expiración.
func (uc *AuthUseCase) Logout(ctx context.Context, tokenString string) error {
	claims, err := jwt.ParseClaims(uc.jwtCfg.Secret, tokenString)
	if err != nil {
		return domain.ErrUnauthorized
	}
	ttl := claims.ExpiresIn(uc.now())
	if claims.ID == "" || ttl <= 0 {
		return nil
	}
	if err := uc.cache.Set(ctx, revokedKeyPrefix+claims.ID, []byte("1"), ttl); err != nil {
		return fmt.Errorf("auth: revocar token: %w", err)
	}
	return nil
}

// RevokeUser invalida todos los tokens del usuario emitidos hasta ahora. La marca dura lo mismo
// que un token, así que cualquier token anterior expira antes que ella.
func (uc *AuthUseCase) RevokeUser(ctx context.Context, userID string) error {
	ttl := time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute
	if userID == "" || ttl <= 0 {
		return nil
	}
	cutoff := strconv.FormatInt(uc.now().Unix(), 10)
	if err := uc.cache.Set(ctx, revokedUserKey+userID, []byte(cutoff), ttl); err != nil {
		return fmt.Errorf("auth: revocar sesiones: %w", err)
	}
	return nil
}

// IsRevoked indica si el token fue cerrado con logout o si su usuario tiene las sesiones
// revocadas desde antes o en el mismo segundo de su emisión (iat tiene resolución de segundos).
func (uc *AuthUseCase) IsRevoked(ctx context.Context, claims *jwt.Claims) (bool, error) {
	if claims == nil {
		return false, nil
	}
	if claims.ID != "" {
		_, found, err := uc.cache.Get(ctx, revokedKeyPrefix+claims.ID)
		if err != nil || found {
			return found, err
		}
	}
	if claims.UserID == "" {
		return false, nil
	}
	raw, found, err := uc.cache.Get(ctx, revokedUserKey+claims.UserID)
	if err != nil || !found {
		return false, err
	}
	cutoff, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		uc.log.Warn().Str("user_id", claims.UserID).Msg("marca de revocación corrupta, se trata como revocado")
		return true, nil
	}
	return claims.IssuedAt == nil || claims.IssuedAt.Unix() <= cutoff, nil
}

func (uc *AuthUseCase) issue(ctx context.Context, user *entity.User) (*dto.AuthResponse, error) {
	admin, err := uc.admins.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if admin == nil || !admin.IsActive {
		return nil, domain.ErrForbidden
	}
	return uc.token(admin)
}

func (uc *AuthUseCase) token(admin *entity.StoreAdmin) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, admin.UserID, admin.StoreID, admin.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		Admin:     *toAdminResponse(admin),
	}, nil
}

func generateOTP() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("auth: generar otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

func toAdminResponse(a *entity.StoreAdmin) *dto.AdminResponse {
	out := &dto.AdminResponse{
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
	}
	if s := a.Store; s != nil {
		out.Store = &dto.StoreResponse{
			ID:          s.ID,
			Name:        s.Name,
			OwnerID:     s.OwnerID,
			Address:     s.Address,
			PhoneNumber: s.PhoneNumber,
			Latitude:    s.Latitude,
			Longitude:   s.Longitude,
			IsOpen:      s.IsOpen,
			IsActive:    s.IsActive,
			CreatedAt:   s.CreatedAt,
			UpdatedAt:   s.UpdatedAt,
		}
	}
	return out
}
