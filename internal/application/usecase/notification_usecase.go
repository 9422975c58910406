package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/application/realtime"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
	"github.com/jhoicas/kirana-admin-api/pkg/money"
)

const (
	notificationListSize = 50
	lowStockListSize     = 5
	lowStockAlertPrefix  = "kirana:lowstock:"
)

var _ realtime.Notifier = (*NotificationUseCase)(nil)

// NotificationUseCase avisos del panel: lectura por usuario y productores (pedido nuevo, stock bajo).
type NotificationUseCase struct {
	repo      repository.NotificationRepository
	admins    repository.StoreAdminRepository
	stores    repository.StoreRepository
	analytics repository.AnalyticsRepository
	cache     *querycache.Cache
	kv        ports.Cache
	publisher ports.EventPublisher
	threshold int
	loc       *time.Location
	log       zerolog.Logger
	now       func() time.Time
}

// NewNotificationUseCase construye el caso de uso. kv guarda la marca diaria de alerta de stock.
func NewNotificationUseCase(
	repo repository.NotificationRepository,
	admins repository.StoreAdminRepository,
	stores repository.StoreRepository,
	analytics repository.AnalyticsRepository,
	cache *querycache.Cache,
	kv ports.Cache,
	publisher ports.EventPublisher,
	threshold int,
	loc *time.Location,
	log zerolog.Logger,
) *NotificationUseCase {
	if threshold <= 0 {
		threshold = entity.LowStockThreshold
	}
	if loc == nil {
		loc = time.UTC
	}
	return &NotificationUseCase{
		repo:      repo,
		admins:    admins,
		stores:    stores,
		analytics: analytics,
		cache:     cache,
		kv:        kv,
		publisher: publisher,
		threshold: threshold,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// List los 50 avisos más recientes del usuario.
func (uc *NotificationUseCase) List(ctx context.Context, storeID, userID string) ([]dto.NotificationResponse, error) {
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.Notifications, userID, func(ctx context.Context) ([]dto.NotificationResponse, error) {
		list, err := uc.repo.ListByUser(ctx, userID, notificationListSize)
		if err != nil {
			return nil, err
		}
		out := make([]dto.NotificationResponse, 0, len(list))
		for _, n := range list {
			out = append(out, toNotificationResponse(n))
		}
		return out, nil
	})
}

// UnreadCount avisos sin leer del usuario.
func (uc *NotificationUseCase) UnreadCount(ctx context.Context, storeID, userID string) (*dto.UnreadCountResponse, error) {
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.NotificationsUnread, userID, func(ctx context.Context) (*dto.UnreadCountResponse, error) {
		n, err := uc.repo.CountUnread(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &dto.UnreadCountResponse{Count: n}, nil
	})
}

// MarkRead marca un aviso del usuario como leído.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, storeID, userID, id string) error {
	ok, err := uc.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	uc.forget(ctx, storeID, userID)
	return nil
}

// MarkAllRead marca todos los avisos del usuario como leídos.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, storeID, userID string) error {
	if err := uc.repo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	uc.forget(ctx, storeID, userID)
	return nil
}

// Delete elimina un aviso del usuario.
func (uc *NotificationUseCase) Delete(ctx context.Context, storeID, userID, id string) error {
	ok, err := uc.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	uc.forget(ctx, storeID, userID)
	return nil
}

// NotifyNewOrder avisa a todos los administradores activos de la tienda.
func (uc *NotificationUseCase) NotifyNewOrder(ctx context.Context, o realtime.NewOrder) error {
	admins, err := uc.admins.ListByStore(ctx, o.StoreID)
	if err != nil {
		return err
	}
	n := entity.Notification{
		Title:   "New order received",
		Message: fmt.Sprintf("Order #%s - %s", o.OrderNumber, money.FormatINR(o.TotalAmount)),
		Type:    entity.NotificationOrder,
		Metadata: map[string]any{
			"order_id":     o.ID,
			"order_number": o.OrderNumber,
			"total_amount": o.TotalAmount.StringFixed(2),
		},
	}
	return uc.notifyAdmins(ctx, o.StoreID, admins, n, func(a *entity.StoreAdmin) bool { return a.IsActive })
}

// CheckLowStock job periódico: por cada tienda activa con productos bajo el umbral avisa al owner y
// a los managers, como máximo una vez por tienda y día.
func (uc *NotificationUseCase) CheckLowStock(ctx context.Context) error {
	stores, err := uc.stores.ListActive(ctx)
	if err != nil {
		return err
	}
	day := uc.now().In(uc.loc).Format(dateLayout)
	var failed int
	for _, s := range stores {
		if err := uc.checkStoreLowStock(ctx, s.ID, day); err != nil {
			failed++
			uc.log.Error().Err(err).Str("store_id", s.ID).Msg("alerta de stock bajo fallida")
		}
	}
	if failed > 0 {
		return fmt.Errorf("notifications: stock bajo falló en %d de %d tiendas", failed, len(stores))
	}
	return nil
}

func (uc *NotificationUseCase) checkStoreLowStock(ctx context.Context, storeID, day string) error {
	key := lowStockAlertPrefix + storeID + ":" + day
	_, sent, err := uc.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if sent {
		return nil
	}
	products, err := uc.analytics.ListLowStock(ctx, storeID, uc.threshold, lowStockListSize)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}
	admins, err := uc.admins.ListByStore(ctx, storeID)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, fmt.Sprintf("%s (%d left)", p.Name, p.StockQuantity))
		ids = append(ids, p.ID)
	}
	n := entity.Notification{
		Title:    "Low stock alert",
		Message:  "Running low: " + strings.Join(names, ", "),
		Type:     entity.NotificationStore,
		Metadata: map[string]any{"product_ids": ids, "threshold": uc.threshold},
	}
	err = uc.notifyAdmins(ctx, storeID, admins, n, func(a *entity.StoreAdmin) bool {
		return a.IsActive && a.CanManageCatalog()
	})
	if err != nil {
		return err
	}
	return uc.kv.Set(ctx, key, []byte("1"), 24*time.Hour)
}

func (uc *NotificationUseCase) notifyAdmins(ctx context.Context, storeID string, admins []*entity.StoreAdmin, tmpl entity.Notification, include func(*entity.StoreAdmin) bool) error {
	now := uc.now()
	for _, a := range admins {
		if !include(a) {
			continue
		}
		n := tmpl
		n.ID = uuid.New().String()
		n.UserID = a.UserID
		n.CreatedAt = now
		if err := uc.repo.Create(ctx, &n); err != nil {
			return err
		}
		uc.forget(ctx, storeID, a.UserID)
	}
	uc.publisher.Publish(storeID, invalidateEvent(querycache.Notifications, querycache.NotificationsUnread))
	return nil
}

func (uc *NotificationUseCase) forget(ctx context.Context, storeID, userID string) {
	for _, res := range []querycache.Resource{querycache.Notifications, querycache.NotificationsUnread} {
		if err := uc.cache.Forget(ctx, storeID, res, userID); err != nil {
			uc.log.Warn().Err(err).Str("store_id", storeID).Str("resource", res.Name).Msg("no se pudo invalidar avisos")
		}
	}
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt,
	}
}
