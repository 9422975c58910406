package usecase

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
	"github.com/jhoicas/kirana-admin-api/internal/infrastructure/cache"
)

func newTestCache(t *testing.T) (*querycache.Cache, *cache.Memory) {
	t.Helper()
	mem := cache.NewMemory(time.Minute)
	t.Cleanup(func() { _ = mem.Close() })
	return querycache.New(mem, ports.NopMetrics{}, zerolog.Nop()), mem
}

// ── pedidos ───────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	mu      sync.Mutex
	orders  map[string]*entity.Order
	history []*entity.OrderStatusHistory
	lists   int
	// beforeUpdate simula otra transacción que escribe entre la lectura y el UPDATE.
	beforeUpdate func(o *entity.Order)
}

func newFakeOrderRepo(orders ...*entity.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[string]*entity.Order{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) List(_ context.Context, storeID string, f repository.OrderFilter) ([]*entity.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	var out []*entity.Order
	for _, o := range r.orders {
		if o.StoreID != storeID || (f.Status != "" && o.Status != f.Status) {
			continue
		}
		if f.DateFrom != nil && o.CreatedAt.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && o.CreatedAt.After(*f.DateTo) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) ListRecent(ctx context.Context, storeID string, limit int) ([]*entity.Order, error) {
	list, _, err := r.List(ctx, storeID, repository.OrderFilter{})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, err
}

func (r *fakeOrderRepo) ListByCustomer(_ context.Context, storeID, customerID string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.orders {
		if o.StoreID == storeID && o.CustomerID == customerID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id, from, to string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(o)
	}
	if o.Status != from {
		return domain.ErrConflict
	}
	o.Status = to
	o.UpdatedAt = at
	return nil
}

func (r *fakeOrderRepo) AddStatusHistory(_ context.Context, h *entity.OrderStatusHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, h)
	return nil
}

func (r *fakeOrderRepo) ListStatusHistory(_ context.Context, orderID string) ([]*entity.OrderStatusHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.OrderStatusHistory
	for _, h := range r.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

// ── administradores y usuarios ────────────────────────────────────────────────

type fakeAdminRepo struct {
	admins    map[string]*entity.StoreAdmin
	updateErr error
}

func newFakeAdminRepo(admins ...*entity.StoreAdmin) *fakeAdminRepo {
	r := &fakeAdminRepo{admins: map[string]*entity.StoreAdmin{}}
	for _, a := range admins {
		r.admins[a.ID] = a
	}
	return r
}

func (r *fakeAdminRepo) Create(_ context.Context, a *entity.StoreAdmin) error {
	r.admins[a.ID] = a
	return nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id string) (*entity.StoreAdmin, error) {
	a, ok := r.admins[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdminRepo) GetByUserID(_ context.Context, userID string) (*entity.StoreAdmin, error) {
	for _, a := range r.admins {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	for _, a := range r.admins {
		if a.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAdminRepo) ListByStore(_ context.Context, storeID string) ([]*entity.StoreAdmin, error) {
	var out []*entity.StoreAdmin
	for _, a := range r.admins {
		if a.StoreID == storeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAdminRepo) Update(_ context.Context, a *entity.StoreAdmin) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	cp := *a
	r.admins[a.ID] = &cp
	return nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*entity.User, error) {
	for _, u := range r.users {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateEmail(_ context.Context, id, email string) error {
	r.users[id].Email = email
	return nil
}

// ── tiendas y horario ─────────────────────────────────────────────────────────

type fakeStoreRepo struct {
	stores map[string]*entity.Store
}

func (r *fakeStoreRepo) Create(_ context.Context, s *entity.Store) error {
	r.stores[s.ID] = s
	return nil
}

func (r *fakeStoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStoreRepo) Update(_ context.Context, s *entity.Store) error {
	r.stores[s.ID] = s
	return nil
}

func (r *fakeStoreRepo) ListActive(context.Context) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range r.stores {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeHoursRepo struct {
	hours    map[string][]entity.StoreHours
	replaced int
}

func (r *fakeHoursRepo) ListByStore(_ context.Context, storeID string) ([]entity.StoreHours, error) {
	return r.hours[storeID], nil
}

func (r *fakeHoursRepo) ReplaceAll(_ context.Context, storeID string, hours []entity.StoreHours) error {
	r.replaced++
	r.hours[storeID] = hours
	return nil
}

// fakeTx ejecuta fn sobre los mismos repositorios, sin rollback.
type fakeTx struct {
	repos ports.TxRepos
	runs  int
}

func (tx *fakeTx) Run(_ context.Context, fn func(ports.TxRepos) error) error {
	tx.runs++
	return fn(tx.repos)
}

type recordingRevoker struct {
	users []string
}

func (r *recordingRevoker) RevokeUser(_ context.Context, userID string) error {
	r.users = append(r.users, userID)
	return nil
}

// ── eventos, avisos y almacenamiento ──────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.StoreEvent
}

func (p *recordingPublisher) Publish(_ string, ev ports.StoreEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fakeNotificationRepo struct {
	items []*entity.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.items = append(r.items, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range r.items {
		if n.UserID == userID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	var c int
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) (bool, error) {
	for _, n := range r.items {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range r.items {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id, userID string) (bool, error) {
	for i, n := range r.items {
		if n.ID == id && n.UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeLowStockRepo struct {
	repository.AnalyticsRepository
	low   map[string][]repository.LowStockProduct
	calls int
}

func (r *fakeLowStockRepo) ListLowStock(_ context.Context, storeID string, _, limit int) ([]repository.LowStockProduct, error) {
	r.calls++
	list := r.low[storeID]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

type fakeStorage struct {
	uploads map[string][]byte
	deleted []string
}

func (s *fakeStorage) Upload(_ context.Context, bucket, path, _ string, body io.Reader, _ int64) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	s.uploads[bucket+"/"+path] = buf.Bytes()
	return nil
}

func (s *fakeStorage) Delete(_ context.Context, bucket string, paths ...string) error {
	for _, p := range paths {
		s.deleted = append(s.deleted, bucket+"/"+p)
	}
	return nil
}

func (s *fakeStorage) PublicURL(bucket, path string) string {
	return "https://cdn.test/" + bucket + "/" + path
}

type fakeProductRepo struct {
	products map[string]*entity.Product
	lists    int
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, storeID string, f repository.ProductFilter) ([]*entity.Product, error) {
	r.lists++
	var out []*entity.Product
	for _, p := range r.products {
		if p.StoreID != storeID {
			continue
		}
		if f.LowStockBelow > 0 && p.StockQuantity >= f.LowStockBelow {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
