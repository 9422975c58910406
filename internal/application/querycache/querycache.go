// Package querycache cachea las lecturas del panel por tienda y recurso. El TTL de cada recurso
// es su política de frescura; las escrituras y los eventos en tiempo real invalidan por prefijo.
package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
)

const keyPrefix = "kirana"

// Resource recurso cacheable y su TTL.
type Resource struct {
	Name string
	TTL  time.Duration
}

// Recursos del panel.
var (
	Analytics           = Resource{"analytics", 60 * time.Second}
	OrderTrends         = Resource{"orderTrends", 60 * time.Second}
	RevenueTrends       = Resource{"revenueTrends", 60 * time.Second}
	TopProducts         = Resource{"topProducts", 60 * time.Second}
	CategoryBreakdown   = Resource{"categoryBreakdown", 60 * time.Second}
	ReportData          = Resource{"reportData", 30 * time.Second}
	Customers           = Resource{"customers", 60 * time.Second}
	Customer            = Resource{"customer", 30 * time.Second}
	CustomerSearch      = Resource{"customerSearch", 30 * time.Second}
	Dashboard           = Resource{"dashboard", 30 * time.Second}
	Orders              = Resource{"orders", 30 * time.Second}
	Products            = Resource{"products", 30 * time.Second}
	Categories          = Resource{"categories", 5 * time.Minute}
	StoreSettings       = Resource{"storeSettings", 5 * time.Minute}
	StaffMembers        = Resource{"staffMembers", 60 * time.Second}
	StoreHours          = Resource{"storeHours", 5 * time.Minute}
	Profile             = Resource{"profile", 5 * time.Minute}
	Notifications       = Resource{"notifications", 30 * time.Second}
	NotificationsUnread = Resource{"notifications-unread", 30 * time.Second}
)

// GlobalScope se usa en lugar del storeID para datos compartidos (categorías).
const GlobalScope = "global"

// Cache get-or-load sobre un ports.Cache. Los errores del backend se registran y se
// resuelven cargando desde la fuente; nunca hacen fallar la lectura.
type Cache struct {
	backend ports.Cache
	metrics ports.Metrics
	log     zerolog.Logger
}

// New construye la caché. metrics puede ser nil.
func New(backend ports.Cache, metrics ports.Metrics, log zerolog.Logger) *Cache {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Cache{backend: backend, metrics: metrics, log: log}
}

// Key arma kirana:{storeID}:{resource}[:{hash de params}].
func Key(storeID string, res Resource, params any) string {
	base := fmt.Sprintf("%s:%s:%s", keyPrefix, storeID, res.Name)
	if params == nil {
		return base
	}
	if s, ok := params.(string); ok && s == "" {
		return base
	}
	raw, err := json.Marshal(params)
	if err != nil {
		raw = []byte(fmt.Sprint(params))
	}
	sum := sha256.Sum256(raw)
	return base + ":" + hex.EncodeToString(sum[:8])
}

// GetOrLoad devuelve el valor cacheado de (storeID, res, params) o lo carga con load y lo guarda por res.TTL.
func GetOrLoad[T any](ctx context.Context, c *Cache, storeID string, res Resource, params any, load func(ctx context.Context) (T, error)) (T, error) {
	key := Key(storeID, res, params)
	raw, found, err := c.backend.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: lectura fallida")
	}
	if found {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			c.metrics.CacheResult(res.Name, true)
			return v, nil
		}
		c.log.Warn().Str("key", key).Msg("cache: valor corrupto, recargando")
	}
	c.metrics.CacheResult(res.Name, false)

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: no se pudo serializar")
		return v, nil
	}
	if err := c.backend.Set(ctx, key, data, res.TTL); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: escritura fallida")
	}
	return v, nil
}

// Invalidate borra todas las entradas de los recursos dados para la tienda.
func (c *Cache) Invalidate(ctx context.Context, storeID string, resources ...Resource) error {
	var errs []string
	for _, res := range resources {
		base := Key(storeID, res, nil)
		if err := c.backend.Delete(ctx, base); err != nil {
			errs = append(errs, err.Error())
		}
		if err := c.backend.DeletePrefix(ctx, base+":"); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("querycache: invalidate: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Evict invalida como Invalidate y registra el fallo como warn. La usan las escrituras ya
// confirmadas en la base de datos, que no deben fallar por la caché.
func (c *Cache) Evict(ctx context.Context, storeID string, resources ...Resource) {
	if err := c.Invalidate(ctx, storeID, resources...); err != nil {
		c.log.Warn().Err(err).Str("store_id", storeID).Strs("resources", Names(resources...)).Msg("cache: invalidación fallida")
	}
}

// Forget borra una sola entrada (recurso con parámetros concretos).
func (c *Cache) Forget(ctx context.Context, storeID string, res Resource, params any) error {
	return c.backend.Delete(ctx, Key(storeID, res, params))
}

// Names nombres de recursos, para anunciar invalidaciones a los clientes.
func Names(resources ...Resource) []string {
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.Name)
	}
	return out
}
