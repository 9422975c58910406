package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Cache     CacheConfig
	Supabase  SupabaseConfig
	Storage   StorageConfig
	Realtime  RealtimeConfig
	Scheduler SchedulerConfig
	Auth      AuthConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	Timezone string // zona horaria de las tiendas, ej. Asia/Kolkata
	LogLevel string
}

// Location devuelve la zona horaria configurada; si no es válida usa UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL    string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrateOnStart bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig backend del caché de consultas.
type CacheConfig struct {
	Driver        string // memory | redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// SupabaseConfig credenciales del proyecto Supabase (storage y realtime).
type SupabaseConfig struct {
	URL        string
	ServiceKey string
}

// StorageConfig almacenamiento de imágenes.
type StorageConfig struct {
	Driver        string // supabase | local
	LocalDir      string
	PublicBaseURL string
}

// RealtimeConfig origen del feed de cambios de pedidos.
type RealtimeConfig struct {
	Driver    string // postgres | supabase | none
	PGChannel string
}

// SchedulerConfig tareas programadas.
type SchedulerConfig struct {
	LowStockCron      string
	LowStockThreshold int
}

// AuthConfig parámetros de OTP y límites de login.
type AuthConfig struct {
	OTPTTLMinutes      int
	LoginRatePerMinute int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "kirana-admin-api"),
			Timezone: getString(v, "APP_TIMEZONE", "Asia/Kolkata"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "kirana"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MigrateOnStart: getBool(v, "DB_MIGRATE_ON_START", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60*24),
			Issuer:     getString(v, "JWT_ISSUER", "kirana-admin-api"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			CORSOrigins: getString(v, "HTTP_CORS_ORIGINS", "*"),
		},
		Cache: CacheConfig{
			Driver:        getString(v, "CACHE_DRIVER", "memory"),
			RedisAddr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			RedisPassword: getString(v, "REDIS_PASSWORD", ""),
			RedisDB:       getInt(v, "REDIS_DB", 0),
		},
		Supabase: SupabaseConfig{
			URL:        strings.TrimRight(getString(v, "SUPABASE_URL", ""), "/"),
			ServiceKey: getString(v, "SUPABASE_SERVICE_KEY", ""),
		},
		Storage: StorageConfig{
			Driver:        getString(v, "STORAGE_DRIVER", "local"),
			LocalDir:      getString(v, "STORAGE_LOCAL_DIR", "./uploads"),
			PublicBaseURL: strings.TrimRight(getString(v, "STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/uploads"), "/"),
		},
		Realtime: RealtimeConfig{
			Driver:    getString(v, "REALTIME_DRIVER", "postgres"),
			PGChannel: getString(v, "REALTIME_PG_CHANNEL", "order_changes"),
		},
		Scheduler: SchedulerConfig{
			LowStockCron:      getString(v, "LOW_STOCK_CRON", "0 * * * *"),
			LowStockThreshold: getInt(v, "LOW_STOCK_THRESHOLD", 10),
		},
		Auth: AuthConfig{
			OTPTTLMinutes:      getInt(v, "OTP_TTL_MINUTES", 5),
			LoginRatePerMinute: getInt(v, "LOGIN_RATE_PER_MINUTE", 10),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
	}
	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: CACHE_DRIVER inválido %q", c.Cache.Driver)
	}
	switch c.Storage.Driver {
	case "local":
	case "supabase":
		if c.Supabase.URL == "" || c.Supabase.ServiceKey == "" {
			return fmt.Errorf("config: STORAGE_DRIVER=supabase requiere SUPABASE_URL y SUPABASE_SERVICE_KEY")
		}
	default:
		return fmt.Errorf("config: STORAGE_DRIVER inválido %q", c.Storage.Driver)
	}
	switch c.Realtime.Driver {
	case "postgres", "none":
	case "supabase":
		if c.Supabase.URL == "" || c.Supabase.ServiceKey == "" {
			return fmt.Errorf("config: REALTIME_DRIVER=supabase requiere SUPABASE_URL y SUPABASE_SERVICE_KEY")
		}
	default:
		return fmt.Errorf("config: REALTIME_DRIVER inválido %q", c.Realtime.Driver)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
