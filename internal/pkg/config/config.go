package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=3500"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	LogFile  string `env:"LOG_FILE"`

	// LegacyStatusCodes reports "not found" outcomes as 400 instead of 404.
	LegacyStatusCodes  bool     `env:"LEGACY_STATUS_CODES, default=false"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*"`

	Auth  AuthConfig
	Users UsersConfig
	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
	Audit AuditConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTTL        time.Duration `env:"JWT_ACCESS_TTL,    default=15m"`
	RefreshTTL       time.Duration `env:"JWT_REFRESH_TTL,   default=168h"`
	LoginRateLimit   int           `env:"LOGIN_RATE_LIMIT,  default=5"`
	LoginRateWindow  time.Duration `env:"LOGIN_RATE_WINDOW, default=60s"`
}

type UsersConfig struct {
	BcryptCost   int      `env:"BCRYPT_COST,   default=10"`
	DefaultRoles []string `env:"DEFAULT_ROLES, default=Customer"`
}

type StoreConfig struct {
	Driver            string `env:"STORE_DRIVER,       default=mongo"`
	UniqueIndexes     bool   `env:"MONGO_UNIQUE_INDEXES, default=false"`
	CollationLocale   string `env:"COLLATION_LOCALE,   default=en"`
	CollationStrength int    `env:"COLLATION_STRENGTH, default=2"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=complaints"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

// RedisConfig is optional; an empty Addr disables token revocation and login
// throttling.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Store.Driver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.Store.Driver)
	}
	return nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
