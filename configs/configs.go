package configs

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the typed view of the process environment.
type Config struct {
	Env           string
	Port          string
	PublicBaseURL string

	DB DatabaseConfig

	RequestTimeout   time.Duration
	AdminJWTSecret   string
	CORSAllowOrigins string
	RateLimitMax     int
	RateLimitWindow  time.Duration
}

// DatabaseConfig carries connection and pool settings for the relational store.
type DatabaseConfig struct {
	Driver      string
	URL         string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	SQLitePath  string
	AutoMigrate bool

	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxIdleTime  time.Duration
	ConnMaxLifetime  time.Duration
	ConnectTimeout   time.Duration
	StatementTimeout time.Duration
}

// IsDevelopment reports whether internal error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// LoadEnv loads a .env file when one is present. A missing file is not an error;
// the process environment is used as-is. It returns whether a file was loaded.
func LoadEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// Load reads the configuration from the environment, applying defaults.
func Load() *Config {
	e := newEnvSource()
	return &Config{
		Env:           strings.ToLower(e.str("APP_ENV", EnvProduction)),
		Port:          e.str("PORT", "8888"),
		PublicBaseURL: strings.TrimRight(e.str("PUBLIC_BASE_URL", "https://touching-dev.com"), "/"),
		DB: DatabaseConfig{
			Driver:      strings.ToLower(e.str("DB_DRIVER", DriverPostgres)),
			URL:         e.str("DATABASE_URL", ""),
			Host:        e.str("DB_HOST", "localhost"),
			Port:        e.str("DB_PORT", "5432"),
			User:        e.str("DB_USER", "postgres"),
			Password:    e.str("DB_PASSWORD", ""),
			Name:        e.str("DB_NAME", "touching"),
			SSLMode:     e.str("DB_SSLMODE", "disable"),
			SQLitePath:  e.str("DB_SQLITE_PATH", "touching.db"),
			AutoMigrate: e.bool("DB_AUTO_MIGRATE", false),

			MaxOpenConns:     e.int("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:     e.int("DB_MAX_IDLE_CONNS", 2),
			ConnMaxIdleTime:  e.duration("DB_CONN_MAX_IDLE_TIME", 30*time.Second),
			ConnMaxLifetime:  e.duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnectTimeout:   e.duration("DB_CONNECT_TIMEOUT", 30*time.Second),
			StatementTimeout: e.duration("DB_STATEMENT_TIMEOUT", 45*time.Second),
		},
		RequestTimeout:   e.duration("REQUEST_TIMEOUT", 5*time.Second),
		AdminJWTSecret:   e.str("ADMIN_JWT_SECRET", ""),
		CORSAllowOrigins: e.str("CORS_ALLOW_ORIGINS", "http://localhost:8888,http://localhost:5173"),
		RateLimitMax:     e.int("RATE_LIMIT_MAX", 100),
		RateLimitWindow:  e.duration("RATE_LIMIT_WINDOW", 15*time.Minute),
	}
}

// PostgresDSN builds the driver DSN. DATABASE_URL wins when set.
func (d DatabaseConfig) PostgresDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d statement_timeout=%d application_name=touching-backend",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
		int(d.ConnectTimeout.Seconds()), d.StatementTimeout.Milliseconds(),
	)
}

// envSource is a snapshot of the process environment. Keys keep their
// variable names; the delimiter never occurs in them so the map stays flat.
type envSource struct {
	k *koanf.Koanf
}

func newEnvSource() envSource {
	k := koanf.New(".")
	// env.Provider reads os.Environ and does not fail.
	_ = k.Load(env.Provider("", ".", func(s string) string { return s }), nil)
	return envSource{k: k}
}

// str returns the trimmed value of key, or def when it is unset or blank.
func (e envSource) str(key, def string) string {
	if v := strings.TrimSpace(e.k.String(key)); v != "" {
		return v
	}
	return def
}

func (e envSource) int(key string, def int) int {
	n, err := strconv.Atoi(e.str(key, ""))
	if err != nil {
		return def
	}
	return n
}

func (e envSource) bool(key string, def bool) bool {
	b, err := strconv.ParseBool(e.str(key, ""))
	if err != nil {
		return def
	}
	return b
}

// duration accepts Go duration strings ("45s") or bare seconds ("45").
func (e envSource) duration(key string, def time.Duration) time.Duration {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
