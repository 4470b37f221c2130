package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration, read once at startup.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Magento  MagentoConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // minutes
	ConnMaxIdleTime int // minutes
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or a file path
}

type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	TrustedProxies []string
}

// MagentoConfig bounds the XML-RPC client shared by all channels.
type MagentoConfig struct {
	RequestTimeout  time.Duration
	MaxResponseSize int64
}

// Load reads config.toml (from the working directory or /app) and overlays
// MSYNC_-prefixed environment variables, e.g. MSYNC_DATABASE_PASSWORD.
// A missing file is fine; every field has a working default except the
// production checks in validate.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("MSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App:      loadApp(v),
		Database: loadDatabase(v),
		Log:      loadLog(v),
		HTTP:     loadHTTP(v),
		Magento:  loadMagento(v),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadApp(v *viper.Viper) AppConfig {
	return AppConfig{
		Name: strOr(v, "app.name", "magento-sync"),
		Env:  strOr(v, "app.env", "development"),
		Port: strOr(v, "app.port", "8080"),
	}
}

func loadDatabase(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Host:            strOr(v, "database.host", "localhost"),
		Port:            intOr(v, "database.port", 5432),
		User:            strOr(v, "database.user", "postgres"),
		Password:        v.GetString("database.password"),
		DBName:          strOr(v, "database.dbname", "magento_sync"),
		SSLMode:         strOr(v, "database.sslmode", "disable"),
		MaxOpenConns:    intOr(v, "database.max_open_conns", 25),
		MaxIdleConns:    intOr(v, "database.max_idle_conns", 5),
		ConnMaxLifetime: intOr(v, "database.conn_max_lifetime", 60),
		ConnMaxIdleTime: intOr(v, "database.conn_max_idle_time", 30),
	}
}

func loadLog(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:  strOr(v, "log.level", "info"),
		Format: strOr(v, "log.format", "console"),
		Output: strOr(v, "log.output", "stdout"),
	}
}

func loadHTTP(v *viper.Viper) HTTPConfig {
	return HTTPConfig{
		ReadTimeout:    durOr(v, "http.read_timeout", 15*time.Second),
		WriteTimeout:   durOr(v, "http.write_timeout", 15*time.Second),
		IdleTimeout:    durOr(v, "http.idle_timeout", 60*time.Second),
		MaxHeaderBytes: intOr(v, "http.max_header_bytes", 1<<20),
		TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
	}
}

func loadMagento(v *viper.Viper) MagentoConfig {
	return MagentoConfig{
		RequestTimeout:  durOr(v, "magento.request_timeout", 30*time.Second),
		MaxResponseSize: int64Or(v, "magento.max_response_size", 10<<20),
	}
}

// Zero values count as unset so MSYNC_FOO=0 does not break pool sizing;
// anything that must reject zero does so in validate instead.

func strOr(v *viper.Viper, key, def string) string {
	if s := v.GetString(key); s != "" {
		return s
	}
	return def
}

func intOr(v *viper.Viper, key string, def int) int {
	if n := v.GetInt(key); n != 0 {
		return n
	}
	return def
}

func int64Or(v *viper.Viper, key string, def int64) int64 {
	if n := v.GetInt64(key); n != 0 {
		return n
	}
	return def
}

func durOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	if d := v.GetDuration(key); d != 0 {
		return d
	}
	return def
}

func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}
	return nil
}

// DSN builds a postgres connection URL; user and password are escaped so
// credentials with reserved characters survive.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
