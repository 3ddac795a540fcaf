package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// ErrInvalidConfig is returned by Load when a decoded config is unusable.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env        string    `yaml:"env"`
	BaseURL    string    `yaml:"base_url"`
	AppURL     string    `yaml:"app_url"`
	Storage    string    `yaml:"storage"`
	Alias      Alias     `yaml:"alias"`
	HTTPServer `yaml:"http_server"`
	Postgres   `yaml:"postgres"`
	Preview    Preview   `yaml:"preview"`
	Auth       Auth      `yaml:"auth"`
	RateLimit  RateLimit `yaml:"rate_limit"`
	Log        Log       `yaml:"log"`
}

type Alias struct {
	Length      int `yaml:"length"`
	MaxAttempts int `yaml:"max_attempts"`
}

var defaultAlias = Alias{
	Length:      6,
	MaxAttempts: 20,
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	APIRoot        string        `yaml:"api_root"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	APIRoot:        "/",
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Postgres struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnectAttempts int           `yaml:"connect_attempts"`
	ConnectDelay    time.Duration `yaml:"connect_delay"`
	MigrationsPath  string        `yaml:"migrations_path"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
	ConnectAttempts: 5,
	ConnectDelay:    2 * time.Second,
	MigrationsPath:  "file://migrations",
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

// Preview configures the Open Graph image lookup done on link creation.
type Preview struct {
	Enabled      bool          `yaml:"enabled"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	UserAgent    string        `yaml:"user_agent"`
}

var defaultPreview = Preview{
	Enabled:      true,
	Timeout:      5 * time.Second,
	MaxBodyBytes: 1 << 20,
	UserAgent:    "link-shortener-preview/1.0",
}

// Auth configures session verification. An empty JWTSecret disables sessions.
type Auth struct {
	JWTSecret  string `yaml:"jwt_secret"`
	CookieName string `yaml:"cookie_name"`
}

var defaultAuth = Auth{
	CookieName: "session",
}

type RateLimit struct {
	Window     time.Duration `yaml:"window"`
	CreateMax  int           `yaml:"create_max"`
	DefaultMax int           `yaml:"default_max"`
}

var defaultRateLimit = RateLimit{
	Window:     15 * time.Minute,
	CreateMax:  20,
	DefaultMax: 1000,
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

var defaultLog = Log{
	Level: "info",
}

// SlogLevel returns the configured level, falling back to info.
func (l *Log) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.BaseURL = "http://localhost:8080"
	cfg.AppURL = "http://localhost:3000"
	cfg.Storage = StoragePostgres
	cfg.Alias = defaultAlias
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
	cfg.Preview = defaultPreview
	cfg.Auth = defaultAuth
	cfg.RateLimit = defaultRateLimit
	cfg.Log = defaultLog
}

func (cfg *Config) validate() error {
	switch cfg.Env {
	case EnvDev, EnvStage, EnvProd:
	default:
		return fmt.Errorf("%w: unknown env %q", ErrInvalidConfig, cfg.Env)
	}

	switch cfg.Storage {
	case StorageMemory:
	case StoragePostgres:
		if cfg.Postgres.User == "" || cfg.Postgres.DB == "" {
			return fmt.Errorf("%w: postgres user and db are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, cfg.Storage)
	}

	if cfg.Env == EnvProd && (cfg.HTTPServer.CertFile == "" || cfg.HTTPServer.KeyFile == "") {
		return fmt.Errorf("%w: cert_file and key_file are required in prod", ErrInvalidConfig)
	}

	if cfg.BaseURL == "" {
		return fmt.Errorf("%w: base_url is required", ErrInvalidConfig)
	}

	return nil
}
