package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string `yaml:"port"`      // サーバーポート（8080）
	GoEnv    string `yaml:"go_env"`    // dev/prod
	LogLevel string `yaml:"log_level"` // debug/info/warn/error

	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Cache    CacheConfig    `yaml:"cache"`
}

type DatabaseConfig struct {
	Driver      string `yaml:"driver"` // postgres / sqlite
	URL         string `yaml:"url"`    // DATABASE_URL（あれば最優先）
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	SSLMode     string `yaml:"sslmode"`
	SQLitePath  string `yaml:"sqlite_path"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type JWTConfig struct {
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	Audience string        `yaml:"audience"`
	TTL      time.Duration `yaml:"ttl"`
}

// 外部カタログ(DummyJSON)
type CatalogConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerMinute int           `yaml:"rate_per_minute"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// 署名鍵の最低長（HS256）
const minJWTSecretLen = 32

func Default() Config {
	return Config{
		Port:     "8080",
		GoEnv:    "dev",
		LogLevel: "info",
		Database: DatabaseConfig{
			Driver:      "postgres",
			Host:        "localhost",
			Port:        5432,
			User:        "postgres",
			Password:    "postgres",
			Name:        "app",
			SSLMode:     "disable",
			SQLitePath:  "app.db",
			AutoMigrate: true,
		},
		JWT: JWTConfig{
			Issuer:   "AbySalto.Mid",
			Audience: "AbySalto.Mid.Client",
			TTL:      60 * time.Minute,
		},
		Catalog: CatalogConfig{
			BaseURL:       "https://dummyjson.com",
			Timeout:       30 * time.Second,
			RatePerMinute: 30,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
	}
}

// Loadは .env → CONFIG_FILE(yaml) → 環境変数 の順で読み、後勝ちで上書きする。
func Load() (Config, error) {
	// .envは無くてもよい
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString("PORT", &cfg.Port)
	setString("GO_ENV", &cfg.GoEnv)
	setString("LOG_LEVEL", &cfg.LogLevel)

	setString("DB_DRIVER", &cfg.Database.Driver)
	setString("DATABASE_URL", &cfg.Database.URL)
	setString("POSTGRES_HOST", &cfg.Database.Host)
	setString("POSTGRES_USER", &cfg.Database.User)
	setString("POSTGRES_PASSWORD", &cfg.Database.Password)
	setString("POSTGRES_DB", &cfg.Database.Name)
	setString("POSTGRES_SSLMODE", &cfg.Database.SSLMode)
	setString("SQLITE_PATH", &cfg.Database.SQLitePath)
	if err := setInt("POSTGRES_PORT", &cfg.Database.Port); err != nil {
		return err
	}
	if err := setBool("DB_AUTO_MIGRATE", &cfg.Database.AutoMigrate); err != nil {
		return err
	}

	setString("JWT_SECRET", &cfg.JWT.Secret)
	setString("JWT_ISSUER", &cfg.JWT.Issuer)
	setString("JWT_AUDIENCE", &cfg.JWT.Audience)
	if err := setMinutes("JWT_EXPIRATION_MINUTES", &cfg.JWT.TTL); err != nil {
		return err
	}

	setString("DUMMYJSON_BASE_URL", &cfg.Catalog.BaseURL)
	if err := setSeconds("DUMMYJSON_TIMEOUT_SECONDS", &cfg.Catalog.Timeout); err != nil {
		return err
	}
	if err := setInt("DUMMYJSON_RATE_PER_MINUTE", &cfg.Catalog.RatePerMinute); err != nil {
		return err
	}

	if err := setBool("PRODUCT_CACHE_ENABLED", &cfg.Cache.Enabled); err != nil {
		return err
	}
	if err := setMinutes("PRODUCT_CACHE_TTL_MINUTES", &cfg.Cache.TTL); err != nil {
		return err
	}
	return nil
}

// 必須チェック
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite: %q", c.Database.Driver)
	}
	if c.Database.Driver == "sqlite" && c.Database.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required")
	}
	if len(c.JWT.Secret) < minJWTSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLen)
	}
	if c.JWT.Issuer == "" {
		return fmt.Errorf("JWT_ISSUER is required")
	}
	if c.JWT.Audience == "" {
		return fmt.Errorf("JWT_AUDIENCE is required")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_MINUTES must be positive")
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("DUMMYJSON_BASE_URL is required")
	}
	if c.Catalog.RatePerMinute <= 0 {
		return fmt.Errorf("DUMMYJSON_RATE_PER_MINUTE must be positive")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("PRODUCT_CACHE_TTL_MINUTES must be positive")
	}
	return nil
}

// ":8080"形式のlisten addr
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be number: %w", key, err)
	}
	*dst = i
	return nil
}

func setBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s must be bool: %w", key, err)
	}
	*dst = b
	return nil
}

func setMinutes(key string, dst *time.Duration) error {
	var n int
	if err := setInt(key, &n); err != nil {
		return err
	}
	if n != 0 {
		*dst = time.Duration(n) * time.Minute
	}
	return nil
}

func setSeconds(key string, dst *time.Duration) error {
	var n int
	if err := setInt(key, &n); err != nil {
		return err
	}
	if n != 0 {
		*dst = time.Duration(n) * time.Second
	}
	return nil
}
