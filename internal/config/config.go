// Package config はforoサーバーの設定を読み込む。
//
// 設定は次の順に上書きされる: デフォルト値、YAMLファイル、.envファイル、環境変数。
// .envファイルの値は同名の環境変数が存在しない場合にのみ使われる。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DriverSQLite は組み込みSQLite（modernc.org/sqlite）のドライバー名。
	DriverSQLite = "sqlite"
	// DriverPostgres はPostgreSQL（pgx）のドライバー名。
	DriverPostgres = "pgx"

	// minSecretLength はJWT署名鍵の最小バイト長。
	minSecretLength = 32
)

// Config はサーバー全体の設定。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Cache    CacheConfig    `yaml:"cache"`
	CORS     CORSConfig     `yaml:"cors"`
	Events   EventsConfig   `yaml:"events"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig はHTTPサーバーの設定。
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig はデータベース接続の設定。
type DatabaseConfig struct {
	// Driver は sqlite または pgx。
	Driver string `yaml:"driver"`
	// URL はSQLiteのファイルパスまたはPostgreSQLの接続文字列。
	URL string `yaml:"url"`
	// AutoMigrate が真の場合、起動時にマイグレーションを適用する。
	AutoMigrate bool `yaml:"auto_migrate"`
}

// JWTConfig はトークン署名の設定。
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// CacheConfig はレスポンスキャッシュの設定。
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

// CORSConfig はCORSの設定。
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// EventsConfig は監査イベント送信先の設定。URLが空の場合は送信しない。
type EventsConfig struct {
	URL string `yaml:"url"`
	// Timeout は1イベントあたりの送信タイムアウト。
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig はログ出力の設定。
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default はデフォルト設定を返す。
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:      DriverSQLite,
			URL:         "foro.db",
			AutoMigrate: true,
		},
		JWT: JWTConfig{
			TTL: 24 * time.Hour,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    256,
			TTL:     5 * time.Minute,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:4200"},
		},
		Events: EventsConfig{
			Timeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load は設定を読み込んで検証する。
// pathが空の場合はYAMLファイルを読まない。envFileが存在しない場合は無視する。
func Load(path, envFile string) (*Config, error) {
	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf(".envファイルの読み込みに失敗: %w", err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	return load(path, lookup)
}

// load はlookupで環境変数を参照して設定を組み立てる。
func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルのパースに失敗: %w", err)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv は環境変数で設定を上書きする。
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sの値が不正です: %w", key, err)
		}
		*dst = d
		return nil
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sの値が不正です: %w", key, err)
		}
		*dst = b
		return nil
	}

	str("PORT", &cfg.Server.Port)
	str("DB_DRIVER", &cfg.Database.Driver)
	str("DATABASE_URL", &cfg.Database.URL)
	str("JWT_SECRET", &cfg.JWT.Secret)
	str("EVENTSTORE_URL", &cfg.Events.URL)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)

	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORS.AllowedOrigins = origins
	}

	if v, ok := lookup("CACHE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CACHE_SIZEの値が不正です: %w", err)
		}
		cfg.Cache.Size = n
	}

	for key, dst := range map[string]*time.Duration{
		"JWT_TTL":          &cfg.JWT.TTL,
		"CACHE_TTL":        &cfg.Cache.TTL,
		"SHUTDOWN_TIMEOUT": &cfg.Server.ShutdownTimeout,
		"EVENTS_TIMEOUT":   &cfg.Events.Timeout,
	} {
		if err := dur(key, dst); err != nil {
			return err
		}
	}
	if err := boolean("CACHE_ENABLED", &cfg.Cache.Enabled); err != nil {
		return err
	}
	return boolean("DB_AUTO_MIGRATE", &cfg.Database.AutoMigrate)
}

// Validate は設定値の整合性を検証する。
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("ポート番号が空です"))
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("未対応のデータベースドライバーです: %q", c.Database.Driver))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URLが空です"))
	}
	if len(c.JWT.Secret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRETは%dバイト以上である必要があります", minSecretLength))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("JWT_TTLは正の値である必要があります"))
	}
	if c.Cache.Enabled && (c.Cache.Size <= 0 || c.Cache.TTL <= 0) {
		errs = append(errs, errors.New("キャッシュのサイズと有効期限は正の値である必要があります"))
	}
	if c.Events.URL != "" && c.Events.Timeout <= 0 {
		errs = append(errs, errors.New("EVENTS_TIMEOUTは正の値である必要があります"))
	}
	return errors.Join(errs...)
}

// Addr はHTTPサーバーの待ち受けアドレスを返す。
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
