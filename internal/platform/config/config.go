package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// EnvPrefix は環境変数による上書きに使う接頭辞です。
const EnvPrefix = "HR_"

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Database DatabaseConfig `yaml:"database" envPrefix:"DB_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
}

// DatabaseConfig は接続先データベースに関する設定です。
type DatabaseConfig struct {
	Driver            string        `yaml:"driver" env:"DRIVER"`
	Path              string        `yaml:"path" env:"PATH"`
	Host              string        `yaml:"host" env:"HOST"`
	Port              int           `yaml:"port" env:"PORT"`
	User              string        `yaml:"user" env:"USER"`
	Password          string        `yaml:"password" env:"PASSWORD"`
	Name              string        `yaml:"name" env:"NAME"`
	SSLMode           string        `yaml:"ssl_mode" env:"SSL_MODE"`
	ConnectTimeout    time.Duration `yaml:"-"`
	ConnectTimeoutRaw string        `yaml:"connect_timeout" env:"CONNECT_TIMEOUT"`
}

// LogConfig はログ出力に関する設定です。
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Load は指定されたパスの設定ファイルを読み込み、環境変数で上書きします。
// path が空の場合は環境変数と既定値のみを使用します。
func Load(path string) (*Config, error) {
	return load(path, nil)
}

// LoadWithEnv は os の環境変数の代わりに environ を使用します。
func LoadWithEnv(path string, environ map[string]string) (*Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	return load(path, environ)
}

func load(path string, environ map[string]string) (*Config, error) {
	var cfg Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}
	return c.Log.validateAndNormalize()
}

func (d *DatabaseConfig) validateAndNormalize() error {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	switch d.Driver {
	case "", DriverSQLite, "sqlite":
		d.Driver = DriverSQLite
		if strings.TrimSpace(d.Path) == "" {
			return errors.New("config: database.path must be set for sqlite3")
		}
	case DriverPostgres, "postgresql":
		d.Driver = DriverPostgres
		if d.Host == "" {
			return errors.New("config: database.host must be set")
		}
		if d.Port == 0 {
			return errors.New("config: database.port must be set")
		}
		if d.User == "" {
			return errors.New("config: database.user must be set")
		}
		if d.Password == "" {
			return errors.New("config: database.password must be set")
		}
		if d.Name == "" {
			return errors.New("config: database.name must be set")
		}
		if d.SSLMode == "" {
			d.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("config: unsupported database.driver %q", d.Driver)
	}

	timeout, err := parseDurationAllowEmpty(d.ConnectTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: database.connect_timeout: %w", err)
	}
	d.ConnectTimeout = timeout

	return nil
}

func (l *LogConfig) validateAndNormalize() error {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	switch l.Level {
	case "":
		l.Level = "info"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported log.level %q", l.Level)
	}

	l.Format = strings.ToLower(strings.TrimSpace(l.Format))
	switch l.Format {
	case "":
		l.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("config: unsupported log.format %q", l.Format)
	}
	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN はドライバーに渡す接続文字列を返します。
// sqlite3 はファイルを作成しないモードで開きます。ファイルの作成はマイグレーションが行います。
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverPostgres {
		return d.postgresURL("postgres")
	}
	return "file:" + d.Path + "?_foreign_keys=on&mode=rw"
}

// MigrateURL は golang-migrate 用のデータベース URL を返します。
func (d DatabaseConfig) MigrateURL() string {
	if d.Driver == DriverPostgres {
		return d.postgresURL("postgres")
	}
	return "sqlite3://" + d.Path
}

func (d DatabaseConfig) postgresURL(scheme string) string {
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	if d.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(d.ConnectTimeout.Seconds())))
	}
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}
