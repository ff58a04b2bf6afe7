package migration

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	migrations "github.com/ogurasousui/shop-hr/assets/migrations"
	"github.com/ogurasousui/shop-hr/internal/platform/config"
)

// Actions は Run が受け付ける操作名です。
var Actions = []string{"up", "down", "drop", "version"}

// Runner は埋め込まれた移行ファイルを対象データベースに適用します。
type Runner struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

// SourceDir はドライバーに対応する埋め込みディレクトリ名を返します。
func SourceDir(driver string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return "sqlite", nil
	case config.DriverPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("migration: unsupported driver %q", driver)
	}
}

// New は Runner を生成します。利用後は Close を呼び出してください。
func New(cfg config.DatabaseConfig, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir, err := SourceDir(cfg.Driver)
	if err != nil {
		return nil, err
	}

	src, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("migration: open source %s: %w", dir, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.MigrateURL())
	if err != nil {
		return nil, fmt.Errorf("migration: create migrate instance: %w", err)
	}

	return &Runner{m: m, logger: logger}, nil
}

// Up は未適用の移行をすべて適用します。
func (r *Runner) Up() error {
	if err := r.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: up: %w", err)
	}
	return nil
}

// Down は適用済みの移行をすべて戻します。
func (r *Runner) Down() error {
	if err := r.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: down: %w", err)
	}
	return nil
}

// Drop はデータベース内のテーブルをすべて削除します。
func (r *Runner) Drop() error {
	if err := r.m.Drop(); err != nil {
		return fmt.Errorf("migration: drop: %w", err)
	}
	return nil
}

// Version は現在のバージョンを返します。未適用の場合 applied は false です。
func (r *Runner) Version() (version uint, dirty bool, applied bool, err error) {
	version, dirty, err = r.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, false, nil
		}
		return 0, false, false, fmt.Errorf("migration: version: %w", err)
	}
	return version, dirty, true, nil
}

// Run は操作名に対応する処理を実行します。
func (r *Runner) Run(action string) error {
	switch action {
	case "up":
		return r.Up()
	case "down":
		return r.Down()
	case "drop":
		return r.Drop()
	case "version":
		version, dirty, applied, err := r.Version()
		if err != nil {
			return err
		}
		if !applied {
			r.logger.Info("no migration applied")
			return nil
		}
		r.logger.Info("migration version", "version", version, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("migration: unsupported action %q", action)
	}
}

// Close は移行元と接続先の両方を閉じます。
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}
