package main

import (
	"context"
	"fmt"
	"log/slog"

	pgrepo "github.com/ogurasousui/shop-hr/internal/adapters/repository/postgres"
	sqliterepo "github.com/ogurasousui/shop-hr/internal/adapters/repository/sqlite"
	"github.com/ogurasousui/shop-hr/internal/core/employee"
	"github.com/ogurasousui/shop-hr/internal/platform/config"
	pgdb "github.com/ogurasousui/shop-hr/internal/platform/db/postgres"
	sqlitedb "github.com/ogurasousui/shop-hr/internal/platform/db/sqlite"
)

// newRepository は設定されたドライバーに対応する Repository を生成します。生成時に疎通確認を行います。
func newRepository(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (employee.Repository, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		opener, err := sqlitedb.NewOpener(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Debug("database reachable", "driver", cfg.Driver, "db", opener.Path())
		return sqliterepo.NewEmployeeRepository(opener, logger), nil
	case config.DriverPostgres:
		connect, err := pgdb.NewConnector(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Debug("database reachable", "driver", cfg.Driver, "db", cfg.Host)
		return pgrepo.NewEmployeeRepository(connect, logger), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
