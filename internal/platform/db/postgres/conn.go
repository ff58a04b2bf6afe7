package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/shop-hr/internal/platform/config"
)

// Conn は 1 操作の間だけ保持される接続です。*pgx.Conn と pgxmock の Conn が満たします。
type Conn interface {
	Queryer
	txStarter
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ConnectFunc は新しい接続を確立します。
type ConnectFunc func(ctx context.Context) (Conn, error)

// BuildConnConfig は database 設定から pgx.ConnConfig を構築します。
func BuildConnConfig(cfg config.DatabaseConfig) (*pgx.ConnConfig, error) {
	connCfg, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	if cfg.ConnectTimeout > 0 {
		connCfg.ConnectTimeout = cfg.ConnectTimeout
	}

	return connCfg, nil
}

// NewConnector は操作ごとに接続を張る ConnectFunc を返し、疎通確認を行います。
func NewConnector(ctx context.Context, cfg config.DatabaseConfig) (ConnectFunc, error) {
	connCfg, err := BuildConnConfig(cfg)
	if err != nil {
		return nil, err
	}

	connect := func(ctx context.Context) (Conn, error) {
		conn, err := pgx.ConnectConfig(ctx, connCfg.Copy())
		if err != nil {
			return nil, fmt.Errorf("postgres: connect: %w", err)
		}
		return conn, nil
	}

	if err := Probe(ctx, connect); err != nil {
		return nil, err
	}
	return connect, nil
}

// Probe は接続を 1 本張って Ping し、すぐに閉じます。
func Probe(ctx context.Context, connect ConnectFunc) error {
	return WithConn(ctx, connect, func(conn Conn) error {
		if err := conn.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: ping: %w", err)
		}
		return nil
	})
}

// WithConn は接続を確立して fn を実行し、どの経路でも接続を閉じます。
func WithConn(ctx context.Context, connect ConnectFunc, fn func(Conn) error) (err error) {
	if connect == nil {
		return errors.New("postgres: connector is required")
	}

	conn, err := connect(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := conn.Close(ctx); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("postgres: close: %w", closeErr))
		}
	}()

	return fn(conn)
}
