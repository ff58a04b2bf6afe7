package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// database/sql に "sqlite3" ドライバーを登録します。
	_ "github.com/mattn/go-sqlite3"

	"github.com/ogurasousui/shop-hr/internal/platform/config"
)

// DriverName は database/sql に登録された SQLite ドライバー名です。
const DriverName = "sqlite3"

// Opener は操作ごとに SQLite ファイルへの接続を開きます。
// 呼び出し間で保持する状態は接続文字列だけです。
type Opener struct {
	dsn  string
	path string
}

// NewOpener は Opener を生成し、疎通確認を行います。
func NewOpener(ctx context.Context, cfg config.DatabaseConfig) (*Opener, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite: database path is required")
	}

	o := &Opener{dsn: cfg.DSN(), path: cfg.Path}
	if err := o.Probe(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

// Path は接続先のファイルパスを返します。
func (o *Opener) Path() string {
	return o.path
}

// Probe は接続を開いて Ping し、すぐに閉じます。
func (o *Opener) Probe(ctx context.Context) error {
	return o.WithConn(ctx, func(conn *sql.Conn) error {
		if err := conn.PingContext(ctx); err != nil {
			return fmt.Errorf("sqlite: ping %s: %w", o.path, err)
		}
		return nil
	})
}

// WithConn は新しい接続で fn を実行し、どの経路でも接続を閉じます。
func (o *Opener) WithConn(ctx context.Context, fn func(*sql.Conn) error) (err error) {
	db, err := sql.Open(DriverName, o.dsn)
	if err != nil {
		return fmt.Errorf("sqlite: open %s: %w", o.path, err)
	}
	db.SetMaxOpenConns(1)

	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("sqlite: close: %w", closeErr))
		}
	}()

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: connect %s: %w", o.path, err)
	}

	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("sqlite: release conn: %w", closeErr))
		}
	}()

	return fn(conn)
}
