package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Queryer は *sql.Tx および *sql.Conn と互換性のあるクエリ実行インターフェースです。
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txStarter interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// InTx は conn 上でトランザクションを開始して fn を実行します。
// fn がエラーを返した場合はロールバックし、成功した場合はコミットします。
func InTx(ctx context.Context, conn txStarter, fn func(Queryer) error) error {
	if fn == nil {
		return fmt.Errorf("sqlite: transaction function is required")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}

	finished := false
	defer func() {
		if !finished {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		finished = true
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("sqlite: rollback: %w", rbErr))
		}
		return err
	}

	finished = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}
