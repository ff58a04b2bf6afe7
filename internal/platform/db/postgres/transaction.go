package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ReadOnly は参照系トランザクションのオプションです。
	ReadOnly = pgx.TxOptions{AccessMode: pgx.ReadOnly}
	// ReadWrite は更新系トランザクションのオプションです。
	ReadWrite = pgx.TxOptions{AccessMode: pgx.ReadWrite}
)

type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Queryer は pgx.Tx および pgx.Conn と互換性のあるクエリ実行インターフェースです。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// InTx は conn 上でトランザクションを開始して fn を実行します。
// fn がエラーを返した場合はロールバックし、成功した場合はコミットします。
func InTx(ctx context.Context, conn txStarter, opts pgx.TxOptions, fn func(Queryer) error) error {
	if fn == nil {
		return fmt.Errorf("postgres: transaction function is required")
	}

	tx, err := conn.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}

	finished := false
	defer func() {
		if !finished {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(tx); err != nil {
		finished = true
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("postgres: rollback: %w", rbErr))
		}
		return err
	}

	finished = true
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}
