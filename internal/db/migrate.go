package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
)

//go:embed schema.sql
var schema string

// chave do advisory lock que serializa migrações entre réplicas
const migrateLockKey int64 = 0x6d69646961

// Migrate aplica o schema das tabelas de mídia. As instruções são idempotentes.
func Migrate(ctx context.Context, pool TxStarter) error {
	err := WithTx(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", migrateLockKey); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, schema)
		return err
	})
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
