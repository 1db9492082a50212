package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const collectionsTable = "collections"

// PostgresBackend keeps one JSONB row per collection.
type PostgresBackend struct {
	pool *pgxpool.Pool
	psql sq.StatementBuilderType
}

func NewPostgresBackend(pool *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{
		pool: pool,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Load(ctx context.Context, collection string) ([]Record, error) {
	query, args, err := b.psql.Select("payload").
		From(collectionsTable).
		Where(sq.Eq{"name": collection}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = b.pool.QueryRow(ctx, query, args...).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", collection, err)
	}
	return decodeRecords(payload)
}

func (b *PostgresBackend) Save(ctx context.Context, collection string, records []Record) error {
	payload, err := encodeRecords(records)
	if err != nil {
		return err
	}
	query, args, err := b.psql.Insert(collectionsTable).
		Columns("name", "payload", "updated_at").
		Values(collection, payload, sq.Expr("now()")).
		Suffix("ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := b.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", collection, err)
	}
	return nil
}

func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}
