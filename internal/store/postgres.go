package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minesweeper/internal/database"
)

// Postgres keeps values in a table created by the database migrations.
type Postgres struct {
	db    *pgxpool.Pool
	table string
}

func OpenPostgres(ctx context.Context, dsn string, name string) (*Postgres, error) {
	pool, err := database.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	p, err := NewPostgres(pool, name)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgres wraps an existing pool. An empty name selects
// [DefaultTable], the table the migrations create.
func NewPostgres(db *pgxpool.Pool, name string) (*Postgres, error) {
	if name == "" {
		name = DefaultTable
	}
	if !validName(name) {
		return nil, fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return &Postgres{
		db:    db,
		table: pgx.Identifier{name}.Sanitize(),
	}, nil
}

func (p *Postgres) Get(ctx context.Context, key string, value any) error {
	var v []byte
	err := p.db.QueryRow(ctx,
		"SELECT value FROM "+p.table+" WHERE key = $1", key,
	).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return classify(err)
	}
	return decode(v, value)
}

func (p *Postgres) Set(ctx context.Context, key string, value any) error {
	blob, err := encode(value)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(ctx, `
	INSERT INTO `+p.table+` (key, value)
	VALUES (@key, @value)
	ON CONFLICT (key)
	DO UPDATE SET value = excluded.value`,
		pgx.NamedArgs{
			"key":   key,
			"value": blob,
		})
	return classify(err)
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	_, err := p.db.Exec(ctx, "DELETE FROM "+p.table+" WHERE key = $1", key)
	return classify(err)
}

func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("%w: %s", ErrNotMigrated, pgErr.Message)
	}
	return err
}
