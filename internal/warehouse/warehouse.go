// Package warehouse owns the single connection to the relational warehouse.
// It is opened once at startup, passed to every component that needs it and
// closed at shutdown.
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	sf "github.com/snowflakedb/gosnowflake"

	"alcyxob/trainer-ai/internal/config"
)

// ErrConnection means the warehouse was unreachable or rejected the credentials.
var ErrConnection = errors.New("warehouse connection failed")

const pingTimeout = 15 * time.Second

// DB is the owned warehouse handle. Queries are written with `?` placeholders
// and rebound for the dialect.
type DB struct {
	db      *sql.DB
	dialect Dialect
	log     *slog.Logger
}

// Open connects and pings the configured warehouse.
func Open(ctx context.Context, log *slog.Logger, cfg config.WarehouseConfig) (*DB, error) {
	driver, dsn, dialect, err := driverFor(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrConnection, dialect.Name, err)
	}
	if dialect.Name == DuckDB.Name {
		// An in-memory database lives as long as its connections do.
		sqlDB.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrConnection, dialect.Name, err)
	}
	log.Info("warehouse connected", "driver", dialect.Name, "database", cfg.Database, "schema", cfg.Schema)
	return &DB{db: sqlDB, dialect: dialect, log: log}, nil
}

// New wraps an already opened database, mainly for tests.
func New(log *slog.Logger, db *sql.DB, dialect Dialect) *DB {
	return &DB{db: db, dialect: dialect, log: log}
}

func driverFor(cfg config.WarehouseConfig) (driver, dsn string, dialect Dialect, err error) {
	switch cfg.Driver {
	case config.DriverSnowflake:
		dsn = cfg.DSN
		if dsn == "" {
			dsn, err = sf.DSN(&sf.Config{
				Account:   cfg.Account,
				User:      cfg.User,
				Password:  cfg.Password,
				Role:      cfg.Role,
				Warehouse: cfg.Warehouse,
				Database:  cfg.Database,
				Schema:    cfg.Schema,
			})
			if err != nil {
				return "", "", Dialect{}, fmt.Errorf("%w: snowflake dsn: %w", ErrConnection, err)
			}
		}
		return "snowflake", dsn, Snowflake, nil
	case config.DriverDuckDB:
		return "duckdb", cfg.DSN, DuckDB, nil
	case config.DriverPostgres:
		return "pgx", cfg.DSN, Postgres, nil
	default:
		return "", "", Dialect{}, fmt.Errorf("unknown warehouse driver %q", cfg.Driver)
	}
}

// Dialect returns the SQL dialect of the connection.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Close releases the connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks the connection is still usable.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return nil
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.db.ExecContext(ctx, d.dialect.Rebind(query), args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, d.dialect.Rebind(query), args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, d.dialect.Rebind(query), args...)
}

// QueryString runs a query returning one text value. A NULL result is an
// empty string.
func (d *DB) QueryString(ctx context.Context, query string, args ...any) (string, error) {
	var out sql.NullString
	if err := d.QueryRowContext(ctx, query, args...).Scan(&out); err != nil {
		return "", err
	}
	return out.String, nil
}

// Tx is a transaction with the same rebinding as DB.
type Tx struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.dialect.Rebind(query), args...)
}

// InTx runs fn in a transaction, committing when it returns nil.
func (d *DB) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&Tx{tx: sqlTx, dialect: d.dialect}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			d.log.Warn("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
