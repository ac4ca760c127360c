// Package postgresdb provides a PostgreSQL-backed users source.
// The schema is managed by goose migrations applied in New.
package postgresdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/patric-chuzhbe/namecheck/internal/db/storage"
)

var openDB = sql.Open

// PostgresDB reads user names from the `users` table.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type initOptions struct {
	DBPreReset bool
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset enables or disables dropping all public tables before migration.
// Used by tests.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// New opens the connection, runs schema migrations from migrationsDir and
// returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{
		DBPreReset: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := openDB("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := result.migrate(ctx, migrationsDir, options); err != nil {
		_ = database.Close()
		return nil, err
	}

	return result, nil
}

func (db *PostgresDB) migrate(ctx context.Context, migrationsDir string, options *initOptions) error {
	if options.DBPreReset {
		if err := db.resetDB(ctx); err != nil {
			return fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/migrate(): error while `db.resetDB()` calling: %w",
				err,
			)
		}
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/migrate(): error while `goose.SetDialect()` calling: %w",
			err,
		)
	}

	if err := goose.UpContext(ctx, db.database, migrationsDir); err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/migrate(): error while `goose.UpContext()` calling: %w",
			err,
		)
	}

	return nil
}

// LoadUsers returns every stored name in insertion order.
// Query and scan failures are reported as *storage.LoadError.
func (db *PostgresDB) LoadUsers(ctx context.Context) ([]string, error) {
	ctxWithTimeout, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.database.QueryContext(ctxWithTimeout, `SELECT name FROM users ORDER BY id`)
	if err != nil {
		return nil, &storage.LoadError{Source: "postgresql", Err: err}
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &storage.LoadError{Source: "postgresql", Err: err}
		}
		users = append(users, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.LoadError{Source: "postgresql", Err: err}
	}

	return users, nil
}

// SaveUsers appends names to the users table in a single transaction.
func (db *PostgresDB) SaveUsers(ctx context.Context, names []string) (err error) {
	transaction, err := db.database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = transaction.Rollback()
		}
	}()

	for _, name := range names {
		if _, err = transaction.ExecContext(ctx, `INSERT INTO users (name) VALUES ($1)`, name); err != nil {
			return err
		}
	}

	return transaction.Commit()
}

func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := db.withTimeout(ctx)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func (db *PostgresDB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.connectionTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, db.connectionTimeout)
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/resetDB(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}
	return nil
}
