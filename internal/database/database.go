// Package database contains the logic for establishing connections
// to the source and target PostgreSQL databases.
//
// It handles:
//   - building a DSN from a credentials block
//   - creating a pgx connection pool (pgxpool) with pool tuning
//   - wiring query logging (pgx tracelog + zerolog) in local env
//   - running embedded schema migrations (tern)
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/datacentral/retail-etl/internal/config"
	loggerConfig "github.com/datacentral/retail-etl/internal/logger"
)

// Database wraps a pgx connection pool and a logger so one object
// can be passed around the pipeline.
type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

// DatabasePingTimeout is the number of seconds to wait for a ping
// before considering the database unreachable.
const DatabasePingTimeout = 10

// buildDSN assembles a postgres:// connection string from a
// credentials block. The password is URL-escaped so characters like
// '@' or ':' cannot break the DSN structure.
func buildDSN(creds *config.DBCredentials, sslMode string) string {
	hostPort := net.JoinHostPort(creds.Host, strconv.Itoa(creds.Port))
	encodedPassword := url.QueryEscape(creds.Password)

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		creds.User,
		encodedPassword,
		hostPort,
		creds.Database,
		sslMode,
	)
}

// New creates a PostgreSQL connection pool for the given credentials.
//
// Behavior:
//   - Build DSN and parse it into a pgxpool config
//   - Apply pool tuning from config
//   - In local env attach the SQL tracelogger so every statement is
//     logged through zerolog
//   - Create the pool, ping it, and return Database
func New(ctx context.Context, cfg *config.Config, creds *config.DBCredentials, logger *zerolog.Logger) (*Database, error) {
	dsn := buildDSN(creds, cfg.Database.SSLMode)

	pgxPoolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	if cfg.Database.MinIdleConns > 0 {
		pgxPoolConfig.MinConns = int32(cfg.Database.MinIdleConns)
	}
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	// Product prices and weights are shopspring decimals; register
	// the codec so they encode straight into numeric columns.
	pgxPoolConfig.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	// SQL statement logging is noisy, so it is only wired in local.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)

		pgxPoolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	database := &Database{
		Pool: pool,
		log:  logger,
	}

	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", creds.Database, err)
	}

	logger.Info().
		Str("database", creds.Database).
		Str("host", creds.Host).
		Msg("connected to the database")

	return database, nil
}

// ListTables reports the base tables in the public schema.
//
// Used by the extract stage to produce a helpful error when a
// requested source table does not exist.
func (db *Database) ListTables(ctx context.Context) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	return tables, nil
}

// Close closes the database connection pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
