// Package database opens the configured store and runs its migrations.
package database

import (
	"context"
	"database/sql"
	"net/url"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/academia/core"
	appfs "github.com/trezcool/academia/fs"
)

const maxPingAttempts = 30

// dsn builds the connection URL of dbName, as the admin role when admin is set and one is configured.
func dsn(dbName string, admin bool, conf *core.Config) string {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	q := make(url.Values)
	q.Set("sslmode", "require")
	if conf.Database.DisableTLS {
		q.Set("sslmode", "disable")
	}
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func connect(ctx context.Context, dbName string, admin bool, conf *core.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn(dbName, admin, conf))
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Open connects to the application database and waits for it to answer.
func Open(conf *core.Config) (*sql.DB, error) {
	return connect(context.Background(), conf.Database.Name, false, conf)
}

// ping waits for the database to be ready, 100ms longer after each failed attempt.
func ping(ctx context.Context, db *sql.DB) error {
	var err error
	for attempt := 1; attempt <= maxPingAttempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping")
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

func exists(ctx context.Context, db *sql.DB, query, arg string) (bool, error) {
	var found bool
	err := db.QueryRowContext(ctx, query, arg).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return found, err
}

// createRoleStmt returns the statement creating the application role, which may create databases.
func createRoleStmt(conf *core.Config) string {
	return "CREATE ROLE " + pq.QuoteIdentifier(conf.Database.User) +
		" LOGIN CREATEDB ENCRYPTED PASSWORD " + pq.QuoteLiteral(conf.Database.Password)
}

// CreateIfNotExist creates the application role as admin, then the application database as that role.
func CreateIfNotExist(ctx context.Context, conf *core.Config) error {
	if conf.Database.User != "" {
		admin, err := connect(ctx, "postgres", true, conf)
		if err != nil {
			return errors.Wrap(err, "connecting as admin")
		}
		defer func() { _ = admin.Close() }()

		found, err := exists(ctx, admin, "SELECT true FROM pg_roles WHERE rolname = $1", conf.Database.User)
		if err != nil {
			return errors.Wrap(err, "checking app user")
		}
		if !found {
			if _, err = admin.ExecContext(ctx, createRoleStmt(conf)); err != nil {
				return errors.Wrap(err, "creating app user")
			}
		}
	}

	db, err := connect(ctx, "postgres", false, conf)
	if err != nil {
		return errors.Wrap(err, "connecting as app user")
	}
	defer func() { _ = db.Close() }()

	found, err := exists(ctx, db, "SELECT true FROM pg_database WHERE datname = $1", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking database")
	}
	if !found {
		if _, err = db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// RunMigrations runs the goose command against the embedded migrations.
func RunMigrations(ctx context.Context, command string, db *sql.DB, args ...string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.RunContext(ctx, command, db, appfs.MigrationsDir, args...)
}

func Migrate(ctx context.Context, db *sql.DB) error {
	if err := RunMigrations(ctx, "up", db); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
