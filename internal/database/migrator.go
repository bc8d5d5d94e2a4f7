package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"

	"github.com/deppfellow/newsapi/internal/config"
)

// Embed all SQL files under migrations/ at compile time so the binary
// carries its own schema.
//
//go:embed migrations/*.sql
var migrations embed.FS

// versionTable is where tern records the applied migration version.
const versionTable = "schema_version"

func newMigrator(ctx context.Context, conn *pgx.Conn) (*tern.Migrator, error) {
	m, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return nil, fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return nil, fmt.Errorf("loading database migrations: %w", err)
	}

	return m, nil
}

// Migrate runs database migrations using jackc/tern over a single
// connection, up to the latest embedded version.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	return MigrateTo(ctx, logger, cfg, -1)
}

// MigrateTo migrates to the given version. A negative target means latest;
// zero drops the whole schema.
func MigrateTo(ctx context.Context, logger *zerolog.Logger, cfg *config.Config, target int32) error {
	return MigrateDSN(ctx, logger, cfg.Database.DSN(), target)
}

// MigrateDSN is MigrateTo for a bare connection string.
func MigrateDSN(ctx context.Context, logger *zerolog.Logger, dsn string, target int32) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := newMigrator(ctx, conn)
	if err != nil {
		return err
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	latest := int32(len(m.Migrations))
	if target < 0 || target > latest {
		target = latest
	}

	if err := m.MigrateTo(ctx, target); err != nil {
		return err
	}

	if from == target {
		logger.Info().Msgf("database schema up to date, version %d", target)
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, target)
	}
	return nil
}
