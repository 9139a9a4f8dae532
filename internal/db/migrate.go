package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed migrations/*.sql
var MigrationsFS embed.FS

var migrationFile = regexp.MustCompile(`^migrations/([0-9]+)_([a-z0-9_]+)\.(up|down)\.sql$`)

const createSchemaMigrations = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version     BIGINT PRIMARY KEY,
    name        TEXT NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

type Migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// MigrationPool is satisfied by *pgxpool.Pool.
type MigrationPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LoadMigrations reads NNN_name.up.sql / NNN_name.down.sql pairs from fsys,
// sorted by version.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	paths, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no migration files found")
	}

	byVersion := make(map[int64]*Migration)
	for _, p := range paths {
		m := migrationFile.FindStringSubmatch(p)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename: %s", p)
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version in %s: %w", p, err)
		}
		body, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", p, err)
		}
		sql := strings.TrimSpace(string(body))
		if sql == "" {
			return nil, fmt.Errorf("empty migration file: %s", p)
		}

		mig, ok := byVersion[version]
		if !ok {
			mig = &Migration{Version: version, Name: m[2]}
			byVersion[version] = mig
		} else if mig.Name != m[2] {
			return nil, fmt.Errorf("conflicting names for version %d: %s vs %s", version, mig.Name, m[2])
		}

		target := &mig.UpSQL
		if m[3] == "down" {
			target = &mig.DownSQL
		}
		if *target != "" {
			return nil, fmt.Errorf("duplicate %s migration for version %d", m[3], version)
		}
		*target = sql
	}

	out := make([]Migration, 0, len(byVersion))
	for _, mig := range byVersion {
		if mig.UpSQL == "" || mig.DownSQL == "" {
			return nil, fmt.Errorf("migration version %d must include both up and down files", mig.Version)
		}
		out = append(out, *mig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Migrator applies and rolls back schema versions, one transaction per version.
type Migrator struct {
	pool       MigrationPool
	migrations []Migration
}

func NewMigrator(pool MigrationPool, migrations []Migration) *Migrator {
	return &Migrator{pool: pool, migrations: migrations}
}

// Up applies every pending migration and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.appliedVersions(ctx, -1)
	if err != nil {
		return 0, err
	}
	done := make(map[int64]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	count := 0
	for _, mig := range m.migrations {
		if done[mig.Version] {
			continue
		}
		err := pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("version %d up failed: %w", mig.Version, err)
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Down rolls back the newest steps applied versions.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if steps <= 0 {
		return 0, fmt.Errorf("steps must be > 0")
	}
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	versions, err := m.appliedVersions(ctx, steps)
	if err != nil {
		return 0, err
	}

	byVersion := make(map[int64]Migration, len(m.migrations))
	for _, mig := range m.migrations {
		byVersion[mig.Version] = mig
	}

	count := 0
	for _, v := range versions {
		mig, ok := byVersion[v]
		if !ok {
			return count, fmt.Errorf("cannot find migration source for applied version %d", v)
		}
		err := pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.DownSQL); err != nil {
				return fmt.Errorf("version %d down failed: %w", mig.Version, err)
			}
			_, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, mig.Version)
			return err
		})
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Version returns the newest applied version, or 0 when none is applied.
func (m *Migrator) Version(ctx context.Context) (int64, string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, "", err
	}
	var version int64
	var name string
	err := m.pool.QueryRow(ctx, `SELECT version, name FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", err
	}
	return version, name, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, createSchemaMigrations)
	return err
}

// appliedVersions lists applied versions newest first; limit < 0 means all.
func (m *Migrator) appliedVersions(ctx context.Context, limit int) ([]int64, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if limit < 0 {
		rows, err = m.pool.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC`)
	} else {
		rows, err = m.pool.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}
