package sqlstore

import (
	"context"
	"io/fs"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	dbmigrations "github.com/riskibarqy/commander-stats/db"
)

const (
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
)

// ErrUnsupportedMigration is returned for migration commands the driver cannot run.
var ErrUnsupportedMigration = errors.New("migration command not supported for driver")

// Migrator applies the embedded schema. Postgres goes through golang-migrate with version
// tracking; duckdb, which golang-migrate has no driver for, replays the idempotent up files.
type Migrator struct {
	driver string
	db     *sqlx.DB
	m      *migrate.Migrate
}

func NewMigrator(db *sqlx.DB, driver, dbName string) (*Migrator, error) {
	out := &Migrator{driver: driver, db: db}
	if driver != DriverPostgres {
		return out, nil
	}

	src, err := iofs.New(dbmigrations.Migrations, dbmigrations.MigrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "open embedded migrations")
	}
	target, err := postgres.WithInstance(db.DB, &postgres.Config{DatabaseName: dbName})
	if err != nil {
		return nil, errors.Wrap(err, "create postgres migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, dbName, target)
	if err != nil {
		return nil, errors.Wrap(err, "create migrator")
	}
	out.m = m
	return out, nil
}

// Up applies every pending migration. Returns false when there was nothing to do.
func (m *Migrator) Up(ctx context.Context) (bool, error) {
	if m.m == nil {
		return true, ApplySchema(ctx, m.db)
	}

	err := m.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	return err == nil, err
}

func (m *Migrator) Down(steps int) error {
	if m.m == nil {
		return errors.Wrapf(ErrUnsupportedMigration, "down on %s", m.driver)
	}
	if steps <= 0 {
		return errors.New("down steps must be > 0")
	}

	err := m.m.Steps(-steps)
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Version reports the applied version; ok is false when nothing has been applied.
func (m *Migrator) Version() (version uint, dirty bool, ok bool, err error) {
	if m.m == nil {
		return 0, false, false, errors.Wrapf(ErrUnsupportedMigration, "version on %s", m.driver)
	}

	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return version, dirty, true, nil
}

func (m *Migrator) Force(version int) error {
	if m.m == nil {
		return errors.Wrapf(ErrUnsupportedMigration, "force on %s", m.driver)
	}
	return m.m.Force(version)
}

// Close releases the migration source. The database handle stays open; its owner closes it.
func (m *Migrator) Close() error {
	if m.m == nil {
		return nil
	}
	srcErr, _ := m.m.Close()
	return srcErr
}

// ApplySchema executes every embedded up migration in version order. The files only use
// IF NOT EXISTS statements, so replaying them is harmless.
func ApplySchema(ctx context.Context, db *sqlx.DB) error {
	statements, err := schemaStatements(dbmigrations.Migrations)
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx apply schema")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "apply schema statement %q", firstLine(stmt))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit apply schema tx")
	}
	return nil
}

func schemaStatements(fsys fs.FS) ([]string, error) {
	names, err := fs.Glob(fsys, dbmigrations.MigrationsDir+"/*.up.sql")
	if err != nil {
		return nil, errors.Wrap(err, "list migrations")
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Wrapf(err, "read migration %s", name)
		}
		for _, stmt := range strings.Split(string(raw), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt != "" {
				out = append(out, stmt)
			}
		}
	}
	return out, nil
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(stmt, "\n")
	return line
}
