package app

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/riskibarqy/commander-stats/external/scryfall"
	"github.com/riskibarqy/commander-stats/internal/config"
	"github.com/riskibarqy/commander-stats/internal/domain/commander"
	"github.com/riskibarqy/commander-stats/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/commander-stats/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/commander-stats/internal/infrastructure/spreadsheet"
	"github.com/riskibarqy/commander-stats/internal/observability"
	basecache "github.com/riskibarqy/commander-stats/internal/platform/cache"
	"github.com/riskibarqy/commander-stats/internal/platform/id"
	"github.com/riskibarqy/commander-stats/internal/platform/logging"
	"github.com/riskibarqy/commander-stats/internal/platform/resilience"
	"github.com/riskibarqy/commander-stats/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const catalogCacheTTL = 10 * time.Minute

// App owns the database handle of one CLI invocation and the services built on top of it.
type App struct {
	Config config.Config
	Logger *logging.Logger
	DB     *sqlx.DB

	Catalog *usecase.CatalogService
	Roster  *usecase.RosterService
	Seed    *usecase.SeedService
	Loader  *usecase.Loader

	shutdownTracing func(context.Context) error
}

// Open connects to the configured database and wires repositories and services.
func Open(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "init tracing")
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, err
	}
	logger.DebugContext(ctx, "database connected", "driver", cfg.DBDriver, "db_name", databaseName(cfg))

	players := sqlstore.NewPlayerRepository(db)
	commanders := cache.NewCommanderRepository(
		sqlstore.NewCommanderRepository(db),
		basecache.NewStore[string, commander.Catalog](catalogCacheTTL),
	)
	methods := sqlstore.NewEliminationRepository(db)
	matches := sqlstore.NewMatchRepository(db)

	provider := scryfall.NewClient(scryfall.ClientConfig{
		BaseURL:    cfg.ScryfallBaseURL,
		Query:      cfg.ScryfallQuery,
		UserAgent:  cfg.ScryfallUserAgent,
		Timeout:    cfg.ScryfallTimeout,
		MaxRetries: cfg.ScryfallMaxRetries,
		PageDelay:  cfg.ScryfallPageDelay,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ScryfallCircuitEnabled,
			FailureThreshold: cfg.ScryfallCircuitFailureCount,
			OpenTimeout:      cfg.ScryfallCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ScryfallCircuitHalfOpenMaxReq,
		},
	})

	return &App{
		Config:          cfg,
		Logger:          logger,
		DB:              db,
		Catalog:         usecase.NewCatalogService(provider, commanders, logger),
		Roster:          usecase.NewRosterService(players, logger),
		Seed:            usecase.NewSeedService(methods, logger),
		Loader:          usecase.NewLoader(matches, logger),
		shutdownTracing: shutdownTracing,
	}, nil
}

// Close releases the database handle and flushes traces. Safe to call more than once.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}

	var errs error
	if a.DB != nil {
		errs = errors.CombineErrors(errs, a.DB.Close())
		a.DB = nil
	}
	if a.shutdownTracing != nil {
		errs = errors.CombineErrors(errs, a.shutdownTracing(ctx))
		a.shutdownTracing = nil
	}
	return errs
}

// Run opens the app, hands it to fn and closes it on every exit path.
func Run(ctx context.Context, cfg config.Config, logger *logging.Logger, fn func(context.Context, *App) error) (err error) {
	a, err := Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(context.WithoutCancel(ctx)); closeErr != nil {
			err = errors.CombineErrors(err, errors.Wrap(closeErr, "close app"))
		}
	}()

	return fn(ctx, a)
}

func (a *App) Migrator() (*sqlstore.Migrator, error) {
	return sqlstore.NewMigrator(a.DB, a.Config.DBDriver, databaseName(a.Config))
}

// Reconciler builds a reconciliation service for one run.
func (a *App) Reconciler(threshold int, dryRun bool) *usecase.ReconciliationService {
	cfg := usecase.DefaultReconciliationConfig()
	if threshold > 0 {
		cfg.Threshold = threshold
	}
	if len(a.Config.SourceDateLayouts) > 0 {
		cfg.DateLayouts = a.Config.SourceDateLayouts
	}
	cfg.DryRun = dryRun

	return usecase.NewReconciliationService(a.Catalog, a.Roster, a.Loader, cfg, id.NewRunIDGenerator(), a.Logger)
}

// OpenSource opens the workbook at path using the configured sheet layout.
func (a *App) OpenSource(path string) (*spreadsheet.Workbook, error) {
	opts := spreadsheet.DefaultOptions()
	opts.RosterSheet = a.Config.SourceRosterSheet
	opts.RosterColumn = a.Config.SourceRosterColumn
	opts.RegisterSheet = a.Config.SourceRegisterSheet
	return spreadsheet.Open(path, opts)
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn, system := dataSource(cfg)

	db, err := otelsqlx.Open(cfg.DBDriver, dsn,
		otelsql.WithDBSystem(system),
		otelsql.WithDBName(databaseName(cfg)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.DBDriver)
	}
	// One exclusively owned connection per run; duckdb also allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping %s database", cfg.DBDriver)
	}
	return db, nil
}
