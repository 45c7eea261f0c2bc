package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commander-stats/internal/domain/match"
	"github.com/riskibarqy/commander-stats/internal/domain/reconcile"
	"github.com/riskibarqy/commander-stats/internal/platform/id"
	"github.com/riskibarqy/commander-stats/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// RegisterSource is the spreadsheet holding the roster and the match register.
type RegisterSource interface {
	Roster(ctx context.Context) ([]string, error)
	Register(ctx context.Context) ([]reconcile.SourceRow, error)
}

type ReconciliationConfig struct {
	Threshold   int
	Columns     reconcile.Columns
	DateLayouts []string
	// DryRun plans the load against the store but writes nothing.
	DryRun bool
}

func DefaultReconciliationConfig() ReconciliationConfig {
	return ReconciliationConfig{
		Threshold:   reconcile.DefaultThreshold,
		Columns:     reconcile.DefaultColumns(),
		DateLayouts: reconcile.DefaultDateLayouts,
	}
}

// UnresolvedCommander aggregates a commander name that never reached the threshold.
type UnresolvedCommander struct {
	Name          string `json:"name"`
	Occurrences   int    `json:"occurrences"`
	BestCandidate string `json:"best_candidate,omitempty"`
	BestScore     int    `json:"best_score"`
}

type Report struct {
	RunID    string        `json:"run_id"`
	DryRun   bool          `json:"dry_run"`
	Duration time.Duration `json:"duration_ns"`

	RowsRead    int `json:"rows_read"`
	RowsSkipped int `json:"rows_skipped"`

	MatchesBuilt     int `json:"matches_built"`
	MatchesDuplicate int `json:"matches_duplicate"`
	MatchesCollided  int `json:"matches_collided"`
	MatchesInserted  int `json:"matches_inserted"`

	PerformancesBuilt      int `json:"performances_built"`
	PerformancesUnresolved int `json:"performances_unresolved"`
	PerformancesInvalid    int `json:"performances_invalid"`
	PerformancesInserted   int `json:"performances_inserted"`

	MissingPlayers int                   `json:"missing_players"`
	MalformedSeats int                   `json:"malformed_seats"`
	Unresolved     []UnresolvedCommander `json:"unresolved"`
}

type ReconciliationService struct {
	catalog *CatalogService
	roster  *RosterService
	loader  *Loader
	cfg     ReconciliationConfig
	ids     id.Generator
	logger  *logging.Logger
}

func NewReconciliationService(
	catalog *CatalogService,
	roster *RosterService,
	loader *Loader,
	cfg ReconciliationConfig,
	ids id.Generator,
	logger *logging.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRunIDGenerator()
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = reconcile.DefaultThreshold
	}
	if cfg.Columns == (reconcile.Columns{}) {
		cfg.Columns = reconcile.DefaultColumns()
	}

	return &ReconciliationService{
		catalog: catalog,
		roster:  roster,
		loader:  loader,
		cfg:     cfg,
		ids:     ids,
		logger:  logger,
	}
}

// Run reconciles the whole register. The commander catalog is checked before anything is read
// or written, and the load happens in one transaction at the end.
func (s *ReconciliationService) Run(ctx context.Context, source RegisterSource) (Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconciliationService.Run",
		attribute.Int("reconcile.threshold", s.cfg.Threshold),
		attribute.Bool("reconcile.dry_run", s.cfg.DryRun),
	)
	defer span.End()

	started := time.Now()
	runID, err := s.ids.NewID()
	if err != nil {
		return Report{}, errors.Wrap(err, "generate run id")
	}
	logger := s.logger.With("run_id", runID)
	report := Report{RunID: runID, DryRun: s.cfg.DryRun}

	catalog, err := s.catalog.Index(ctx)
	if err != nil {
		return report, err
	}

	names, err := source.Roster(ctx)
	if err != nil {
		return report, errors.Mark(errors.Wrap(err, "read roster"), ErrInvalidInput)
	}
	ensure := s.roster.Ensure
	if s.cfg.DryRun {
		ensure = s.roster.Preview
	}
	players, err := ensure(ctx, names)
	if err != nil {
		return report, err
	}

	rows, err := source.Register(ctx)
	if err != nil {
		return report, errors.Mark(errors.Wrap(err, "read register"), ErrInvalidInput)
	}
	report.RowsRead = len(rows)
	logger.InfoContext(ctx, "reconciliation started",
		"rows", len(rows),
		"players", len(players),
		"commanders", len(catalog),
		"threshold", s.cfg.Threshold,
		"dry_run", s.cfg.DryRun,
	)

	normalizer := reconcile.NewNormalizer(reconcile.Lookups{
		Players:    players,
		Commanders: reconcile.NewResolver(catalog, reconcile.WithThreshold(s.cfg.Threshold)),
	}, s.cfg.Columns, s.cfg.DateLayouts)

	unresolved := make(map[string]*UnresolvedCommander)
	records := make([]match.Record, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		out, err := normalizer.Normalize(ctx, row)
		if err != nil {
			if !errors.Is(err, reconcile.ErrSkippableRow) {
				return report, err
			}
			report.RowsSkipped++
			logger.WarnContext(ctx, "skip row", "line", row.Line, "reason", err.Error())
			continue
		}

		report.MatchesBuilt++
		report.PerformancesBuilt += len(out.Performances)
		s.collectIssues(ctx, logger, &report, out.Issues)
		collectUnresolved(unresolved, out.Resolutions)
		records = append(records, match.Record{Match: out.Match, Performances: out.Performances})
	}
	report.Unresolved = sortedUnresolved(unresolved)

	var summary LoadSummary
	if s.cfg.DryRun {
		summary.LoadPlan, err = s.loader.Plan(ctx, records)
	} else {
		summary, err = s.loader.Load(ctx, records)
	}
	if err != nil {
		return report, err
	}

	report.MatchesDuplicate = summary.MatchesDuplicate
	report.MatchesCollided = summary.MatchesCollided
	report.MatchesInserted = summary.MatchesInserted
	report.PerformancesUnresolved = summary.PerformancesUnresolved
	report.PerformancesInvalid = summary.PerformancesInvalid
	report.PerformancesInserted = summary.PerformancesInserted
	report.Duration = time.Since(started)

	logger.InfoContext(ctx, "reconciliation finished",
		"rows_read", report.RowsRead,
		"rows_skipped", report.RowsSkipped,
		"matches_built", report.MatchesBuilt,
		"matches_inserted", report.MatchesInserted,
		"matches_collided", report.MatchesCollided,
		"performances_built", report.PerformancesBuilt,
		"performances_unresolved", report.PerformancesUnresolved,
		"performances_inserted", report.PerformancesInserted,
		"unresolved_names", len(report.Unresolved),
		"duration", report.Duration,
	)
	return report, nil
}

func (s *ReconciliationService) collectIssues(ctx context.Context, logger *logging.Logger, report *Report, issues []reconcile.Issue) {
	for _, issue := range issues {
		switch issue.Kind {
		case reconcile.IssueMissingPlayer:
			report.MissingPlayers++
		case reconcile.IssueMalformedSeat:
			report.MalformedSeats++
		}
		logger.DebugContext(ctx, "row issue",
			"line", issue.Line,
			"seat", issue.Seat,
			"kind", string(issue.Kind),
			"value", issue.Value,
			"reason", issue.Detail,
		)
	}
}

func collectUnresolved(acc map[string]*UnresolvedCommander, resolutions []reconcile.Resolution) {
	for _, res := range resolutions {
		if res.Resolved || res.Cleaned == "" {
			continue
		}
		entry, ok := acc[res.Cleaned]
		if !ok {
			entry = &UnresolvedCommander{
				Name:          res.Cleaned,
				BestCandidate: res.Candidate,
				BestScore:     res.Score,
			}
			acc[res.Cleaned] = entry
		}
		entry.Occurrences++
	}
}

// sortedUnresolved orders the most frequent names first so the worst offenders lead the review.
func sortedUnresolved(acc map[string]*UnresolvedCommander) []UnresolvedCommander {
	out := make([]UnresolvedCommander, 0, len(acc))
	for _, entry := range acc {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		return out[i].Name < out[j].Name
	})
	return out
}
