package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commander-stats/internal/domain/match"
	"github.com/riskibarqy/commander-stats/internal/platform/logging"
)

// LoadPlan is a batch ready for the store plus what was filtered out on the way.
type LoadPlan struct {
	Batch                  match.Batch
	MatchesDuplicate       int
	MatchesCollided        int
	PerformancesUnresolved int
	PerformancesInvalid    int
}

type LoadSummary struct {
	LoadPlan
	match.LoadResult
}

// Loader writes normalized matches without duplicating or overwriting stored rows.
type Loader struct {
	repo   match.Repository
	logger *logging.Logger
}

func NewLoader(repo match.Repository, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Default()
	}

	return &Loader{
		repo:   repo,
		logger: logger,
	}
}

// Plan deduplicates records and checks them against the store without writing anything.
func (l *Loader) Plan(ctx context.Context, records []match.Record) (LoadPlan, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Loader.Plan")
	defer span.End()

	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.Match.ID)
	}

	stored, err := l.repo.SourceDigests(ctx, ids)
	if err != nil {
		return LoadPlan{}, errors.Mark(errors.Wrap(err, "read stored match digests"), ErrStore)
	}

	return prepareLoadBatch(ctx, l.logger, stored, records), nil
}

// Load plans and writes the batch in a single transaction. Store errors are returned marked
// ErrStore and nothing from the batch is kept.
func (l *Loader) Load(ctx context.Context, records []match.Record) (LoadSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Loader.Load")
	defer span.End()

	plan, err := l.Plan(ctx, records)
	if err != nil {
		return LoadSummary{}, err
	}

	summary := LoadSummary{LoadPlan: plan}
	if len(plan.Batch.Matches) == 0 {
		return summary, nil
	}

	result, err := l.repo.LoadBatch(ctx, plan.Batch)
	if err != nil {
		return summary, errors.Mark(errors.Wrap(err, "load batch"), ErrStore)
	}
	summary.LoadResult = result

	l.logger.InfoContext(ctx, "batch loaded",
		"matches", len(plan.Batch.Matches),
		"matches_inserted", result.MatchesInserted,
		"performances", len(plan.Batch.Performances),
		"performances_inserted", result.PerformancesInserted,
	)
	return summary, nil
}

// prepareLoadBatch keeps the first record per match id and rejects ids whose stored or
// earlier digest differs, since two different games hashed to the same key. Seats without a
// resolved commander are dropped. Stored rows with no digest predate digest tracking and are
// accepted as the same match.
func prepareLoadBatch(ctx context.Context, logger *logging.Logger, stored map[int64]string, records []match.Record) LoadPlan {
	var plan LoadPlan
	kept := make(map[int64]string, len(records))

	for _, r := range records {
		m := r.Match
		if digest, ok := kept[m.ID]; ok {
			if digest == m.SourceDigest {
				plan.MatchesDuplicate++
				continue
			}
			plan.MatchesCollided++
			logger.WarnContext(ctx, "match id collision inside batch, record rejected",
				"match_id", m.ID,
				"digest", m.SourceDigest,
				"kept_digest", digest,
			)
			continue
		}
		if digest, ok := stored[m.ID]; ok && digest != "" && digest != m.SourceDigest {
			plan.MatchesCollided++
			logger.WarnContext(ctx, "match id collision with stored match, record rejected",
				"match_id", m.ID,
				"digest", m.SourceDigest,
				"stored_digest", digest,
			)
			continue
		}

		kept[m.ID] = m.SourceDigest
		plan.Batch.Matches = append(plan.Batch.Matches, m)

		for _, p := range r.Performances {
			if p.CommanderID == nil {
				plan.PerformancesUnresolved++
				logger.DebugContext(ctx, "drop performance",
					"match_id", m.ID,
					"seat", p.Seat,
					"reason", "commander unresolved",
				)
				continue
			}
			if err := p.Validate(); err != nil {
				plan.PerformancesInvalid++
				logger.WarnContext(ctx, "drop performance",
					"match_id", m.ID,
					"seat", p.Seat,
					"reason", err.Error(),
				)
				continue
			}
			plan.Batch.Performances = append(plan.Batch.Performances, p)
		}
	}

	return plan
}
