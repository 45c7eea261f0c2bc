package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/commander-stats/internal/domain/match"
	qb "github.com/riskibarqy/commander-stats/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) SourceDigests(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	for start := 0; start < len(ids); start += selectChunkSize {
		end := min(start+selectChunkSize, len(ids))

		values := make([]any, 0, end-start)
		for _, id := range ids[start:end] {
			values = append(values, id)
		}

		query, args, err := qb.Select("id", "source_digest").
			From("fact_matches").
			Where(qb.In("id", values)).
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build select match digests query: %w", err)
		}

		var rows []matchDigestRow
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("select match digests: %w", err)
		}
		for _, row := range rows {
			out[row.ID] = row.SourceDigest
		}
	}

	return out, nil
}

// LoadBatch inserts matches before performances in one transaction. Existing rows are left
// untouched and any failure rolls back the whole batch.
func (r *MatchRepository) LoadBatch(ctx context.Context, batch match.Batch) (match.LoadResult, error) {
	if len(batch.Matches) == 0 && len(batch.Performances) == 0 {
		return match.LoadResult{}, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return match.LoadResult{}, fmt.Errorf("begin tx load match batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	matchModels := make([]matchTableModel, 0, len(batch.Matches))
	for _, m := range batch.Matches {
		matchModels = append(matchModels, matchTableModel{
			ID:             m.ID,
			SourceDigest:   m.SourceDigest,
			PlayedOn:       m.PlayedOn,
			PlayerCount:    m.PlayerCount,
			WinnerPlayerID: nullInt64(m.WinnerPlayerID),
		})
	}

	perfModels := make([]performanceTableModel, 0, len(batch.Performances))
	for _, p := range batch.Performances {
		if p.CommanderID == nil {
			return match.LoadResult{}, fmt.Errorf("performance %d has no commander", p.ID)
		}
		perfModels = append(perfModels, performanceTableModel{
			ID:             p.ID,
			MatchID:        p.MatchID,
			PlayerID:       nullInt64(p.PlayerID),
			CommanderID:    *p.CommanderID,
			SeatPosition:   p.Seat,
			Score:          p.Score,
			KillsCombat:    p.KillsCombat,
			KillsCommander: p.KillsCommander,
			KillsNonCombat: p.KillsNonCombat,
			KillsOther:     p.KillsOther,
		})
	}

	var result match.LoadResult
	if len(matchModels) > 0 {
		result.MatchesInserted, err = insertIgnoringConflicts(ctx, tx, "fact_matches", matchModels)
		if err != nil {
			return match.LoadResult{}, fmt.Errorf("load matches: %w", err)
		}
	}
	if len(perfModels) > 0 {
		result.PerformancesInserted, err = insertIgnoringConflicts(ctx, tx, "fact_performances", perfModels)
		if err != nil {
			return match.LoadResult{}, fmt.Errorf("load performances: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return match.LoadResult{}, fmt.Errorf("commit load match batch tx: %w", err)
	}

	return result, nil
}
