package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/commander-stats/internal/domain/match"
)

// MatchRepository mirrors the relational store: a batch is applied completely or not at all.
type MatchRepository struct {
	mu           sync.RWMutex
	matches      map[int64]match.Match
	performances map[int64]match.Performance
	seats        map[[2]int64]int64
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		matches:      make(map[int64]match.Match),
		performances: make(map[int64]match.Performance),
		seats:        make(map[[2]int64]int64),
	}
}

func (r *MatchRepository) SourceDigests(_ context.Context, ids []int64) (map[int64]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		if m, ok := r.matches[id]; ok {
			out[id] = m.SourceDigest
		}
	}
	return out, nil
}

func (r *MatchRepository) LoadBatch(_ context.Context, batch match.Batch) (match.LoadResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pendingMatches := make(map[int64]match.Match, len(batch.Matches))
	for _, m := range batch.Matches {
		if _, ok := r.matches[m.ID]; ok {
			continue
		}
		if _, ok := pendingMatches[m.ID]; ok {
			continue
		}
		pendingMatches[m.ID] = m
	}

	pendingPerfs := make(map[int64]match.Performance, len(batch.Performances))
	pendingSeats := make(map[[2]int64]int64, len(batch.Performances))
	for _, p := range batch.Performances {
		if _, ok := r.performances[p.ID]; ok {
			continue
		}
		if _, ok := pendingPerfs[p.ID]; ok {
			continue
		}
		if err := p.Validate(); err != nil {
			return match.LoadResult{}, fmt.Errorf("performance %d: %w", p.ID, err)
		}
		_, stored := r.matches[p.MatchID]
		_, pending := pendingMatches[p.MatchID]
		if !stored && !pending {
			return match.LoadResult{}, fmt.Errorf("performance %d references unknown match %d", p.ID, p.MatchID)
		}
		seat := [2]int64{p.MatchID, int64(p.Seat)}
		if _, ok := r.seats[seat]; ok {
			continue
		}
		if _, ok := pendingSeats[seat]; ok {
			continue
		}
		pendingPerfs[p.ID] = p
		pendingSeats[seat] = p.ID
	}

	for id, m := range pendingMatches {
		r.matches[id] = m
	}
	for id, p := range pendingPerfs {
		r.performances[id] = p
	}
	for seat, id := range pendingSeats {
		r.seats[seat] = id
	}

	return match.LoadResult{
		MatchesInserted:      len(pendingMatches),
		PerformancesInserted: len(pendingPerfs),
	}, nil
}

func (r *MatchRepository) Matches() []match.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MatchRepository) Performances() []match.Performance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Performance, 0, len(r.performances))
	for _, p := range r.performances {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
