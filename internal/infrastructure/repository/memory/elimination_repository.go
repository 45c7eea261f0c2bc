package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/commander-stats/internal/domain/elimination"
)

type EliminationRepository struct {
	mu   sync.RWMutex
	byID map[int]elimination.Method
}

func NewEliminationRepository() *EliminationRepository {
	return &EliminationRepository{byID: make(map[int]elimination.Method)}
}

func (r *EliminationRepository) InsertIfAbsent(_ context.Context, methods []elimination.Method) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, m := range methods {
		if _, ok := r.byID[m.ID]; ok {
			continue
		}
		r.byID[m.ID] = m
		inserted++
	}
	return inserted, nil
}

func (r *EliminationRepository) List() []elimination.Method {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]elimination.Method, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
