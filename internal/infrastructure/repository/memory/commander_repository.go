package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/commander-stats/internal/domain/commander"
)

type CommanderRepository struct {
	mu    sync.RWMutex
	byID  map[string]commander.Commander
	order []string
}

func NewCommanderRepository(items []commander.Commander) *CommanderRepository {
	r := &CommanderRepository{byID: make(map[string]commander.Commander, len(items))}
	_, _ = r.InsertIfAbsent(context.Background(), items)
	return r
}

// Catalog keeps the first stored commander when two ids share a name.
func (r *CommanderRepository) Catalog(_ context.Context) (commander.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(commander.Catalog, len(r.byID))
	for _, id := range r.order {
		item := r.byID[id]
		if _, ok := out[item.Name]; ok {
			continue
		}
		out[item.Name] = item.ID
	}
	return out, nil
}

func (r *CommanderRepository) InsertIfAbsent(_ context.Context, items []commander.Commander) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, item := range items {
		if _, ok := r.byID[item.ID]; ok {
			continue
		}
		r.byID[item.ID] = item
		r.order = append(r.order, item.ID)
		inserted++
	}
	return inserted, nil
}
