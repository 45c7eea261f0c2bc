package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/commander-stats/internal/domain/player"
)

type PlayerRepository struct {
	mu     sync.RWMutex
	byName map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	byName := make(map[string]player.Player, len(players))
	for _, p := range players {
		byName[p.Name] = p
	}

	return &PlayerRepository{byName: byName}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.byName))
	for _, p := range r.byName {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) InsertIfAbsent(_ context.Context, players []player.Player) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[int64]struct{}, len(r.byName))
	for _, p := range r.byName {
		ids[p.ID] = struct{}{}
	}

	inserted := 0
	for _, p := range players {
		if _, ok := r.byName[p.Name]; ok {
			continue
		}
		if _, ok := ids[p.ID]; ok {
			continue
		}
		r.byName[p.Name] = p
		ids[p.ID] = struct{}{}
		inserted++
	}
	return inserted, nil
}
