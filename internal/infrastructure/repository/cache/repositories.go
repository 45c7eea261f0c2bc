package cache

import (
	"context"
	"maps"

	"github.com/riskibarqy/commander-stats/internal/domain/commander"
	basecache "github.com/riskibarqy/commander-stats/internal/platform/cache"
)

const catalogKey = "commander:catalog"

// CommanderRepository memoises the catalog snapshot so a sync followed by several
// reconciliations in one process reads the dimension once. Inserts invalidate it.
type CommanderRepository struct {
	next  commander.Repository
	cache *basecache.Store[string, commander.Catalog]
}

func NewCommanderRepository(next commander.Repository, cache *basecache.Store[string, commander.Catalog]) *CommanderRepository {
	return &CommanderRepository{next: next, cache: cache}
}

func (r *CommanderRepository) Catalog(ctx context.Context) (commander.Catalog, error) {
	catalog, err := r.cache.GetOrLoad(ctx, catalogKey, func(ctx context.Context) (commander.Catalog, error) {
		return r.next.Catalog(ctx)
	})
	if err != nil {
		return nil, err
	}

	return maps.Clone(catalog), nil
}

func (r *CommanderRepository) InsertIfAbsent(ctx context.Context, items []commander.Commander) (int, error) {
	inserted, err := r.next.InsertIfAbsent(ctx, items)
	if inserted > 0 {
		r.cache.Delete(ctx, catalogKey)
	}
	return inserted, err
}
