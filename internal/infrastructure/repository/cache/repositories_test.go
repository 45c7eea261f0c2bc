package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/commander-stats/internal/domain/commander"
	"github.com/riskibarqy/commander-stats/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/commander-stats/internal/platform/cache"
)

type countingCommanderRepository struct {
	*memory.CommanderRepository
	catalogCalls int
}

func (r *countingCommanderRepository) Catalog(ctx context.Context) (commander.Catalog, error) {
	r.catalogCalls++
	return r.CommanderRepository.Catalog(ctx)
}

func TestCommanderRepository_CachesCatalogUntilInsert(t *testing.T) {
	ctx := context.Background()
	next := &countingCommanderRepository{CommanderRepository: memory.NewCommanderRepository([]commander.Commander{
		{ID: "c-atraxa", Name: "Atraxa, Grand Unifier"},
	})}
	repo := NewCommanderRepository(next, basecache.NewStore[string, commander.Catalog](time.Minute))

	for i := 0; i < 3; i++ {
		catalog, err := repo.Catalog(ctx)
		if err != nil {
			t.Fatalf("catalog: %v", err)
		}
		if catalog["Atraxa, Grand Unifier"] != "c-atraxa" {
			t.Fatalf("unexpected catalog: %+v", catalog)
		}
		catalog["mutated"] = "x"
	}
	if next.catalogCalls != 1 {
		t.Fatalf("catalog loaded %d times, want 1", next.catalogCalls)
	}

	if _, err := repo.InsertIfAbsent(ctx, []commander.Commander{{ID: "c-edgar", Name: "Edgar Markov"}}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	catalog, err := repo.Catalog(ctx)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("expected refreshed catalog with 2 entries, got %+v", catalog)
	}
	if next.catalogCalls != 2 {
		t.Fatalf("catalog loaded %d times, want 2", next.catalogCalls)
	}
}
