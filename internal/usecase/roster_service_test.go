package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/commander-stats/internal/domain/player"
	"github.com/riskibarqy/commander-stats/internal/infrastructure/repository/memory"
)

func TestRosterService_Ensure_AssignsStableIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewPlayerRepository(nil)
	service := NewRosterService(repo, nil)

	first, err := service.Ensure(ctx, []string{" Alice ", "Bob", "", "Alice"})
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if len(first) != 2 || first["Alice"] != 1 || first["Bob"] != 2 {
		t.Fatalf("unexpected first index: %+v", first)
	}

	second, err := service.Ensure(ctx, []string{"Carol", "Bob", "Alice"})
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if second["Alice"] != 1 || second["Bob"] != 2 || second["Carol"] != 3 {
		t.Fatalf("ids changed after reordering: %+v", second)
	}

	stored, _ := repo.List(ctx)
	if len(stored) != 3 {
		t.Fatalf("stored players = %d, want 3", len(stored))
	}
}

func TestRosterService_Ensure_KeepsStoredPlayersOffRoster(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := NewRosterService(memory.NewPlayerRepository(nil), nil)
	if _, err := service.Ensure(ctx, []string{"Alice", "Bob"}); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	index, err := service.Ensure(ctx, []string{"Dave"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if index["Bob"] != 2 || index["Dave"] != 3 {
		t.Fatalf("unexpected index: %+v", index)
	}
}

func TestRosterService_Preview_WritesNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewPlayerRepository([]player.Player{{ID: 4, Name: "Alice"}})
	service := NewRosterService(repo, nil)

	index, err := service.Preview(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if index["Alice"] != 4 || index["Bob"] != 5 {
		t.Fatalf("unexpected index: %+v", index)
	}

	stored, _ := repo.List(ctx)
	if len(stored) != 1 {
		t.Fatalf("preview stored players: got %d, want 1", len(stored))
	}
}
