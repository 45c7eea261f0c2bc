package usecase

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commander-stats/internal/domain/commander"
	commandermock "github.com/riskibarqy/commander-stats/internal/mocks/domain/commander"
	"github.com/stretchr/testify/mock"
)

type stubCatalogProvider struct {
	cards []ExternalCommanderCard
	err   error
}

func (p stubCatalogProvider) FetchCommanders(context.Context) ([]ExternalCommanderCard, error) {
	return p.cards, p.err
}

func TestCatalogService_Sync_MapsCardsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := commandermock.NewRepository(t)
	provider := stubCatalogProvider{cards: []ExternalCommanderCard{
		{OracleID: "o-atraxa", Name: "Atraxa, Grand Unifier", TypeLine: "Legendary Creature", ColorIdentity: []string{"G", "W", "U", "B"}},
		{OracleID: "o-esika", Name: "Esika, God of the Tree // The Prismatic Bridge", ColorIdentity: []string{"g"}, ImageURL: "https://cards.example/esika.jpg"},
		{OracleID: "o-atraxa", Name: "Atraxa, Grand Unifier"},
		{OracleID: "", Name: "Nameless"},
		{OracleID: "o-bad", Name: "Bad Colors", ColorIdentity: []string{"X"}},
	}}

	repo.
		On("InsertIfAbsent", ctx, mock.MatchedBy(func(items []commander.Commander) bool {
			return len(items) == 2 &&
				items[0].ColorIdentityCode() == "GWUB" &&
				items[1].Name == "Esika, God of the Tree" &&
				items[1].ColorIdentityCode() == "G"
		})).
		Return(2, nil).
		Once()

	service := NewCatalogService(provider, repo, nil)
	result, err := service.Sync(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Fetched != 5 || result.Invalid != 2 || result.Inserted != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCatalogService_Sync_ProviderFailureUsingMockery(t *testing.T) {
	t.Parallel()

	repo := commandermock.NewRepository(t)
	service := NewCatalogService(stubCatalogProvider{err: errors.New("status 503")}, repo, nil)

	_, err := service.Sync(context.Background())
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
	repo.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
}

func TestCatalogService_Index_EmptyCatalogUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := commandermock.NewRepository(t)
	repo.On("Catalog", ctx).Return(commander.Catalog{}, nil).Once()

	_, err := NewCatalogService(nil, repo, nil).Index(ctx)
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestCatalogService_Index_StoreFailureUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := commandermock.NewRepository(t)
	repo.On("Catalog", ctx).Return(nil, errors.New("relation does not exist")).Once()

	_, err := NewCatalogService(nil, repo, nil).Index(ctx)
	if !errors.Is(err, ErrCatalogUnavailable) || !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrCatalogUnavailable and ErrStore, got %v", err)
	}
}
