package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/commander-stats/internal/domain/commander"
	"github.com/riskibarqy/commander-stats/internal/platform/logging"
)

// CommanderCatalogProvider fetches every card that may lead a deck.
type CommanderCatalogProvider interface {
	FetchCommanders(ctx context.Context) ([]ExternalCommanderCard, error)
}

type ExternalCommanderCard struct {
	OracleID      string
	Name          string
	TypeLine      string
	ColorIdentity []string
	ImageURL      string
}

type CatalogSyncResult struct {
	Fetched  int
	Invalid  int
	Inserted int
}

type CatalogService struct {
	provider CommanderCatalogProvider
	repo     commander.Repository
	validate *validator.Validate
	logger   *logging.Logger
}

func NewCatalogService(provider CommanderCatalogProvider, repo commander.Repository, logger *logging.Logger) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CatalogService{
		provider: provider,
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Sync pulls the external catalog and inserts commanders that are not stored yet. Existing
// rows are never updated.
func (s *CatalogService) Sync(ctx context.Context) (CatalogSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Sync")
	defer span.End()

	if s.provider == nil {
		return CatalogSyncResult{}, errors.Mark(errors.New("catalog provider is not configured"), ErrCatalogUnavailable)
	}

	cards, err := s.provider.FetchCommanders(ctx)
	if err != nil {
		return CatalogSyncResult{}, errors.Mark(errors.Wrap(err, "fetch commander catalog"), ErrCatalogUnavailable)
	}

	result := CatalogSyncResult{Fetched: len(cards)}
	seen := make(map[string]struct{}, len(cards))
	items := make([]commander.Commander, 0, len(cards))
	for _, card := range cards {
		item := commanderFromCard(card)
		if err := s.validate.Struct(item); err != nil {
			result.Invalid++
			s.logger.DebugContext(ctx, "skip invalid catalog card", "oracle_id", card.OracleID, "name", card.Name, "error", err)
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}

	if len(items) == 0 {
		return result, errors.Mark(errors.New("catalog provider returned no usable cards"), ErrCatalogUnavailable)
	}

	inserted, err := s.repo.InsertIfAbsent(ctx, items)
	if err != nil {
		return result, errors.Mark(errors.Wrap(err, "insert commanders"), ErrStore)
	}
	result.Inserted = inserted

	s.logger.InfoContext(ctx, "commander catalog synced",
		"fetched", result.Fetched,
		"invalid", result.Invalid,
		"unique", len(items),
		"inserted", result.Inserted,
	)
	return result, nil
}

// Index loads the stored catalog for name resolution.
func (s *CatalogService) Index(ctx context.Context) (commander.Catalog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Index")
	defer span.End()

	catalog, err := s.repo.Catalog(ctx)
	if err != nil {
		return nil, errors.Mark(errors.Mark(errors.Wrap(err, "load commander catalog"), ErrStore), ErrCatalogUnavailable)
	}
	if len(catalog) == 0 {
		return nil, errors.Mark(errors.New("commander dimension is empty, run the catalog sync first"), ErrCatalogUnavailable)
	}
	return catalog, nil
}

func commanderFromCard(card ExternalCommanderCard) commander.Commander {
	colors := make([]string, 0, len(card.ColorIdentity))
	for _, c := range card.ColorIdentity {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			colors = append(colors, c)
		}
	}

	return commander.Commander{
		ID:            strings.TrimSpace(card.OracleID),
		Name:          commander.FrontFaceName(card.Name),
		ColorIdentity: colors,
		TypeLine:      strings.TrimSpace(card.TypeLine),
		ImageURL:      strings.TrimSpace(card.ImageURL),
	}
}
