package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commander-stats/internal/domain/player"
	"github.com/riskibarqy/commander-stats/internal/platform/logging"
)

// RosterService keeps the player dimension in step with the roster sheet.
type RosterService struct {
	repo   player.Repository
	logger *logging.Logger
}

func NewRosterService(repo player.Repository, logger *logging.Logger) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		repo:   repo,
		logger: logger,
	}
}

// Ensure registers every roster name and returns the complete name to id index. Names already
// stored keep their id, so reordering the roster never renumbers players.
func (s *RosterService) Ensure(ctx context.Context, names []string) (player.Index, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Ensure")
	defer span.End()

	index, added, err := s.plan(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return index, nil
	}

	inserted, err := s.repo.InsertIfAbsent(ctx, added)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "insert players"), ErrStore)
	}
	s.logger.InfoContext(ctx, "roster synced",
		"roster_size", len(index),
		"new_players", len(added),
		"inserted", inserted,
	)

	return index, nil
}

// Preview returns the index Ensure would produce without writing the new players.
func (s *RosterService) Preview(ctx context.Context, names []string) (player.Index, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Preview")
	defer span.End()

	index, _, err := s.plan(ctx, names)
	return index, err
}

func (s *RosterService) plan(ctx context.Context, names []string) (player.Index, []player.Player, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, errors.Mark(errors.Wrap(err, "list players"), ErrStore)
	}

	index := player.NewIndex(existing)
	var maxID int64
	for _, p := range existing {
		maxID = max(maxID, p.ID)
	}

	added := make([]player.Player, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := index[name]; ok {
			continue
		}

		maxID++
		p := player.Player{ID: maxID, Name: name}
		if err := p.Validate(); err != nil {
			return nil, nil, errors.Mark(errors.Wrapf(err, "roster name %q", name), ErrInvalidInput)
		}
		index[name] = p.ID
		added = append(added, p)
	}

	return index, added, nil
}
