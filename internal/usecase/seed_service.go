package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commander-stats/internal/domain/elimination"
	"github.com/riskibarqy/commander-stats/internal/platform/logging"
)

type SeedService struct {
	methods elimination.Repository
	logger  *logging.Logger
}

func NewSeedService(methods elimination.Repository, logger *logging.Logger) *SeedService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SeedService{
		methods: methods,
		logger:  logger,
	}
}

// SeedEliminationMethods writes the static elimination dimension. Safe to run repeatedly.
func (s *SeedService) SeedEliminationMethods(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeedService.SeedEliminationMethods")
	defer span.End()

	methods := elimination.DefaultMethods()
	for _, m := range methods {
		if err := m.Validate(); err != nil {
			return 0, errors.Mark(err, ErrInvalidInput)
		}
	}

	inserted, err := s.methods.InsertIfAbsent(ctx, methods)
	if err != nil {
		return 0, errors.Mark(errors.Wrap(err, "insert elimination methods"), ErrStore)
	}

	s.logger.InfoContext(ctx, "elimination methods seeded", "total", len(methods), "inserted", inserted)
	return inserted, nil
}
