package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/commander-stats/internal/domain/elimination"
)

type EliminationRepository struct {
	db *sqlx.DB
}

func NewEliminationRepository(db *sqlx.DB) *EliminationRepository {
	return &EliminationRepository{db: db}
}

func (r *EliminationRepository) InsertIfAbsent(ctx context.Context, methods []elimination.Method) (int, error) {
	if len(methods) == 0 {
		return 0, nil
	}

	models := make([]eliminationMethodTableModel, 0, len(methods))
	for _, m := range methods {
		models = append(models, eliminationMethodTableModel{ID: m.ID, Code: m.Code, Description: m.Description})
	}

	inserted, err := insertIgnoringConflicts(ctx, r.db, "dim_elimination_methods", models)
	if err != nil {
		return inserted, fmt.Errorf("insert elimination methods: %w", err)
	}
	return inserted, nil
}
