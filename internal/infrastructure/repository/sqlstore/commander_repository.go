package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/commander-stats/internal/domain/commander"
	qb "github.com/riskibarqy/commander-stats/internal/platform/querybuilder"
)

type CommanderRepository struct {
	db *sqlx.DB
}

func NewCommanderRepository(db *sqlx.DB) *CommanderRepository {
	return &CommanderRepository{db: db}
}

// Catalog keeps the lowest id when two commanders share a name.
func (r *CommanderRepository) Catalog(ctx context.Context) (commander.Catalog, error) {
	query, args, err := qb.Select("id", "name").
		From("dim_commanders").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select commander catalog query: %w", err)
	}

	var rows []catalogRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select commander catalog: %w", err)
	}

	out := make(commander.Catalog, len(rows))
	for _, row := range rows {
		if _, ok := out[row.Name]; ok {
			continue
		}
		out[row.Name] = row.ID
	}
	return out, nil
}

func (r *CommanderRepository) InsertIfAbsent(ctx context.Context, items []commander.Commander) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	models := make([]commanderTableModel, 0, len(items))
	for _, item := range items {
		models = append(models, commanderTableModel{
			ID:            item.ID,
			Name:          item.Name,
			ColorIdentity: item.ColorIdentityCode(),
			TypeLine:      item.TypeLine,
			ImageURL:      nullString(item.ImageURL),
		})
	}

	inserted, err := insertIgnoringConflicts(ctx, r.db, "dim_commanders", models)
	if err != nil {
		return inserted, fmt.Errorf("insert commanders: %w", err)
	}
	return inserted, nil
}
