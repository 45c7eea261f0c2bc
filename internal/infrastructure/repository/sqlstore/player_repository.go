package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/commander-stats/internal/domain/player"
	qb "github.com/riskibarqy/commander-stats/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(qb.Columns[playerTableModel]()...).
		From("dim_players").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

func (r *PlayerRepository) InsertIfAbsent(ctx context.Context, players []player.Player) (int, error) {
	if len(players) == 0 {
		return 0, nil
	}

	models := make([]playerTableModel, 0, len(players))
	for _, p := range players {
		models = append(models, playerTableModel{ID: p.ID, Name: p.Name})
	}

	inserted, err := insertIgnoringConflicts(ctx, r.db, "dim_players", models)
	if err != nil {
		return inserted, fmt.Errorf("insert players: %w", err)
	}
	return inserted, nil
}
