package sqlstore

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type commanderTableModel struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	ColorIdentity string         `db:"color_identity"`
	TypeLine      string         `db:"type_line"`
	ImageURL      sql.NullString `db:"image_url"`
}

type catalogRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type eliminationMethodTableModel struct {
	ID          int    `db:"id"`
	Code        string `db:"code"`
	Description string `db:"description"`
}

type matchTableModel struct {
	ID             int64         `db:"id"`
	SourceDigest   string        `db:"source_digest"`
	PlayedOn       time.Time     `db:"played_on"`
	PlayerCount    int           `db:"player_count"`
	WinnerPlayerID sql.NullInt64 `db:"winner_player_id"`
}

type matchDigestRow struct {
	ID           int64  `db:"id"`
	SourceDigest string `db:"source_digest"`
}

type performanceTableModel struct {
	ID             int64         `db:"id"`
	MatchID        int64         `db:"match_id"`
	PlayerID       sql.NullInt64 `db:"player_id"`
	CommanderID    string        `db:"commander_id"`
	SeatPosition   int           `db:"seat_position"`
	Score          int           `db:"score"`
	KillsCombat    int           `db:"kills_combat"`
	KillsCommander int           `db:"kills_commander"`
	KillsNonCombat int           `db:"kills_noncombat"`
	KillsOther     int           `db:"kills_other"`
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
