package reconcile

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commander-stats/internal/domain/match"
	"github.com/riskibarqy/commander-stats/internal/domain/player"
)

// Lookups is the read-only reference data a normalizer consults.
type Lookups struct {
	Players    player.Index
	Commanders CommanderResolver
}

// Normalized is the outcome of one source row.
type Normalized struct {
	Match        match.Match
	Performances []match.Performance
	Resolutions  []Resolution
	Issues       []Issue
}

type Normalizer struct {
	lookups     Lookups
	columns     Columns
	dateLayouts []string
}

func NewNormalizer(lookups Lookups, columns Columns, dateLayouts []string) *Normalizer {
	if len(dateLayouts) == 0 {
		dateLayouts = DefaultDateLayouts
	}
	return &Normalizer{
		lookups:     lookups,
		columns:     columns,
		dateLayouts: dateLayouts,
	}
}

// Normalize turns one register row into a match and its seat performances. Rows without a
// usable date or winner return an error marked ErrSkippableRow.
func (n *Normalizer) Normalize(ctx context.Context, row SourceRow) (Normalized, error) {
	rawDate := row.Get(n.columns.Date)
	playedOn, ok := parseDate(rawDate, n.dateLayouts)
	if !ok {
		if rawDate == "" {
			return Normalized{}, errors.Mark(errors.Newf("line %d: date is missing", row.Line), ErrSkippableRow)
		}
		return Normalized{}, errors.Mark(
			errors.Mark(errors.Newf("line %d: unparseable date %q", row.Line, rawDate), ErrMalformedInput),
			ErrSkippableRow,
		)
	}

	winnerRaw := row.Raw(n.columns.seat(n.columns.Seat, 1))
	key, err := DeriveMatchKey(playedOn, winnerRaw)
	if err != nil {
		return Normalized{}, errors.Wrapf(err, "line %d", row.Line)
	}

	out := Normalized{
		Match: match.Match{
			ID:           key.ID,
			SourceDigest: key.Digest,
			PlayedOn:     playedOn,
		},
	}

	for seat := 1; seat <= match.MaxSeats; seat++ {
		cell := ParseSeatCell(row.Raw(n.columns.seat(n.columns.Seat, seat)))
		if cell.Empty() {
			continue
		}

		perf := match.Performance{
			ID:             PerformanceKey(key.ID, seat),
			MatchID:        key.ID,
			Seat:           seat,
			Score:          parseCount(row.Get(n.columns.seat(n.columns.Score, seat))),
			KillsCombat:    parseCount(row.Get(n.columns.seat(n.columns.KillsCombat, seat))),
			KillsCommander: parseCount(row.Get(n.columns.seat(n.columns.KillsCommander, seat))),
			KillsNonCombat: parseCount(row.Get(n.columns.seat(n.columns.KillsNonCombat, seat))),
			KillsOther:     parseCount(row.Get(n.columns.seat(n.columns.KillsOther, seat))),
		}

		if cell.Player == "" {
			out.Issues = append(out.Issues, Issue{
				Line:   row.Line,
				Seat:   seat,
				Kind:   IssueMalformedSeat,
				Value:  row.Get(n.columns.seat(n.columns.Seat, seat)),
				Detail: "no parenthesized player name",
			})
		}
		perf.PlayerID = n.lookups.Players.Lookup(cell.Player)
		if perf.PlayerID == nil && cell.Player != "" {
			out.Issues = append(out.Issues, Issue{
				Line:   row.Line,
				Seat:   seat,
				Kind:   IssueMissingPlayer,
				Value:  cell.Player,
				Detail: "player is not on the roster",
			})
		}

		res := n.resolveCommander(ctx, cell.Commander)
		out.Resolutions = append(out.Resolutions, res)
		perf.CommanderID = res.ID()
		if perf.CommanderID == nil {
			out.Issues = append(out.Issues, Issue{
				Line:   row.Line,
				Seat:   seat,
				Kind:   IssueUnresolvedCommander,
				Value:  cell.Commander,
				Detail: unresolvedDetail(res),
			})
		}

		if seat == 1 {
			out.Match.WinnerPlayerID = perf.PlayerID
		}
		out.Performances = append(out.Performances, perf)
	}

	out.Match.PlayerCount = parseCount(row.Get(n.columns.PlayerCount))
	if out.Match.PlayerCount == 0 {
		out.Match.PlayerCount = len(out.Performances)
	}

	return out, nil
}

func (n *Normalizer) resolveCommander(ctx context.Context, name string) Resolution {
	if n.lookups.Commanders == nil || name == "" {
		return Resolution{Input: name}
	}
	return n.lookups.Commanders.Resolve(ctx, name)
}

func unresolvedDetail(res Resolution) string {
	if res.Cleaned == "" {
		return "commander name is empty"
	}
	if res.Candidate == "" {
		return "catalog is empty"
	}
	return fmt.Sprintf("best candidate %q scored %d", res.Candidate, res.Score)
}
