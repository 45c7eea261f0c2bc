package match

import (
	"fmt"
	"time"
)

const MaxSeats = 5

// Match is one physical game. ID is derived from the source content.
type Match struct {
	ID             int64
	SourceDigest   string
	PlayedOn       time.Time
	PlayerCount    int
	WinnerPlayerID *int64
}

// Performance is one seat of a match.
type Performance struct {
	ID             int64
	MatchID        int64
	PlayerID       *int64
	CommanderID    *string
	Seat           int
	Score          int
	KillsCombat    int
	KillsCommander int
	KillsNonCombat int
	KillsOther     int
}

func (p Performance) Validate() error {
	if p.MatchID <= 0 {
		return fmt.Errorf("performance match id is required")
	}
	if p.Seat < 1 || p.Seat > MaxSeats {
		return fmt.Errorf("invalid seat position: %d", p.Seat)
	}
	if p.CommanderID == nil || *p.CommanderID == "" {
		return fmt.Errorf("performance commander id is required")
	}
	if p.KillsCombat < 0 || p.KillsCommander < 0 || p.KillsNonCombat < 0 || p.KillsOther < 0 {
		return fmt.Errorf("kill counters must not be negative")
	}

	return nil
}

// TotalKills sums every elimination method.
func (p Performance) TotalKills() int {
	return p.KillsCombat + p.KillsCommander + p.KillsNonCombat + p.KillsOther
}

// Record is a match together with the seats recorded for it.
type Record struct {
	Match        Match
	Performances []Performance
}

// Batch is the unit handed to the store in one transaction.
type Batch struct {
	Matches      []Match
	Performances []Performance
}

// LoadResult counts rows actually written (rows already present are not counted).
type LoadResult struct {
	MatchesInserted      int
	PerformancesInserted int
}
