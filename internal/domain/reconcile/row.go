package reconcile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// SourceRow is one register line keyed by header name. Values are kept exactly as read.
type SourceRow struct {
	Line  int
	Cells map[string]string
}

// Raw returns the cell untouched. Match keys hash raw text.
func (r SourceRow) Raw(column string) string {
	return r.Cells[column]
}

func (r SourceRow) Get(column string) string {
	return strings.TrimSpace(r.Cells[column])
}

// Columns names the register headers. Per-seat names are fmt patterns taking the seat number.
type Columns struct {
	Date           string
	PlayerCount    string
	Seat           string
	Score          string
	KillsCombat    string
	KillsCommander string
	KillsNonCombat string
	KillsOther     string
}

func DefaultColumns() Columns {
	return Columns{
		Date:           "DATA",
		PlayerCount:    "Nº J",
		Seat:           "DECK%d",
		Score:          "Pt%d",
		KillsCombat:    "C%d",
		KillsCommander: "D%d",
		KillsNonCombat: "N%d",
		KillsOther:     "O%d",
	}
}

func (c Columns) seat(pattern string, seat int) string {
	return fmt.Sprintf(pattern, seat)
}

// DefaultDateLayouts are tried in order when reading the date column.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04:05",
}

func parseDate(raw string, layouts []string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseCount reads a counter or score cell. Blank, garbage, fractional noise and negatives all
// collapse into a non-negative integer.
func parseCount(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return max(v, 0)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	return int(f)
}
