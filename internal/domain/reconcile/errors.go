package reconcile

import "github.com/cockroachdb/errors"

var (
	// ErrSkippableRow marks a source row that cannot produce a match. The run continues.
	ErrSkippableRow = errors.New("skippable row")
	// ErrMalformedInput marks a cell that could not be parsed into usable values.
	ErrMalformedInput = errors.New("malformed input")
)

// IssueKind classifies a non-fatal problem found while normalizing a row.
type IssueKind string

const (
	IssueMissingPlayer       IssueKind = "missing_player"
	IssueUnresolvedCommander IssueKind = "unresolved_commander"
	IssueMalformedSeat       IssueKind = "malformed_seat"
)

// Issue is a field-level problem. The row itself is kept.
type Issue struct {
	Line   int
	Seat   int
	Kind   IssueKind
	Value  string
	Detail string
}
