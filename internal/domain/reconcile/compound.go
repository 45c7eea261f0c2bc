package reconcile

import "strings"

// SeatCell is the "Commander (Player)" content of one seat column.
type SeatCell struct {
	Commander string
	Player    string
}

func (c SeatCell) Empty() bool {
	return c.Commander == "" && c.Player == ""
}

// ParseSeatCell splits a "Commander (Player)" cell. The player is the last balanced
// parenthesized group, so commander names keep their own qualifiers and player names may nest
// parentheses. A blank cell yields an empty SeatCell and a cell without a closing balanced group
// is treated as a bare commander name.
func ParseSeatCell(raw string) SeatCell {
	text := strings.TrimSpace(raw)
	if text == "" {
		return SeatCell{}
	}

	open := trailingGroupStart(text)
	if open < 0 {
		return SeatCell{Commander: text}
	}

	return SeatCell{
		Commander: strings.TrimSpace(text[:open]),
		Player:    strings.TrimSpace(text[open+1 : len(text)-1]),
	}
}

// trailingGroupStart returns the byte offset of the "(" that balances the final ")" of text,
// or -1 when text does not end in a balanced group.
func trailingGroupStart(text string) int {
	if !strings.HasSuffix(text, ")") {
		return -1
	}
	depth := 0
	for i := len(text) - 1; i >= 0; i-- {
		switch text[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
