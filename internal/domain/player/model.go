package player

import "fmt"

// Player is a roster member. Identity is the exact name.
type Player struct {
	ID   int64
	Name string
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}

// Index maps player names to ids for exact-match lookups.
type Index map[string]int64

func NewIndex(players []Player) Index {
	out := make(Index, len(players))
	for _, p := range players {
		out[p.Name] = p.ID
	}
	return out
}

// Lookup returns the id for name, or nil when the name is not on the roster.
func (idx Index) Lookup(name string) *int64 {
	if name == "" {
		return nil
	}
	id, ok := idx[name]
	if !ok {
		return nil
	}
	return &id
}
