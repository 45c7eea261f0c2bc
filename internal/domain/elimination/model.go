package elimination

import "fmt"

// Method is a way a player can be knocked out of a match.
type Method struct {
	ID          int
	Code        string
	Description string
}

const (
	CodeCombat    = "C"
	CodeCommander = "D"
	CodeNonCombat = "N"
	CodeOther     = "O"
)

// DefaultMethods is the static elimination-method dimension.
func DefaultMethods() []Method {
	return []Method{
		{ID: 1, Code: CodeCombat, Description: "Combat damage"},
		{ID: 2, Code: CodeCommander, Description: "Commander damage"},
		{ID: 3, Code: CodeNonCombat, Description: "Non-combat damage / life drain"},
		{ID: 4, Code: CodeOther, Description: "Other (mill, infect, alternate win, etc)"},
	}
}

func (m Method) Validate() error {
	if m.ID <= 0 {
		return fmt.Errorf("elimination method id must be greater than zero")
	}
	switch m.Code {
	case CodeCombat, CodeCommander, CodeNonCombat, CodeOther:
	default:
		return fmt.Errorf("unknown elimination method code %q", m.Code)
	}

	return nil
}
