package commander

import "strings"

// Commander is a card that can lead a deck, as issued by the card catalog.
type Commander struct {
	ID            string   `validate:"required"`
	Name          string   `validate:"required"`
	ColorIdentity []string `validate:"dive,oneof=W U B R G"`
	TypeLine      string
	ImageURL      string `validate:"omitempty,url"`
}

// ColorIdentityCode renders the color identity the way it is stored, e.g. "WUB".
func (c Commander) ColorIdentityCode() string {
	return strings.Join(c.ColorIdentity, "")
}

// FrontFaceName keeps only the first face of a multi-faced card name.
func FrontFaceName(name string) string {
	front, _, _ := strings.Cut(name, " // ")
	return strings.TrimSpace(front)
}

// Catalog maps canonical commander names to catalog ids.
type Catalog map[string]string
