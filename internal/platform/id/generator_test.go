package id

import (
	"regexp"
	"testing"
	"time"
)

func TestRunIDGenerator_NewID(t *testing.T) {
	g := NewRunIDGenerator()
	g.now = func() time.Time { return time.Date(2024, 3, 1, 20, 30, 0, 0, time.FixedZone("BRT", -3*3600)) }

	got, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if !regexp.MustCompile(`^20240301T233000-[0-9a-f]{8}$`).MatchString(got) {
		t.Fatalf("unexpected run id %q", got)
	}

	other, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if other == got {
		t.Fatalf("expected distinct ids, got %q twice", got)
	}
}
