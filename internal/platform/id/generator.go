package id

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/cockroachdb/errors"
)

// Generator creates run identifiers used to correlate the logs and the report of one run.
type Generator interface {
	NewID() (string, error)
}

// RunIDGenerator renders "<utc timestamp>-<random hex>", so ids sort by start time.
type RunIDGenerator struct {
	now func() time.Time
}

func NewRunIDGenerator() *RunIDGenerator {
	return &RunIDGenerator{now: time.Now}
}

func (g *RunIDGenerator) NewID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}

	return g.now().UTC().Format("20060102T150405") + "-" + hex.EncodeToString(buf), nil
}
