package reconcile

import (
	"crypto/md5"
	"encoding/hex"
	"math/big"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// KeyModulus bounds derived match ids to twelve decimal digits.
const KeyModulus int64 = 1_000_000_000_000

// keyTimeLayout is the ISO-8601 rendering hashed into match ids. Changing it changes every id.
const keyTimeLayout = "2006-01-02T15:04:05"

var keyModulus = big.NewInt(KeyModulus)

// MatchKey is the surrogate key of a match plus the full digest it was reduced from.
type MatchKey struct {
	ID     int64
	Digest string
}

// DeriveMatchKey hashes the match date and the raw winner cell into a stable id.
func DeriveMatchKey(playedOn time.Time, winnerRaw string) (MatchKey, error) {
	if playedOn.IsZero() {
		return MatchKey{}, errors.Mark(errors.New("match date is missing"), ErrSkippableRow)
	}
	if strings.TrimSpace(winnerRaw) == "" {
		return MatchKey{}, errors.Mark(errors.New("winner cell is missing"), ErrSkippableRow)
	}

	sum := md5.Sum([]byte(playedOn.Format(keyTimeLayout) + winnerRaw))
	id := new(big.Int).Mod(new(big.Int).SetBytes(sum[:]), keyModulus)

	return MatchKey{
		ID:     id.Int64(),
		Digest: hex.EncodeToString(sum[:]),
	}, nil
}

// PerformanceKey addresses a seat of a match. Unique as long as match ids are.
func PerformanceKey(matchID int64, seat int) int64 {
	return matchID*10 + int64(seat)
}
