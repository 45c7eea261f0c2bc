package reconcile

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
)

// Scorer rates how alike two names are on a 0-100 scale.
type Scorer func(a, b string) int

const (
	// tokenScale discounts scores that ignore word order or duplicates.
	tokenScale = 0.95
	// partialScale discounts substring matches when one name is much longer than the other.
	partialScale = 0.9
	// farPartialScale replaces partialScale when one name is at least eight times the other.
	farPartialScale = 0.6
)

// NormalizeName folds accents, case and punctuation so "Jhoira, Weatherlight Captain" and
// "jhoira weatherlight captain" compare equal.
func NormalizeName(s string) string {
	s = cases.Fold().String(unidecode.Unidecode(s))

	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Ratio is the insert/delete similarity of two already-normalized strings: twice their longest
// common subsequence over their combined length.
func Ratio(a, b string) int {
	return roundScore(ratio([]rune(a), []rune(b)))
}

// PartialRatio is the best Ratio of the shorter string against any same-length window of the
// longer one, so "edgar" scores 100 against "edgar markov".
func PartialRatio(a, b string) int {
	return roundScore(partialRatio([]rune(a), []rune(b)))
}

// TokenSortRatio ignores word order.
func TokenSortRatio(a, b string) int {
	return roundScore(tokenSortRatio(strings.Fields(a), strings.Fields(b)))
}

// TokenSetRatio compares the shared words against each side's leftovers, so a name that is a
// word subset of the other scores 100.
func TokenSetRatio(a, b string) int {
	return roundScore(tokenSetRatio(strings.Fields(a), strings.Fields(b)))
}

// WeightedRatio picks the best of the plain, partial and token scores for two normalized
// strings. Partial scores only count when the lengths differ by half or more and are then
// discounted; token scores are always discounted.
func WeightedRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	short, long := len(ra), len(rb)
	if short > long {
		short, long = long, short
	}
	lenRatio := float64(long) / float64(short)

	ta, tb := strings.Fields(a), strings.Fields(b)
	best := ratio(ra, rb)
	if lenRatio < 1.5 {
		token := max(tokenSortRatio(ta, tb), tokenSetRatio(ta, tb))
		return roundScore(max(best, token*tokenScale))
	}

	scale := partialScale
	if lenRatio >= 8 {
		scale = farPartialScale
	}
	best = max(best, partialRatio(ra, rb)*scale)
	return roundScore(max(best, partialTokenRatio(ta, tb)*tokenScale*scale))
}

// DefaultScorer normalizes both names and scores them with WeightedRatio.
func DefaultScorer(a, b string) int {
	return WeightedRatio(NormalizeName(a), NormalizeName(b))
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(commonSubsequence(a, b)) / float64(total)
}

func commonSubsequence(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := range a {
		for j := range b {
			if a[i] == b[j] {
				cur[j+1] = prev[j] + 1
			} else {
				cur[j+1] = max(prev[j+1], cur[j])
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func partialRatio(a, b []rune) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return 0
	}
	best := slideWindows(a, b)
	if best < 100 && len(a) == len(b) {
		best = max(best, slideWindows(b, a))
	}
	return best
}

// slideWindows scores needle against every window of hay of the same length, plus the
// shorter prefixes and suffixes hanging off either end.
func slideWindows(needle, hay []rune) float64 {
	m, n := len(needle), len(hay)
	best := 0.0
	score := func(window []rune) bool {
		best = max(best, ratio(needle, window))
		return best == 100
	}
	for i := 1; i < m; i++ {
		if score(hay[:i]) {
			return best
		}
	}
	for i := 0; i <= n-m; i++ {
		if score(hay[i : i+m]) {
			return best
		}
	}
	for i := n - m + 1; i < n; i++ {
		if score(hay[i:]) {
			return best
		}
	}
	return best
}

func tokenSortRatio(a, b []string) float64 {
	return ratio([]rune(sortedJoin(a)), []rune(sortedJoin(b)))
}

func tokenSetRatio(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared, onlyA, onlyB := splitTokens(a, b)

	sect := sortedJoin(shared)
	withA := joinNonEmpty(sect, sortedJoin(onlyA))
	withB := joinNonEmpty(sect, sortedJoin(onlyB))

	best := ratio([]rune(withA), []rune(withB))
	if sect == "" {
		return best
	}
	best = max(best, ratio([]rune(sect), []rune(withA)))
	return max(best, ratio([]rune(sect), []rune(withB)))
}

func partialTokenRatio(a, b []string) float64 {
	shared, onlyA, onlyB := splitTokens(a, b)
	if len(shared) > 0 {
		return 100
	}
	best := partialRatio([]rune(sortedJoin(a)), []rune(sortedJoin(b)))
	if len(onlyA) == len(a) && len(onlyB) == len(b) {
		return best
	}
	return max(best, partialRatio([]rune(sortedJoin(onlyA)), []rune(sortedJoin(onlyB))))
}

// splitTokens returns the distinct words both sides share and the distinct words only one
// side has.
func splitTokens(a, b []string) (shared, onlyA, onlyB []string) {
	inA := tokenSet(a)
	inB := tokenSet(b)
	for tok := range inA {
		if _, ok := inB[tok]; ok {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range inB {
		if _, ok := inA[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	return shared, onlyA, onlyB
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func sortedJoin(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

func joinNonEmpty(head, tail string) string {
	switch {
	case head == "":
		return tail
	case tail == "":
		return head
	default:
		return head + " " + tail
	}
}

func roundScore(f float64) int {
	return int(math.RoundToEven(f))
}
