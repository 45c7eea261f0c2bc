package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jhoira weatherlight captain", NormalizeName("Jhoira, Weatherlight Captain"))
	assert.Equal(t, "lim dul the necromancer", NormalizeName("Lim-Dûl the Necromancer"))
	assert.Equal(t, "", NormalizeName(" ,.- "))
}

func TestDefaultScorer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"Atraxa, Grand Unifier", "atraxa grand unifier", 100},
		{"Grand Unifier Atraxa", "Atraxa, Grand Unifier", 95},
		{"Atraxa Grand Unifer", "Atraxa, Grand Unifier", 97},
		{"Atraxa", "Atraxa, Grand Unifier", 90},
		{"Ur-Dragon", "The Ur-Dragon", 95},
		{"Edgar", "Edgar Markov", 90},
		{"Kenrith", "Kenrith, the Returned King", 90},
		{"", "Atraxa, Grand Unifier", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultScorer(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}

	assert.Less(t, DefaultScorer("Unresolvable Fake Name", "Atraxa, Grand Unifier"), DefaultThreshold)
	assert.Less(t, DefaultScorer("Atraxa", "Edgar Markov"), DefaultThreshold)
}

func TestRatioFamily(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, Ratio("edgar markov", "edgar markov"))
	assert.Equal(t, 46, Ratio("atraxa", "atraxa grand unifier"))
	assert.Equal(t, 100, PartialRatio("edgar", "edgar markov"))
	assert.Equal(t, 100, TokenSortRatio("grand unifier atraxa", "atraxa grand unifier"))
	assert.Equal(t, 100, TokenSetRatio("ur dragon", "the ur dragon"))
	assert.Equal(t, 0, WeightedRatio("", "edgar"))
}
