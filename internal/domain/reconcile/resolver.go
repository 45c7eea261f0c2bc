package reconcile

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/riskibarqy/commander-stats/internal/domain/commander"
	"github.com/riskibarqy/commander-stats/internal/platform/cache"
)

// DefaultThreshold is the minimum score accepted as a match.
const DefaultThreshold = 85

var trailingQualifierPattern = regexp.MustCompile(`\s*\(.*\)\s*$`)

// Resolution explains the outcome of a single lookup.
type Resolution struct {
	Input       string
	Cleaned     string
	Candidate   string
	Score       int
	CommanderID string
	Resolved    bool
}

// ID returns the resolved commander id, or nil when the lookup failed.
func (r Resolution) ID() *string {
	if !r.Resolved {
		return nil
	}
	id := r.CommanderID
	return &id
}

// CommanderResolver maps free-text commander names to catalog ids.
type CommanderResolver interface {
	Resolve(ctx context.Context, name string) Resolution
}

type catalogEntry struct {
	name string
	id   string
}

// Resolver fuzzy-matches names against a fixed catalog snapshot.
type Resolver struct {
	entries   []catalogEntry
	threshold int
	scorer    Scorer
	memo      *cache.Store[string, Resolution]
}

type ResolverOption func(*Resolver)

func WithThreshold(threshold int) ResolverOption {
	return func(r *Resolver) {
		r.threshold = threshold
	}
}

func WithScorer(scorer Scorer) ResolverOption {
	return func(r *Resolver) {
		if scorer != nil {
			r.scorer = scorer
		}
	}
}

// NewResolver copies the catalog, so later changes to it do not affect the resolver.
func NewResolver(catalog commander.Catalog, opts ...ResolverOption) *Resolver {
	entries := make([]catalogEntry, 0, len(catalog))
	for name, id := range catalog {
		entries = append(entries, catalogEntry{name: name, id: id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	r := &Resolver{
		entries:   entries,
		threshold: DefaultThreshold,
		scorer:    DefaultScorer,
		memo:      cache.NewStore[string, Resolution](0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StripQualifier removes a trailing parenthetical such as a printing or alt-art note.
func StripQualifier(name string) string {
	return strings.TrimSpace(trailingQualifierPattern.ReplaceAllString(name, ""))
}

func (r *Resolver) Resolve(ctx context.Context, name string) Resolution {
	cleaned := StripQualifier(name)
	if cleaned == "" {
		return Resolution{Input: name}
	}

	res, _ := r.memo.GetOrLoad(ctx, cleaned, func(context.Context) (Resolution, error) {
		return r.bestMatch(cleaned), nil
	})
	res.Input = name
	return res
}

// bestMatch scans the whole catalog. Entries are sorted by name, so keeping only strictly
// better scores breaks ties by canonical name ascending.
func (r *Resolver) bestMatch(cleaned string) Resolution {
	out := Resolution{Cleaned: cleaned, Score: -1}
	for _, entry := range r.entries {
		score := r.scorer(cleaned, entry.name)
		if score > out.Score {
			out.Score = score
			out.Candidate = entry.name
			out.CommanderID = entry.id
		}
		if score == 100 {
			break
		}
	}

	if out.Score < 0 {
		return Resolution{Cleaned: cleaned}
	}
	out.Resolved = out.Score >= r.threshold
	if !out.Resolved {
		out.CommanderID = ""
	}
	return out
}
