// Package suggestions ranks known substance names by similarity to an unmatched input.
package suggestions

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/triskis777/ketaverso-bot/interfaces"
	"github.com/triskis777/ketaverso-bot/metrics"
	"github.com/triskis777/ketaverso-bot/normalizer"
)

const (
	DefaultLimit  = 3
	DefaultCutoff = 0.6
)

var _ interfaces.Suggester = (*Engine)(nil)

// Engine returns up to Limit known names whose similarity ratio is at least Cutoff
type Engine struct {
	Limit  int
	Cutoff float64
}

// NewEngine creates an engine; non-positive limit or out-of-range cutoff fall back to the defaults
func NewEngine(limit int, cutoff float64) *Engine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if cutoff < 0 || cutoff > 1 {
		cutoff = DefaultCutoff
	}
	return &Engine{Limit: limit, Cutoff: cutoff}
}

type candidate struct {
	name  string
	score float64
}

// Suggest compares normalizedInput with the normalized form of each known name and returns
// the canonical spellings, best score first. Equal scores keep the order of knownNames.
func (e *Engine) Suggest(normalizedInput string, knownNames []string) []string {
	out := e.rank(normalizedInput, knownNames)

	matched := "false"
	if len(out) > 0 {
		matched = "true"
	}
	metrics.Suggestions.WithLabelValues(matched).Inc()

	return out
}

func (e *Engine) rank(input string, knownNames []string) []string {
	if len(knownNames) == 0 || e.Limit <= 0 {
		return []string{}
	}

	m := difflib.NewMatcher(nil, split(input))

	var candidates []candidate
	for _, name := range knownNames {
		m.SetSeq1(split(normalizer.Normalize(name)))
		// cheap upper bounds first, as get_close_matches does
		if m.RealQuickRatio() < e.Cutoff || m.QuickRatio() < e.Cutoff {
			continue
		}
		if score := m.Ratio(); score >= e.Cutoff {
			candidates = append(candidates, candidate{name: name, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > e.Limit {
		candidates = candidates[:e.Limit]
	}

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.name)
	}
	return out
}

// split breaks s into one element per rune so ratios are computed over characters
func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}
