// Package pipeline resolves a user-typed substance name into a record, suggestions or a failure.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/triskis777/ketaverso-bot/interfaces"
	"github.com/triskis777/ketaverso-bot/logging"
	"github.com/triskis777/ketaverso-bot/metrics"
	"github.com/triskis777/ketaverso-bot/normalizer"
	"github.com/triskis777/ketaverso-bot/psychonautwiki/entities"
)

// Outcome is the terminal state of one resolution
type Outcome int

const (
	OutcomeFound Outcome = iota
	OutcomeNotFound
	OutcomeQueryFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeQueryFailed:
		return "query_failed"
	default:
		return "unknown"
	}
}

// Result carries everything the presentation layer needs. Err is set only for OutcomeQueryFailed.
type Result struct {
	Outcome Outcome
	// Input is the raw input lower-cased and trimmed
	Input      string
	Normalized string
	// Canonical is the name sent to the knowledge base
	Canonical   string
	Record      *entities.Substance
	Translated  bool
	Suggestions []string
	Err         error
}

// Pipeline wires the resolution stages. Fallback may be nil to disable the translated retry.
type Pipeline struct {
	aliases   interfaces.AliasStore
	querier   interfaces.SubstanceQuerier
	fallback  interfaces.Fallback
	suggester interfaces.Suggester
}

func New(aliases interfaces.AliasStore, querier interfaces.SubstanceQuerier, fallback interfaces.Fallback, suggester interfaces.Suggester) *Pipeline {
	return &Pipeline{
		aliases:   aliases,
		querier:   querier,
		fallback:  fallback,
		suggester: suggester,
	}
}

// Resolve runs one resolution. It never returns an error: failures are reported through Result.
func (p *Pipeline) Resolve(ctx context.Context, raw string) Result {
	start := time.Now()
	res := p.resolve(ctx, raw)

	metrics.SubstanceResolutions.WithLabelValues(res.Outcome.String()).Inc()
	logging.Info("Substance resolved",
		"input", res.Input,
		"normalized", res.Normalized,
		"canonical", res.Canonical,
		"outcome", res.Outcome.String(),
		"translated", res.Translated,
		"suggestions", len(res.Suggestions),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res
}

func (p *Pipeline) resolve(ctx context.Context, raw string) Result {
	input := strings.ToLower(strings.TrimSpace(raw))
	normalized := normalizer.Normalize(input)
	canonical := p.aliases.Resolve(normalized)

	res := Result{Input: input, Normalized: normalized, Canonical: canonical}

	substances, err := p.querier.Query(ctx, canonical)
	if err != nil {
		logging.Error("Substance query failed", "canonical", canonical, "error", err)
		res.Outcome = OutcomeQueryFailed
		res.Err = err
		return res
	}

	if len(substances) == 0 && p.fallback != nil {
		substances = p.fallback.TryFallback(ctx, input)
		res.Translated = len(substances) > 0
	}

	if len(substances) > 0 {
		record := substances[0]
		res.Outcome = OutcomeFound
		res.Record = &record
		return res
	}

	res.Outcome = OutcomeNotFound
	res.Suggestions = p.suggester.Suggest(normalized, p.aliases.KnownNames())
	return res
}
