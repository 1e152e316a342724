package translation

import (
	"context"
	"strings"

	"github.com/triskis777/ketaverso-bot/interfaces"
	"github.com/triskis777/ketaverso-bot/logging"
	"github.com/triskis777/ketaverso-bot/metrics"
	"github.com/triskis777/ketaverso-bot/psychonautwiki/entities"
)

var _ interfaces.Fallback = (*Fallback)(nil)

// Fallback re-queries once with a translated name. It is best-effort: every error ends in an empty result.
type Fallback struct {
	translator interfaces.Translator
	querier    interfaces.SubstanceQuerier
}

// NewFallback creates a fallback over translator and querier
func NewFallback(translator interfaces.Translator, querier interfaces.SubstanceQuerier) *Fallback {
	return &Fallback{translator: translator, querier: querier}
}

// TryFallback translates originalInput and, when the translation differs case-insensitively,
// issues exactly one more query with the lower-cased translation.
func (f *Fallback) TryFallback(ctx context.Context, originalInput string) []entities.Substance {
	if f == nil || f.translator == nil || f.querier == nil {
		return nil
	}

	original := strings.TrimSpace(originalInput)
	translated, err := f.translator.Translate(ctx, original)
	if err != nil {
		logging.Warn("Translation failed", "input", original, "error", err)
		metrics.TranslationFallbacks.WithLabelValues("translation_error").Inc()
		return nil
	}

	translated = strings.ToLower(strings.TrimSpace(translated))
	if translated == "" || translated == strings.ToLower(original) {
		metrics.TranslationFallbacks.WithLabelValues("unchanged").Inc()
		return nil
	}

	logging.Info("Retrying query with translation", "input", original, "translated", translated)

	substances, err := f.querier.Query(ctx, translated)
	if err != nil {
		logging.Warn("Translated retry failed", "translated", translated, "error", err)
		metrics.TranslationFallbacks.WithLabelValues("retry_error").Inc()
		return nil
	}
	if len(substances) == 0 {
		metrics.TranslationFallbacks.WithLabelValues("no_match").Inc()
		return nil
	}

	metrics.TranslationFallbacks.WithLabelValues("found").Inc()
	return substances
}
