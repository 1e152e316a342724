// Package interfaces defines core abstractions for the substance bot
// to improve testability and keep the resolution pipeline decoupled from its collaborators.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/triskis777/ketaverso-bot/psychonautwiki/entities"
)

// AliasEntry is one alias -> canonical substance name mapping
type AliasEntry struct {
	Alias  string `json:"alias"`
	Target string `json:"target"`
}

// AliasStore defines the contract for the process-wide alias table.
// Readers never observe a partially written table; writers replace the whole table at once.
type AliasStore interface {
	// Resolve returns the canonical name for a normalized alias, or the input unchanged
	Resolve(normalized string) string
	// KnownNames returns the distinct canonical names in table order
	KnownNames() []string
	// Entries returns every mapping in table order
	Entries() []AliasEntry
	Len() int

	// Put persists alias -> target and, only once persisted, makes it visible to readers
	Put(alias, target string) error
	// Reload re-reads the backing file and swaps the table in
	Reload() error
}

// SubstanceQuerier issues one structured query against the knowledge base.
// A nil error with an empty slice is a zero-result success.
type SubstanceQuerier interface {
	Query(ctx context.Context, name string) ([]entities.Substance, error)
}

// UpstreamStatus reports the outcome timestamps of the most recent upstream calls
type UpstreamStatus interface {
	LastSuccess() time.Time
	LastFailure() time.Time
}

// Translator translates text into the configured pivot language, auto-detecting the source.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Fallback retries a zero-result query once through translation. It never returns an error.
type Fallback interface {
	TryFallback(ctx context.Context, originalInput string) []entities.Substance
}

// Suggester ranks known names by similarity to a normalized input
type Suggester interface {
	Suggest(normalizedInput string, knownNames []string) []string
}

// InputValidator validates user supplied command arguments
type InputValidator interface {
	ValidateQuery(input string) error
	ValidateAlias(alias, target string) error
}

// HTTPHandler defines the contract for the command surface served to the chat gateway.
type HTTPHandler interface {
	ResolveSubstance(w http.ResponseWriter, r *http.Request)
	SelectROA(w http.ResponseWriter, r *http.Request)
	RequestAlias(w http.ResponseWriter, r *http.Request)
	ConfirmAlias(w http.ResponseWriter, r *http.Request)
	CancelAlias(w http.ResponseWriter, r *http.Request)
	ListAliases(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	RequireAdmin(next http.Handler) http.Handler
}

// Scheduler defines the contract for background maintenance jobs.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current status, details and the HTTP status to answer with
	HealthCheck() (status string, details map[string]any, httpStatus int)
}
