// Package handlers provides the HTTP command surface of the bot: substance lookups,
// ROA navigation, administrative alias commands and health checks.
// Every response carries a rendered view the chat gateway can relay as-is.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/triskis777/ketaverso-bot/logging"
	"github.com/triskis777/ketaverso-bot/pipeline"
	"github.com/triskis777/ketaverso-bot/presenter"
)

// UserIDHeader carries the chat user id of the caller, as forwarded by the gateway
const UserIDHeader = "X-User-ID"

// ViewResponse is the envelope of every view-bearing response
type ViewResponse struct {
	Outcome     string         `json:"outcome,omitempty"`
	Canonical   string         `json:"canonical,omitempty"`
	Translated  bool           `json:"translated,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	SessionID   string         `json:"session_id,omitempty"`
	ExpiresIn   int            `json:"expires_in_seconds,omitempty"`
	Page        int            `json:"page,omitempty"`
	Pages       int            `json:"pages,omitempty"`
	View        presenter.View `json:"view"`
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
	System map[string]any `json:"system"`
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// RespondWithView writes a bare view with the given status
func RespondWithView(w http.ResponseWriter, code int, view presenter.View) {
	RespondWithJSON(w, code, ViewResponse{View: view})
}

// RenderResult maps a pipeline result to the view to show and the HTTP status to answer with.
// interactive is true only when state needs a navigation session.
func RenderResult(p *presenter.Presenter, res pipeline.Result) (view presenter.View, state presenter.State, interactive bool, code int) {
	switch res.Outcome {
	case pipeline.OutcomeFound:
		v, s, ok := p.Record(*res.Record)
		return v, s, ok && s.Interactive(), http.StatusOK
	case pipeline.OutcomeNotFound:
		return p.NotFound(res.Suggestions), presenter.State{}, false, http.StatusNotFound
	default:
		return p.Failure(res.Err), presenter.State{}, false, http.StatusBadGateway
	}
}
