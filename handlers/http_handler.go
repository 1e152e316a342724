package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/triskis777/ketaverso-bot/interfaces"
	"github.com/triskis777/ketaverso-bot/logging"
	"github.com/triskis777/ketaverso-bot/normalizer"
	"github.com/triskis777/ketaverso-bot/pipeline"
	"github.com/triskis777/ketaverso-bot/presenter"
	"github.com/triskis777/ketaverso-bot/sessions"
)

// Resolver runs one substance resolution
type Resolver interface {
	Resolve(ctx context.Context, raw string) pipeline.Result
}

// PendingAlias is an alias mutation waiting for the requesting admin to confirm it
type PendingAlias struct {
	Raw         string
	Alias       string
	Target      string
	RequestedBy string
}

// Deps are the collaborators of the command surface
type Deps struct {
	Resolver  Resolver
	Presenter *presenter.Presenter
	Validator interfaces.InputValidator
	Aliases   interfaces.AliasStore
	Views     *sessions.Store[presenter.State]
	Pending   *sessions.Store[PendingAlias]
	Health    interfaces.HealthChecker
	// IsAdmin reports whether a caller may run administrative commands
	IsAdmin func(userID string) bool
}

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	resolver  Resolver
	presenter *presenter.Presenter
	validator interfaces.InputValidator
	aliases   interfaces.AliasStore
	views     *sessions.Store[presenter.State]
	pending   *sessions.Store[PendingAlias]
	health    interfaces.HealthChecker
	isAdmin   func(string) bool
}

var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(deps Deps) *HTTPHandlerImpl {
	isAdmin := deps.IsAdmin
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &HTTPHandlerImpl{
		resolver:  deps.Resolver,
		presenter: deps.Presenter,
		validator: deps.Validator,
		aliases:   deps.Aliases,
		views:     deps.Views,
		pending:   deps.Pending,
		health:    deps.Health,
		isAdmin:   isAdmin,
	}
}

// ResolveSubstance runs the pipeline for {query} and renders the outcome.
// Records with more than one ROA open a navigation session.
func (h *HTTPHandlerImpl) ResolveSubstance(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	if unescaped, err := url.PathUnescape(query); err == nil {
		query = unescaped
	}

	if err := h.validator.ValidateQuery(query); err != nil {
		logging.Warn("Unusual user input", "query", query, "error", err)
		RespondWithView(w, http.StatusBadRequest, h.presenter.InvalidQuery())
		return
	}

	res := h.resolver.Resolve(r.Context(), query)
	view, state, interactive, code := RenderResult(h.presenter, res)

	resp := ViewResponse{
		Outcome:     res.Outcome.String(),
		Canonical:   res.Canonical,
		Translated:  res.Translated,
		Suggestions: res.Suggestions,
		View:        view,
	}
	if interactive {
		resp.SessionID = h.views.Put(state)
		resp.ExpiresIn = int(h.views.TTL().Seconds())
	}

	RespondWithJSON(w, code, resp)
}

// SelectROA moves a navigation session to ROA {index}
func (h *HTTPHandlerImpl) SelectROA(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid ROA index")
		return
	}

	state, err := h.views.Get(id)
	if err != nil {
		RespondWithView(w, http.StatusNotFound, h.presenter.Expired())
		return
	}

	next, err := state.Select(index)
	if err != nil {
		logging.Warn("ROA index out of range", "session", id, "index", index, "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.views.Update(id, next); err != nil {
		RespondWithView(w, http.StatusNotFound, h.presenter.Expired())
		return
	}

	RespondWithJSON(w, http.StatusOK, ViewResponse{
		SessionID: id,
		ExpiresIn: int(h.views.TTL().Seconds()),
		View:      h.presenter.View(next),
	})
}

type aliasRequest struct {
	Alias  string `json:"alias"`
	Target string `json:"target"`
}

// RequestAlias stages alias -> target and returns the confirmation prompt
func (h *HTTPHandlerImpl) RequestAlias(w http.ResponseWriter, r *http.Request) {
	var req aliasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.validator.ValidateAlias(req.Alias, req.Target); err != nil {
		logging.Warn("Rejected alias request", "alias", req.Alias, "target", req.Target, "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	pending := PendingAlias{
		Raw:         strings.TrimSpace(req.Alias),
		Alias:       normalizer.Normalize(req.Alias),
		Target:      strings.ToLower(strings.TrimSpace(req.Target)),
		RequestedBy: userID(r),
	}
	if pending.Alias == "" {
		RespondWithError(w, http.StatusBadRequest, "alias normalizes to an empty name")
		return
	}

	id := h.pending.Put(pending)
	logging.Info("Alias pending confirmation", "id", id, "alias", pending.Alias, "target", pending.Target, "user", pending.RequestedBy)

	RespondWithJSON(w, http.StatusAccepted, ViewResponse{
		SessionID: id,
		ExpiresIn: int(h.pending.TTL().Seconds()),
		View:      h.presenter.AliasConfirmation(id, pending.Raw, pending.Alias, pending.Target),
	})
}

// ConfirmAlias persists a pending alias. Only the admin who staged it may confirm it.
func (h *HTTPHandlerImpl) ConfirmAlias(w http.ResponseWriter, r *http.Request) {
	pending, ok := h.takePending(w, r)
	if !ok {
		return
	}

	if err := h.aliases.Put(pending.Alias, pending.Target); err != nil {
		logging.Error("Failed to save alias", "alias", pending.Alias, "target", pending.Target, "error", err)
		RespondWithView(w, http.StatusInternalServerError, h.presenter.AliasSaveFailed())
		return
	}

	logging.Info("Alias saved", "alias", pending.Alias, "target", pending.Target, "user", userID(r))
	RespondWithView(w, http.StatusOK, h.presenter.AliasSaved(pending.Raw, pending.Target))
}

// CancelAlias drops a pending alias
func (h *HTTPHandlerImpl) CancelAlias(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.takePending(w, r); !ok {
		return
	}
	RespondWithView(w, http.StatusOK, h.presenter.AliasCancelled())
}

// takePending consumes the pending alias {id}, writing the error response itself when it cannot
func (h *HTTPHandlerImpl) takePending(w http.ResponseWriter, r *http.Request) (PendingAlias, bool) {
	id := chi.URLParam(r, "id")

	pending, err := h.pending.Get(id)
	if err != nil {
		RespondWithView(w, http.StatusNotFound, h.presenter.AliasExpired())
		return PendingAlias{}, false
	}
	if pending.RequestedBy == "" || pending.RequestedBy != userID(r) {
		RespondWithView(w, http.StatusForbidden, h.presenter.Forbidden())
		return PendingAlias{}, false
	}

	// a concurrent confirm or cancel may have won the race
	pending, err = h.pending.Take(id)
	if err != nil {
		RespondWithView(w, http.StatusNotFound, h.presenter.AliasExpired())
		return PendingAlias{}, false
	}
	return pending, true
}

// ListAliases returns page ?page=N (1-based, default 1) of the alias listing
func (h *HTTPHandlerImpl) ListAliases(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			logging.Warn("Unusual user input", "page", raw)
			RespondWithError(w, http.StatusBadRequest, "Invalid page number")
			return
		}
		page = n
	}

	views := h.presenter.AliasPages(h.aliases.Entries())
	if page > len(views) {
		RespondWithError(w, http.StatusNotFound, fmt.Sprintf("Page not found, there are %d pages", len(views)))
		return
	}

	RespondWithJSON(w, http.StatusOK, ViewResponse{
		Page:  page,
		Pages: len(views),
		View:  views[page-1],
	})
}

// HealthCheck returns service health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, code := h.health.HealthCheck()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	RespondWithJSON(w, code, HealthResponse{
		Status: status,
		Data:   data,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	})
}

// RequireAdmin rejects callers whose X-User-ID is not an administrator
func (h *HTTPHandlerImpl) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.isAdmin(userID(r)) {
			logging.Warn("Admin command denied", "user", userID(r), "path", r.URL.Path)
			RespondWithView(w, http.StatusForbidden, h.presenter.Forbidden())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(UserIDHeader))
}
