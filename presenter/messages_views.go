package presenter

import (
	"errors"
	"strconv"
	"strings"

	"github.com/triskis777/ketaverso-bot/aliases"
	"github.com/triskis777/ketaverso-bot/interfaces"
	"github.com/triskis777/ketaverso-bot/psychonautwiki"
)

// NotFound renders the not-found view. An empty suggestion list gets its own message.
func (p *Presenter) NotFound(suggestions []string) View {
	var msg string
	if len(suggestions) == 0 {
		msg = p.loc.t(keyNoSuggestions)
	} else {
		msg = p.loc.t(keyDidYouMean, strings.Join(suggestions, ", "))
	}
	return View{
		Title:       p.loc.t(keyNotFoundTitle),
		Description: msg + "\n" + p.loc.t(keyAliasHint),
		Color:       ColorSubstance,
		Ephemeral:   true,
	}
}

// Failure renders the user-visible message for a failed query
func (p *Presenter) Failure(err error) View {
	return p.notice(p.FailureMessage(err))
}

// FailureMessage maps a query error to its message
func (p *Presenter) FailureMessage(err error) string {
	var statusErr *psychonautwiki.StatusError
	switch {
	case errors.As(err, &statusErr):
		return p.loc.t(keyFailureStatus, strconv.Itoa(statusErr.Code))
	case errors.Is(err, psychonautwiki.ErrMalformedResponse):
		return p.loc.t(keyFailureMalformed)
	case errors.Is(err, psychonautwiki.ErrTransport):
		return p.loc.t(keyFailureTransport)
	default:
		return p.loc.t(keyFailureAPI)
	}
}

// Forbidden is shown to non-admins invoking admin commands
func (p *Presenter) Forbidden() View {
	return p.notice(p.loc.t(keyForbidden))
}

// Expired is shown when an interactive view is used after its lifetime
func (p *Presenter) Expired() View {
	return p.notice(p.loc.t(keyViewExpired))
}

// InvalidQuery is shown when the substance name fails validation
func (p *Presenter) InvalidQuery() View {
	return p.notice(p.loc.t(keyInvalidQuery))
}

// AliasConfirmation asks an admin to confirm alias -> target
func (p *Presenter) AliasConfirmation(id, rawAlias, normalizedAlias, target string) View {
	return View{
		Title:       p.loc.t(keyAliasConfirmTitle),
		Description: p.loc.t(keyAliasConfirmBody, rawAlias, normalizedAlias, target),
		Color:       ColorConfirm,
		Ephemeral:   true,
		Controls: []Control{
			{ID: id + ":confirm", Label: p.loc.t(keyAliasConfirmBtn), Emoji: "✅", Style: StyleSuccess},
			{ID: id + ":cancel", Label: p.loc.t(keyAliasCancelBtn), Emoji: "❌", Style: StyleDanger},
		},
	}
}

func (p *Presenter) AliasSaved(rawAlias, target string) View {
	return p.notice(p.loc.t(keyAliasSaved, rawAlias, target))
}

func (p *Presenter) AliasSaveFailed() View {
	return p.notice(p.loc.t(keyAliasSaveFailed))
}

func (p *Presenter) AliasCancelled() View {
	return p.notice(p.loc.t(keyAliasCancelled))
}

func (p *Presenter) AliasExpired() View {
	return p.notice(p.loc.t(keyAliasExpired))
}

// AliasPages renders the alias listing, one view per page of at most aliases.PageBudget characters
func (p *Presenter) AliasPages(entries []interfaces.AliasEntry) []View {
	if len(entries) == 0 {
		return []View{{
			Title:       p.loc.t(keyAliasListTitle),
			Description: p.loc.t(keyAliasListEmpty),
			Color:       ColorListing,
			Ephemeral:   true,
		}}
	}

	pages := aliases.Paginate(entries, aliases.PageBudget)
	views := make([]View, 0, len(pages))
	for i, body := range pages {
		title := p.loc.t(keyAliasListTitle)
		if i > 0 {
			title = p.loc.t(keyAliasListCont)
		}
		views = append(views, View{
			Title:       title,
			Description: body,
			Color:       ColorListing,
			Footer:      p.loc.t(keyPageFooter, strconv.Itoa(i+1), strconv.Itoa(len(pages))),
			Ephemeral:   true,
		})
	}
	return views
}

func (p *Presenter) notice(msg string) View {
	return View{Description: msg, Ephemeral: true}
}
