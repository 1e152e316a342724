package aliases

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/triskis777/ketaverso-bot/interfaces"
)

const (
	// PageBudget is the character ceiling of one listing page body
	PageBudget = 4000
	// MaxValueLength is the longest single value rendered before truncation
	MaxValueLength = 1024
)

// Truncate shortens s to at most limit characters, ending with an ellipsis when cut
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit <= 3 {
		return string([]rune(s)[:limit])
	}
	return string([]rune(s)[:limit-3]) + "..."
}

// Paginate renders entries as "`alias` -> `target`" lines packed into pages of at most budget characters.
func Paginate(entries []interfaces.AliasEntry, budget int) []string {
	if budget <= 0 {
		budget = PageBudget
	}

	var pages []string
	var current strings.Builder
	currentLen := 0

	for _, e := range entries {
		item := Truncate(fmt.Sprintf("`%s` -> `%s`", e.Alias, e.Target), min(MaxValueLength, budget-1))
		itemLen := utf8.RuneCountInString(item) + 1

		if currentLen > 0 && currentLen+itemLen > budget {
			pages = append(pages, current.String())
			current.Reset()
			currentLen = 0
		}

		current.WriteString(item)
		current.WriteString("\n")
		currentLen += itemLen
	}

	if currentLen > 0 {
		pages = append(pages, current.String())
	}
	return pages
}
