// Package presenter turns substance records and pipeline outcomes into chat-embed shaped views.
// Every function here is pure: the hosting collaborator owns message and widget lifetime.
package presenter

import (
	"strings"
	"unicode/utf8"
)

const (
	ColorSubstance = 0x8e44ad
	ColorFailure   = 0xe74c3c
	ColorConfirm   = 0xe67e22
	ColorListing   = 0x3498db

	// MaxFieldValue is the longest field value rendered before truncation
	MaxFieldValue = 1024
)

// Control styles
const (
	StylePrimary = "primary"
	StyleSuccess = "success"
	StyleDanger  = "danger"
)

// View is an immutable rendered message
type View struct {
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Color       int       `json:"color,omitempty"`
	Fields      []Field   `json:"fields,omitempty"`
	Footer      string    `json:"footer,omitempty"`
	Controls    []Control `json:"controls,omitempty"`
	Ephemeral   bool      `json:"ephemeral,omitempty"`
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Control is an actionable button. ID is what the host sends back when it is pressed.
type Control struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Emoji  string `json:"emoji,omitempty"`
	Style  string `json:"style"`
	Active bool   `json:"active,omitempty"`
}

// addField appends a trimmed, length-capped field, skipping empty values
func (v *View) addField(name, value string, inline bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	v.Fields = append(v.Fields, Field{Name: name, Value: truncate(value, MaxFieldValue), Inline: inline})
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit-3]) + "..."
}
