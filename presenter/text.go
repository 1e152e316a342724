package presenter

import (
	"strings"
)

// PlainText flattens a view for terminal output, stripping the chat markup
func PlainText(v View) string {
	var sb strings.Builder

	if v.Title != "" {
		sb.WriteString(v.Title)
		sb.WriteString("\n\n")
	}
	if v.Description != "" {
		sb.WriteString(stripMarkup(v.Description))
		sb.WriteString("\n\n")
	}
	for _, f := range v.Fields {
		sb.WriteString(stripMarkup(f.Name))
		sb.WriteString("\n")
		for _, line := range strings.Split(stripMarkup(f.Value), "\n") {
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	if len(v.Controls) > 0 {
		labels := make([]string, 0, len(v.Controls))
		for _, c := range v.Controls {
			label := c.Label
			if c.Active {
				label = "[" + label + "]"
			}
			labels = append(labels, label)
		}
		sb.WriteString(strings.Join(labels, "  "))
		sb.WriteString("\n")
	}
	if v.Footer != "" {
		sb.WriteString(v.Footer)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

var markup = strings.NewReplacer("__", "", "**", "", "*", "", "`", "")

func stripMarkup(s string) string {
	return markup.Replace(s)
}
