// Package validation checks user supplied substance names and admin alias input before they reach the pipeline.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/triskis777/ketaverso-bot/interfaces"
)

const (
	MaxQueryLength = 100
	MaxQueryWords  = 8
	maxRepeat      = 10
)

// ErrInvalidInput is matched by every validation failure
var ErrInvalidInput = errors.New("invalid input")

var (
	// letters and digits of any script, plus the punctuation found in substance names (N,N-DMT, 2C-B, 1P-LSD, 4-HO-MET)
	inputRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}\s\-\.\+',()]+$`)

	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "xp_", "exec(", "execute(",
		"; ", "| ", "& ", "`", "$(", "${", // Command injection
		"../", "..\\", "%2e%2e", "file://", // Path traversal
		"{$ne:", "{$gt:", "{$where:", "{$or:", "{$regex:", "{$expr:", // NoSQL injection
	}
)

type InputValidatorImpl struct{}

// Compile-time check
var _ interfaces.InputValidator = (*InputValidatorImpl)(nil)

func NewInputValidator() *InputValidatorImpl {
	return &InputValidatorImpl{}
}

// ValidateQuery validates a substance name typed by a user
func (v *InputValidatorImpl) ValidateQuery(input string) error {
	return validateName("query", input)
}

// ValidateAlias validates both sides of an alias mapping
func (v *InputValidatorImpl) ValidateAlias(alias, target string) error {
	if err := validateName("alias", alias); err != nil {
		return err
	}
	return validateName("target", target)
}

func validateName(field, input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrInvalidInput, field)
	}

	if !utf8.ValidString(trimmed) {
		return fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidInput, field)
	}

	if n := utf8.RuneCountInString(trimmed); n > MaxQueryLength {
		return fmt.Errorf("%w: %s too long: %d characters, maximum %d", ErrInvalidInput, field, n, MaxQueryLength)
	}

	// Word count validation to prevent DoS attacks with many short words
	if len(strings.Fields(trimmed)) > MaxQueryWords {
		return fmt.Errorf("%w: %s too complex: maximum %d words allowed", ErrInvalidInput, field, MaxQueryWords)
	}

	lower := strings.ToLower(trimmed)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("%w: %s contains potentially dangerous content", ErrInvalidInput, field)
		}
	}

	if !inputRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: %s contains invalid characters", ErrInvalidInput, field)
	}

	if hasExcessiveRepetition(trimmed) {
		return fmt.Errorf("%w: %s contains excessive character repetition", ErrInvalidInput, field)
	}

	return nil
}

// hasExcessiveRepetition reports whether any rune repeats more than maxRepeat times in a row
func hasExcessiveRepetition(input string) bool {
	var prev rune
	run := 0
	for _, r := range input {
		if r == prev {
			run++
			if run > maxRepeat {
				return true
			}
			continue
		}
		prev = r
		run = 1
	}
	return false
}
