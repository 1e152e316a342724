package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateQuery_Valid(t *testing.T) {
	validator := NewInputValidator()

	testCases := []string{
		"K",
		"ketamina",
		"Metanfetamina",
		"2C-B",
		"1P-LSD",
		"N,N-DMT",
		"4-HO-MET",
		"hongos mágicos",
		"éxtasis",
		"α-PVP",
		"Psilocybin mushrooms",
		"  lsd  ",
		"dextromethorphan (DXM)",
	}

	for _, input := range testCases {
		t.Run(input, func(t *testing.T) {
			if err := validator.ValidateQuery(input); err != nil {
				t.Errorf("Expected %q to be valid, got %v", input, err)
			}
		})
	}
}

func TestValidateQuery_Invalid(t *testing.T) {
	validator := NewInputValidator()

	testCases := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"Whitespace only", "   \t"},
		{"Too long", strings.Repeat("ab", 51)},
		{"Too many words", "a b c d e f g h i"},
		{"Script tag", "<script>alert(1)</script>"},
		{"SQL injection", "lsd' or 1=1"},
		{"SQL comment", "lsd--"},
		{"Command injection", "lsd; rm -rf"},
		{"Path traversal", "../etc/passwd"},
		{"Template injection", "${jndi}"},
		{"Special characters", "!@#$%^"},
		{"Null byte", "abc\x00def"},
		{"Excessive repetition", "aaaaaaaaaaaa"},
		{"Invalid UTF-8", "ket\xffamine"},
		{"Underscore", "lsd_25"},
		{"Slash", "mdma/mda"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.ValidateQuery(tc.input)
			if err == nil {
				t.Fatalf("Expected error for %q", tc.input)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestValidateQuery_RepetitionBoundary(t *testing.T) {
	validator := NewInputValidator()

	if err := validator.ValidateQuery(strings.Repeat("e", 10)); err != nil {
		t.Errorf("Expected 10 repeats to pass, got %v", err)
	}
	if err := validator.ValidateQuery(strings.Repeat("é", 11)); err == nil {
		t.Error("Expected 11 repeats of a multi-byte rune to fail")
	}
}

func TestValidateAlias(t *testing.T) {
	validator := NewInputValidator()

	if err := validator.ValidateAlias("keta", "Ketamine"); err != nil {
		t.Errorf("Expected valid alias, got %v", err)
	}

	err := validator.ValidateAlias("", "Ketamine")
	if err == nil || !strings.Contains(err.Error(), "alias") {
		t.Errorf("Expected alias error, got %v", err)
	}

	err = validator.ValidateAlias("keta", "  ")
	if err == nil || !strings.Contains(err.Error(), "target") {
		t.Errorf("Expected target error, got %v", err)
	}
}
