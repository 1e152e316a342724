package normalizer

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "ketamine", "ketamine"},
		{"upper case", "KETAMINA", "ketamina"},
		{"acute accent", "México", "mexico"},
		{"tilde n", "Añejo", "anejo"},
		{"upper tilde n", "AÑO", "ano"},
		{"mixed marks", "Ëxtàsïs", "extasis"},
		{"surrounding spaces", "  metanfetamina ", "metanfetamina"},
		{"eszett", "Straße", "strasse"},
		{"ligature", "Œuvre", "oeuvre"},
		{"compatibility form", "ﬁnal", "final"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"México", "Ñandú", "ÆTHER", "  Café  ", "İstanbul", "2C-B", "α-PVP", "ǅemal", "ﬃ", "Łódź", "ℌ",
		"ketamina´", "mdma¨", "¸lsd", "dmt˜", " ´ ", "क्षि",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeIsDiacriticInsensitive(t *testing.T) {
	pairs := [][2]string{
		{"México", "Mexico"},
		{"metanfetamína", "metanfetamina"},
		{"cocaína", "COCAINA"},
		{"éxtasis", "extasis"},
	}

	for _, p := range pairs {
		if Normalize(p[0]) != Normalize(p[1]) {
			t.Errorf("Expected %q and %q to normalize equally: %q vs %q", p[0], p[1], Normalize(p[0]), Normalize(p[1]))
		}
	}
}
