package presenter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/triskis777/ketaverso-bot/interfaces"
	"github.com/triskis777/ketaverso-bot/psychonautwiki"
	"github.com/triskis777/ketaverso-bot/psychonautwiki/entities"
)

func f(v float64) *float64 { return &v }

func rng(min, max float64, units string) *entities.Range {
	return &entities.Range{Min: f(min), Max: f(max), Units: units}
}

func threeRoaRecord() entities.Substance {
	return entities.Substance{
		Name:        "Ketamine",
		CommonNames: []string{"Ketamine", "K", "Special K"},
		Effects:     []entities.Effect{{Name: "Dissociation"}, {Name: "Euphoria"}},
		Roas: []entities.Roa{
			{
				Name: "insufflated",
				Dose: &entities.Dose{
					Units:     "mg",
					Threshold: entities.DoseValue{Kind: entities.DoseScalar, Scalar: 5},
					Light:     entities.DoseValue{Kind: entities.DoseRange, Range: *rng(15, 30, "")},
					Common:    entities.DoseValue{Kind: entities.DoseRange, Range: entities.Range{Min: f(30)}},
					Heavy:     entities.DoseValue{Kind: entities.DoseScalar, Scalar: 2.5},
				},
				Duration: &entities.Duration{
					Onset: rng(2, 5, "minutes"),
					Total: rng(45, 90, "minutes"),
				},
				Bioavailability: rng(45, 50, ""),
			},
			{Name: "oral"},
			{Name: "Intramuscular", Bioavailability: &entities.Range{Min: f(93)}},
		},
	}
}

func fieldValue(v View, name string) (string, bool) {
	for _, fl := range v.Fields {
		if fl.Name == name {
			return fl.Value, true
		}
	}
	return "", false
}

func TestNavigationRendersEachROA(t *testing.T) {
	p := New("en")
	state, err := NewState(threeRoaRecord())
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}

	wantTitles := []string{
		"💡 Ketamine - 👃 Insufflated",
		"💡 Ketamine - 💊 Oral",
		"💡 Ketamine - 💉💪 Intramuscular",
	}

	for _, i := range []int{0, 1, 2} {
		state, err = state.Select(i)
		if err != nil {
			t.Fatalf("Select(%d): %v", i, err)
		}
		v := p.View(state)
		if v.Title != wantTitles[i] {
			t.Errorf("index %d: title = %q, want %q", i, v.Title, wantTitles[i])
		}
		if want := fmt.Sprintf("ROA %d of 3", i+1); v.Footer != want {
			t.Errorf("index %d: footer = %q, want %q", i, v.Footer, want)
		}
		if len(v.Controls) != 3 {
			t.Fatalf("index %d: expected 3 controls, got %d", i, len(v.Controls))
		}
		for j, c := range v.Controls {
			if c.Active != (j == i) {
				t.Errorf("index %d: control %d active = %v", i, j, c.Active)
			}
			if c.Active && c.Emoji != "✅" {
				t.Errorf("index %d: active control not marked, got %q", i, c.Emoji)
			}
			if !c.Active && c.Emoji != "" {
				t.Errorf("index %d: inactive control %d marked with %q", i, j, c.Emoji)
			}
		}
	}
}

func TestSelectOutOfRange(t *testing.T) {
	state, _ := NewState(threeRoaRecord())
	for _, j := range []int{-1, 3, 99} {
		next, err := state.Select(j)
		if !errors.Is(err, ErrROAIndexOutOfRange) {
			t.Errorf("Select(%d): expected ErrROAIndexOutOfRange, got %v", j, err)
		}
		if next.Index() != state.Index() {
			t.Errorf("Select(%d): state moved on error", j)
		}
	}

	if _, err := NewState(entities.Substance{Name: "Empty"}); !errors.Is(err, ErrNoROAs) {
		t.Errorf("Expected ErrNoROAs, got %v", err)
	}
}

func TestRenderSections(t *testing.T) {
	p := New("en")
	v := p.Render(threeRoaRecord(), 0)

	dose, ok := fieldValue(v, "💊 **Dose**")
	if !ok {
		t.Fatal("Expected dose field")
	}
	wantDose := strings.Join([]string{
		"__**Threshold**__: 5 mg",
		"__**Light**__: 15–30 mg",
		"__**Common**__: –",
		"__**Heavy**__: 2.5 mg",
	}, "\n")
	if diff := cmp.Diff(wantDose, dose); diff != "" {
		t.Errorf("dose mismatch (-want +got):\n%s", diff)
	}

	duration, ok := fieldValue(v, "⏳ **Duration**")
	if !ok {
		t.Fatal("Expected duration field")
	}
	wantDuration := "__**Onset**__: 2–5 minutes\n__**Total**__: 45–90 minutes"
	if duration != wantDuration {
		t.Errorf("duration = %q, want %q", duration, wantDuration)
	}

	if bio, _ := fieldValue(v, "📈 Bioavailability"); bio != "*45–50%*" {
		t.Errorf("bioavailability = %q", bio)
	}

	if aka, _ := fieldValue(v, "🔹 Also known as"); aka != "Ketamine, K, Special K" {
		t.Errorf("also known as = %q", aka)
	}
}

func TestRenderOmitsAbsentSections(t *testing.T) {
	p := New("en")

	oral := p.Render(threeRoaRecord(), 1)
	for _, name := range []string{"💊 **Dose**", "⏳ **Duration**", "📈 Bioavailability"} {
		if _, ok := fieldValue(oral, name); ok {
			t.Errorf("Expected %q omitted for ROA without data", name)
		}
	}

	im := p.Render(threeRoaRecord(), 2)
	if _, ok := fieldValue(im, "📈 Bioavailability"); ok {
		t.Error("Expected incomplete bioavailability omitted")
	}
}

func TestRecordViewShapes(t *testing.T) {
	p := New("en")

	base, _, ok := p.Record(entities.Substance{Name: "Mystery", CommonNames: []string{"M"}})
	if ok {
		t.Error("Expected no state for a record without ROAs")
	}
	if base.Title != "🔍 Mystery" || base.Footer != "" || len(base.Controls) != 0 {
		t.Errorf("Unexpected base view: %+v", base)
	}

	single, state, ok := p.Record(entities.Substance{Name: "LSD", Roas: []entities.Roa{{Name: "sublingual"}}})
	if !ok || state.Interactive() {
		t.Error("Expected a non-interactive state for a single ROA")
	}
	if single.Title != "💡 LSD - 👅 Sublingual" || len(single.Controls) != 0 || single.Footer != "ROA 1 of 1" {
		t.Errorf("Unexpected single-ROA view: %+v", single)
	}

	multi, state, ok := p.Record(threeRoaRecord())
	if !ok || !state.Interactive() || state.Index() != 0 {
		t.Error("Expected interactive state at index 0")
	}
	if len(multi.Controls) != 3 || !multi.Controls[0].Active {
		t.Errorf("Unexpected controls: %+v", multi.Controls)
	}
}

func TestBaseEffectsLink(t *testing.T) {
	p := New("en")
	record := entities.Substance{Name: "Psilocybin mushrooms"}
	for i := 0; i < 12; i++ {
		record.Effects = append(record.Effects, entities.Effect{Name: fmt.Sprintf("E%d", i)})
	}

	effects, ok := fieldValue(p.Base(record), "🎯 Effects")
	if !ok {
		t.Fatal("Expected effects field")
	}
	if !strings.HasPrefix(effects, "E0, E1, E2, E3, E4, E5, E6, E7, E8, E9\n") {
		t.Errorf("Expected first 10 effects, got %q", effects)
	}
	if strings.Contains(effects, "E10") {
		t.Errorf("Expected effects beyond 10 to be cut, got %q", effects)
	}
	if !strings.Contains(effects, "https://psychonautwiki.org/wiki/Psilocybin_mushrooms#Effects") {
		t.Errorf("Expected wiki link, got %q", effects)
	}
}

func TestFieldTruncation(t *testing.T) {
	p := New("en")
	long := strings.Repeat("x", 2000)
	v := p.Base(entities.Substance{Name: "X", CommonNames: []string{long}})

	aka, _ := fieldValue(v, "🔹 Also known as")
	if len([]rune(aka)) != MaxFieldValue || !strings.HasSuffix(aka, "...") {
		t.Errorf("Expected %d chars ending in ..., got %d", MaxFieldValue, len([]rune(aka)))
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"oral":        "💊 Oral",
		"SMOKED":      "🚬💨 Smoked",
		"rectal":      "🎯 💩 Rectal",
		"transdermal": "❓ Transdermal",
		"":            "❓ ",
	}
	for in, want := range tests {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNotFound(t *testing.T) {
	p := New("en")

	with := p.NotFound([]string{"ketamine", "methoxetamine"})
	if with.Title != "❌ Substance not found" || !with.Ephemeral {
		t.Errorf("Unexpected view: %+v", with)
	}
	if !strings.HasPrefix(with.Description, "🔎 Did you mean: ketamine, methoxetamine?") {
		t.Errorf("Unexpected description: %q", with.Description)
	}

	without := p.NotFound(nil)
	if !strings.HasPrefix(without.Description, "No suggestions found.") {
		t.Errorf("Expected distinct no-suggestions message, got %q", without.Description)
	}
}

func TestFailureMessages(t *testing.T) {
	p := New("en")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"status", &psychonautwiki.StatusError{Code: 500}, "❌ API query error (code 500)."},
		{"malformed", fmt.Errorf("%w: eof", psychonautwiki.ErrMalformedResponse), "❌ Error processing the API response (invalid JSON)."},
		{"transport", fmt.Errorf("%w: refused", psychonautwiki.ErrTransport), "❌ Connection error with the API."},
		{"api errors", &psychonautwiki.APIError{Messages: []string{"x"}}, "❌ The PsychonautWiki API is having problems. Try again later."},
		{"missing data", psychonautwiki.ErrMissingData, "❌ The PsychonautWiki API is having problems. Try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := p.Failure(tt.err)
			if v.Description != tt.want {
				t.Errorf("got %q, want %q", v.Description, tt.want)
			}
			if !v.Ephemeral {
				t.Error("Expected failure to be ephemeral")
			}
		})
	}
}

func TestSpanishLocale(t *testing.T) {
	p := New("es")
	if p.Language() != "es" {
		t.Fatalf("Expected es, got %s", p.Language())
	}

	v := p.Render(threeRoaRecord(), 0)
	if v.Footer != "ROA 1 de 3" {
		t.Errorf("footer = %q", v.Footer)
	}
	if _, ok := fieldValue(v, "💊 **Dosis**"); !ok {
		t.Error("Expected Spanish dose field name")
	}
	if got := p.Failure(&psychonautwiki.StatusError{Code: 1000}).Description; got != "❌ Error al consultar la API (código 1000)." {
		t.Errorf("Expected ungrouped status code, got %q", got)
	}
}

func TestUnsupportedLocaleFallsBackToEnglish(t *testing.T) {
	for _, locale := range []string{"", "fr", "not a locale"} {
		if got := New(locale).Language(); got != "en" {
			t.Errorf("New(%q).Language() = %q, want en", locale, got)
		}
	}
}

func TestAliasPages(t *testing.T) {
	p := New("en")

	empty := p.AliasPages(nil)
	if len(empty) != 1 || empty[0].Description != "No aliases configured." {
		t.Errorf("Unexpected empty listing: %+v", empty)
	}

	var entries []interfaces.AliasEntry
	for i := 0; i < 300; i++ {
		entries = append(entries, interfaces.AliasEntry{Alias: fmt.Sprintf("alias-%03d", i), Target: "some substance name"})
	}
	views := p.AliasPages(entries)
	if len(views) < 2 {
		t.Fatalf("Expected several pages, got %d", len(views))
	}
	for i, v := range views {
		if len([]rune(v.Description)) > 4000 {
			t.Errorf("page %d exceeds budget: %d", i, len([]rune(v.Description)))
		}
		if want := fmt.Sprintf("Page %d of %d", i+1, len(views)); v.Footer != want {
			t.Errorf("page %d footer = %q, want %q", i, v.Footer, want)
		}
	}
	if !strings.HasPrefix(views[0].Description, "`alias-000` -> `some substance name`\n") {
		t.Errorf("Unexpected first line: %q", views[0].Description[:40])
	}
}

func TestAliasConfirmationControls(t *testing.T) {
	v := New("en").AliasConfirmation("abc", "Keta", "keta", "ketamine")
	ids := []string{v.Controls[0].ID, v.Controls[1].ID}
	if diff := cmp.Diff([]string{"abc:confirm", "abc:cancel"}, ids); diff != "" {
		t.Errorf("control ids mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(v.Description, "`Keta` (normalized: `keta`) to point to `ketamine`") {
		t.Errorf("Unexpected description: %q", v.Description)
	}
}

func TestPlainText(t *testing.T) {
	out := PlainText(New("en").View(mustState(t, threeRoaRecord())))
	for _, want := range []string{"💡 Ketamine - 👃 Insufflated", "Threshold: 5 mg", "[👃 Insufflated]", "ROA 1 of 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "__") || strings.Contains(out, "**") {
		t.Errorf("Expected markup stripped:\n%s", out)
	}
}

func mustState(t *testing.T, record entities.Substance) State {
	t.Helper()
	s, err := NewState(record)
	if err != nil {
		t.Fatal(err)
	}
	return s
}
