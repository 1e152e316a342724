package presenter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/triskis777/ketaverso-bot/psychonautwiki/entities"
)

// ErrROAIndexOutOfRange is returned when navigation targets a ROA the record does not have
var ErrROAIndexOutOfRange = errors.New("roa index out of range")

// ErrNoROAs is returned when an interactive state is requested for a record without ROAs
var ErrNoROAs = errors.New("record has no routes of administration")

const (
	effectsShown = 10
	wikiBase     = "https://psychonautwiki.org/wiki/"
	activeGlyph  = "✅"
	unknownGlyph = "❓"
	noValue      = "–"
	rangeSep     = "–"
)

var roaEmojis = map[string]string{
	"oral":          "💊",
	"insufflated":   "👃",
	"smoked":        "🚬💨",
	"intravenous":   "💉🩸",
	"intramuscular": "💉💪",
	"sublingual":    "👅",
	"rectal":        "🎯 💩",
}

var doseLabels = map[string]string{
	"threshold": keyDoseThreshold,
	"light":     keyDoseLight,
	"common":    keyDoseCommon,
	"strong":    keyDoseStrong,
	"heavy":     keyDoseHeavy,
}

var phaseLabels = map[string]string{
	"onset":     keyPhaseOnset,
	"comeup":    keyPhaseComeup,
	"peak":      keyPhasePeak,
	"offset":    keyPhaseOffset,
	"afterglow": keyPhaseAfterglow,
	"total":     keyPhaseTotal,
}

// Presenter renders views in one language
type Presenter struct {
	loc localizer
}

// New creates a presenter for locale ("en", "es"); unsupported locales fall back to English
func New(locale string) *Presenter {
	return &Presenter{loc: newLocalizer(locale)}
}

// Language returns the matched language tag, e.g. "en"
func (p *Presenter) Language() string {
	return p.loc.tag.String()
}

// Base renders the substance header shared by every view of a record
func (p *Presenter) Base(record entities.Substance) View {
	name := p.substanceName(record)
	v := View{Title: "🔍 " + name, Color: ColorSubstance}

	if len(record.CommonNames) > 0 {
		v.addField(p.loc.t(keyAlsoKnownAs), strings.Join(record.CommonNames, ", "), false)
	}

	if len(record.Effects) > 0 {
		shown := record.Effects
		if len(shown) > effectsShown {
			shown = shown[:effectsShown]
		}
		names := make([]string, 0, len(shown))
		for _, e := range shown {
			names = append(names, e.Name)
		}
		list := strings.Join(names, ", ")
		if len(record.Effects) > effectsShown {
			list += fmt.Sprintf("\n[%s](%s%s#Effects)", p.loc.t(keyAllEffects), wikiBase, strings.ReplaceAll(name, " ", "_"))
		}
		v.addField(p.loc.t(keyEffects), list, false)
	}

	return v
}

// Render renders the index-th ROA of record. An out-of-range index yields the base view.
func (p *Presenter) Render(record entities.Substance, index int) View {
	v := p.Base(record)
	if index < 0 || index >= len(record.Roas) {
		return v
	}

	roa := record.Roas[index]
	v.Title = fmt.Sprintf("💡 %s - %s", p.substanceName(record), DisplayName(roa.Name))

	if dose := p.doseSection(roa.Dose); dose != "" {
		v.addField(p.loc.t(keyDose), dose, false)
	}
	if duration := p.durationSection(roa.Duration); duration != "" {
		v.addField(p.loc.t(keyDuration), duration, false)
	}
	if roa.Bioavailability.Complete() {
		bio := formatNumber(*roa.Bioavailability.Min) + rangeSep + formatNumber(*roa.Bioavailability.Max) + "%"
		v.addField(p.loc.t(keyBioavailability), "*"+bio+"*", false)
	}

	v.Footer = p.loc.t(keyROAFooter, strconv.Itoa(index+1), strconv.Itoa(len(record.Roas)))
	return v
}

func (p *Presenter) substanceName(record entities.Substance) string {
	if record.Name == "" {
		return p.loc.t(keyUnknownName)
	}
	return record.Name
}

func (p *Presenter) doseSection(d *entities.Dose) string {
	var lines []string
	for _, level := range d.Levels() {
		var value string
		switch level.Value.Kind {
		case entities.DoseScalar:
			value = withUnits(formatNumber(level.Value.Scalar), d.Units)
		case entities.DoseRange:
			value = formatRange(&level.Value.Range, d.Units)
		default:
			continue
		}
		lines = append(lines, fmt.Sprintf("__**%s**__: %s", p.loc.t(doseLabels[level.Key]), value))
	}
	return strings.Join(lines, "\n")
}

func (p *Presenter) durationSection(d *entities.Duration) string {
	var lines []string
	for _, phase := range d.Phases() {
		if phase.Range == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("__**%s**__: %s", p.loc.t(phaseLabels[phase.Key]), formatRange(phase.Range, phase.Range.Units)))
	}
	return strings.Join(lines, "\n")
}

// DisplayName returns the emoji and capitalized label of a ROA, e.g. "💊 Oral"
func DisplayName(roaName string) string {
	emoji, ok := roaEmojis[strings.ToLower(roaName)]
	if !ok {
		emoji = unknownGlyph
	}
	return emoji + " " + capitalize(roaName)
}

// Controls returns one navigation control per ROA with the active one marked
func Controls(record entities.Substance, active int) []Control {
	controls := make([]Control, 0, len(record.Roas))
	for i, roa := range record.Roas {
		c := Control{
			ID:    strconv.Itoa(i),
			Label: DisplayName(roa.Name),
			Style: StylePrimary,
		}
		if roa.Name == "" {
			c.Label = unknownGlyph + " ROA " + strconv.Itoa(i+1)
		}
		if i == active {
			c.Emoji = activeGlyph
			c.Active = true
		}
		controls = append(controls, c)
	}
	return controls
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func withUnits(value, units string) string {
	return strings.TrimSpace(value + " " + units)
}

func formatRange(r *entities.Range, units string) string {
	if !r.Complete() {
		return noValue
	}
	return withUnits(formatNumber(*r.Min)+rangeSep+formatNumber(*r.Max), units)
}
