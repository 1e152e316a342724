package presenter

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. Arguments are always pre-formatted strings so the printer never applies locale digit grouping.
const (
	keyUnknownName     = "unknown_name"
	keyAlsoKnownAs     = "field_also_known_as"
	keyEffects         = "field_effects"
	keyAllEffects      = "all_effects_link"
	keyDose            = "field_dose"
	keyDuration        = "field_duration"
	keyBioavailability = "field_bioavailability"
	keyROAFooter       = "roa_footer"

	keyDoseThreshold = "dose_threshold"
	keyDoseLight     = "dose_light"
	keyDoseCommon    = "dose_common"
	keyDoseStrong    = "dose_strong"
	keyDoseHeavy     = "dose_heavy"

	keyPhaseOnset     = "phase_onset"
	keyPhaseComeup    = "phase_comeup"
	keyPhasePeak      = "phase_peak"
	keyPhaseOffset    = "phase_offset"
	keyPhaseAfterglow = "phase_afterglow"
	keyPhaseTotal     = "phase_total"

	keyNotFoundTitle = "not_found_title"
	keyDidYouMean    = "did_you_mean"
	keyNoSuggestions = "no_suggestions"
	keyAliasHint     = "alias_hint"

	keyFailureStatus    = "failure_status"
	keyFailureMalformed = "failure_malformed"
	keyFailureTransport = "failure_transport"
	keyFailureAPI       = "failure_api"

	keyAliasConfirmTitle = "alias_confirm_title"
	keyAliasConfirmBody  = "alias_confirm_body"
	keyAliasConfirmBtn   = "alias_confirm_button"
	keyAliasCancelBtn    = "alias_cancel_button"
	keyAliasSaved        = "alias_saved"
	keyAliasSaveFailed   = "alias_save_failed"
	keyAliasCancelled    = "alias_cancelled"
	keyAliasExpired      = "alias_expired"
	keyAliasListTitle    = "alias_list_title"
	keyAliasListCont     = "alias_list_continued"
	keyAliasListEmpty    = "alias_list_empty"
	keyPageFooter        = "page_footer"
	keyForbidden         = "forbidden"
	keyViewExpired       = "view_expired"
	keyInvalidQuery      = "invalid_query"
)

var supported = []language.Tag{language.English, language.Spanish}

var translations = map[language.Tag]map[string]string{
	language.English: {
		keyUnknownName:     "Unknown",
		keyAlsoKnownAs:     "🔹 Also known as",
		keyEffects:         "🎯 Effects",
		keyAllEffects:      "See all effects",
		keyDose:            "💊 **Dose**",
		keyDuration:        "⏳ **Duration**",
		keyBioavailability: "📈 Bioavailability",
		keyROAFooter:       "ROA %s of %s",

		keyDoseThreshold: "Threshold",
		keyDoseLight:     "Light",
		keyDoseCommon:    "Common",
		keyDoseStrong:    "Strong",
		keyDoseHeavy:     "Heavy",

		keyPhaseOnset:     "Onset",
		keyPhaseComeup:    "Come up",
		keyPhasePeak:      "Peak",
		keyPhaseOffset:    "Offset",
		keyPhaseAfterglow: "Afterglow",
		keyPhaseTotal:     "Total",

		keyNotFoundTitle: "❌ Substance not found",
		keyDidYouMean:    "🔎 Did you mean: %s?",
		keyNoSuggestions: "No suggestions found.",
		keyAliasHint:     "If you think this is a mistake or an alias is missing, an administrator can add it with the alias command.",

		keyFailureStatus:    "❌ API query error (code %s).",
		keyFailureMalformed: "❌ Error processing the API response (invalid JSON).",
		keyFailureTransport: "❌ Connection error with the API.",
		keyFailureAPI:       "❌ The PsychonautWiki API is having problems. Try again later.",

		keyAliasConfirmTitle: "Alias confirmation",
		keyAliasConfirmBody:  "Are you sure you want the alias `%s` (normalized: `%s`) to point to `%s`?",
		keyAliasConfirmBtn:   "Confirm",
		keyAliasCancelBtn:    "Cancel",
		keyAliasSaved:        "✅ Alias '%s' now points to '%s'.",
		keyAliasSaveFailed:   "❌ Error saving the alias to the file.",
		keyAliasCancelled:    "❌ Operation cancelled.",
		keyAliasExpired:      "❌ This confirmation has expired.",
		keyAliasListTitle:    "📚 Alias list",
		keyAliasListCont:     "📚 Alias list (continued)",
		keyAliasListEmpty:    "No aliases configured.",
		keyPageFooter:        "Page %s of %s",
		keyForbidden:         "❌ You do not have permission to use this command.",
		keyViewExpired:       "❌ This view has expired. Run the search again.",
		keyInvalidQuery:      "❌ Invalid substance name.",
	},
	language.Spanish: {
		keyUnknownName:     "Desconocido",
		keyAlsoKnownAs:     "🔹 También llamado",
		keyEffects:         "🎯 Efectos",
		keyAllEffects:      "Ver todos los efectos",
		keyDose:            "💊 **Dosis**",
		keyDuration:        "⏳ **Duración**",
		keyBioavailability: "📈 Biodisponibilidad",
		keyROAFooter:       "ROA %s de %s",

		keyDoseThreshold: "Umbral",
		keyDoseLight:     "Baja",
		keyDoseCommon:    "Normal",
		keyDoseStrong:    "Alta",
		keyDoseHeavy:     "Muy alta",

		keyPhaseOnset:     "Inicio",
		keyPhaseComeup:    "Subida",
		keyPhasePeak:      "Pico",
		keyPhaseOffset:    "Bajada",
		keyPhaseAfterglow: "Afterglow",
		keyPhaseTotal:     "Total",

		keyNotFoundTitle: "❌ Sustancia no encontrada",
		keyDidYouMean:    "🔎 ¿Quisiste decir: %s?",
		keyNoSuggestions: "No se encontraron sugerencias.",
		keyAliasHint:     "Si crees que esto es un error o que falta un alias, un administrador puede añadirlo con el comando de alias.",

		keyFailureStatus:    "❌ Error al consultar la API (código %s).",
		keyFailureMalformed: "❌ Error al procesar la respuesta de la API (JSON inválido).",
		keyFailureTransport: "❌ Error de conexión con la API.",
		keyFailureAPI:       "❌ La API de PsychonautWiki está experimentando problemas. Inténtalo de nuevo más tarde.",

		keyAliasConfirmTitle: "Confirmación de Alias",
		keyAliasConfirmBody:  "¿Estás seguro de que quieres que el alias `%s` (normalizado: `%s`) apunte a `%s`?",
		keyAliasConfirmBtn:   "Confirmar",
		keyAliasCancelBtn:    "Cancelar",
		keyAliasSaved:        "✅ Alias '%s' ahora apunta a '%s'.",
		keyAliasSaveFailed:   "❌ Error al guardar el alias en el fichero.",
		keyAliasCancelled:    "❌ Operación cancelada.",
		keyAliasExpired:      "❌ Esta confirmación ha caducado.",
		keyAliasListTitle:    "📚 Lista de Alias",
		keyAliasListCont:     "📚 Lista de Alias (continuación)",
		keyAliasListEmpty:    "No hay alias configurados actualmente.",
		keyPageFooter:        "Página %s de %s",
		keyForbidden:         "❌ No tienes permiso para usar este comando.",
		keyViewExpired:       "❌ Esta vista ha caducado. Vuelve a buscar la sustancia.",
		keyInvalidQuery:      "❌ Nombre de sustancia no válido.",
	},
}

var messages = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("presenter: invalid catalog entry " + key + ": " + err.Error())
			}
		}
	}
	return b
}

var matcher = language.NewMatcher(supported)

// localizer renders catalog keys for one matched language
type localizer struct {
	tag     language.Tag
	printer *message.Printer
}

func newLocalizer(locale string) localizer {
	matched, _ := language.MatchStrings(matcher, locale)
	base, _ := matched.Base()
	tag := language.English
	for _, s := range supported {
		if sb, _ := s.Base(); sb == base {
			tag = s
			break
		}
	}
	return localizer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(messages))}
}

func (l localizer) t(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}
