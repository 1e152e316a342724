package entities

// Substance is one record of the PsychonautWiki `substances` query.
type Substance struct {
	Name        string   `json:"name"`
	URL         string   `json:"url,omitempty"`
	CommonNames []string `json:"commonNames"`
	Effects     []Effect `json:"effects"`
	Roas        []Roa    `json:"roas"`
}

type Effect struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Roa is a route of administration with its own dose, duration and bioavailability data.
type Roa struct {
	Name            string    `json:"name"`
	Dose            *Dose     `json:"dose,omitempty"`
	Duration        *Duration `json:"duration,omitempty"`
	Bioavailability *Range    `json:"bioavailability,omitempty"`
}

// Range is a min/max pair. Bounds are pointers because the API returns null for unknown values.
type Range struct {
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Units string   `json:"units,omitempty"`
}

// Complete reports whether both bounds are known.
func (r *Range) Complete() bool {
	return r != nil && r.Min != nil && r.Max != nil
}

// Duration holds the six timeline phases of a route of administration.
type Duration struct {
	Onset     *Range `json:"onset,omitempty"`
	Comeup    *Range `json:"comeup,omitempty"`
	Peak      *Range `json:"peak,omitempty"`
	Offset    *Range `json:"offset,omitempty"`
	Afterglow *Range `json:"afterglow,omitempty"`
	Total     *Range `json:"total,omitempty"`
}

// DurationPhase pairs a phase key with its range.
type DurationPhase struct {
	Key   string
	Range *Range
}

// Phases returns the phases in timeline order. Absent phases have a nil Range.
func (d *Duration) Phases() []DurationPhase {
	if d == nil {
		return nil
	}
	return []DurationPhase{
		{Key: "onset", Range: d.Onset},
		{Key: "comeup", Range: d.Comeup},
		{Key: "peak", Range: d.Peak},
		{Key: "offset", Range: d.Offset},
		{Key: "afterglow", Range: d.Afterglow},
		{Key: "total", Range: d.Total},
	}
}
