package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DoseKind tags which variant a DoseValue holds.
type DoseKind int

const (
	DoseAbsent DoseKind = iota
	DoseScalar
	DoseRange
)

// DoseValue is a single dose level. The API returns either a number or a {min, max} object
// depending on the level and the substance, so the variant is decided while decoding.
type DoseValue struct {
	Kind   DoseKind
	Scalar float64
	Range  Range
}

// Present reports whether the level carries any data.
func (v DoseValue) Present() bool {
	return v.Kind != DoseAbsent
}

func (v *DoseValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = DoseValue{}
		return nil
	}

	switch trimmed[0] {
	case '{':
		var r Range
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return fmt.Errorf("decoding dose range: %w", err)
		}
		*v = DoseValue{Kind: DoseRange, Range: r}
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return fmt.Errorf("decoding dose scalar: %w", err)
		}
		*v = DoseValue{Kind: DoseScalar, Scalar: f}
	}
	return nil
}

func (v DoseValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case DoseScalar:
		return json.Marshal(v.Scalar)
	case DoseRange:
		return json.Marshal(v.Range)
	default:
		return []byte("null"), nil
	}
}

// Dose holds the five dose levels sharing one unit.
type Dose struct {
	Units     string    `json:"units"`
	Threshold DoseValue `json:"threshold"`
	Light     DoseValue `json:"light"`
	Common    DoseValue `json:"common"`
	Strong    DoseValue `json:"strong"`
	Heavy     DoseValue `json:"heavy"`
}

// DoseLevel pairs a level key with its value.
type DoseLevel struct {
	Key   string
	Value DoseValue
}

// Levels returns the five levels from lowest to highest.
func (d *Dose) Levels() []DoseLevel {
	if d == nil {
		return nil
	}
	return []DoseLevel{
		{Key: "threshold", Value: d.Threshold},
		{Key: "light", Value: d.Light},
		{Key: "common", Value: d.Common},
		{Key: "strong", Value: d.Strong},
		{Key: "heavy", Value: d.Heavy},
	}
}
