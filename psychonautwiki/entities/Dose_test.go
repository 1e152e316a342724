package entities

import (
	"encoding/json"
	"testing"
)

func TestDoseValueDecoding(t *testing.T) {
	raw := `{
		"units": "mg",
		"threshold": 5,
		"light": {"min": 10, "max": 20},
		"common": {"min": 20, "max": null},
		"strong": null
	}`

	var d Dose
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if d.Threshold.Kind != DoseScalar || d.Threshold.Scalar != 5 {
		t.Errorf("Expected scalar threshold 5, got %+v", d.Threshold)
	}
	if d.Light.Kind != DoseRange || !d.Light.Range.Complete() {
		t.Errorf("Expected complete light range, got %+v", d.Light)
	}
	if d.Common.Kind != DoseRange || d.Common.Range.Complete() {
		t.Errorf("Expected incomplete common range, got %+v", d.Common)
	}
	if d.Strong.Present() {
		t.Errorf("Expected null strong to be absent, got %+v", d.Strong)
	}
	if d.Heavy.Present() {
		t.Errorf("Expected missing heavy to be absent, got %+v", d.Heavy)
	}
}

func TestDoseValueRejectsGarbage(t *testing.T) {
	var v DoseValue
	if err := json.Unmarshal([]byte(`"lots"`), &v); err == nil {
		t.Error("Expected error decoding a string dose")
	}
}

func TestNilProfilesHaveNoEntries(t *testing.T) {
	var d *Dose
	var du *Duration
	if d.Levels() != nil || du.Phases() != nil {
		t.Error("Expected nil profiles to yield no entries")
	}
}
