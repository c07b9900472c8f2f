package store

import (
	"errors"
	"testing"
)

func sushi() Feature {
	return Feature{
		Name:             "sushi",
		Project:          "food",
		ValueType:        ValueTypeString,
		DefaultVariation: "v1",
		Variations: []Variation{
			{Name: "v1", Value: VariableValue{"stringValue": "maguro"}},
			{Name: "v2", Value: VariableValue{"stringValue": "salmon"}},
		},
	}
}

func TestValueType_VariableKey(t *testing.T) {
	tests := map[ValueType]string{
		ValueTypeString:  "stringValue",
		ValueTypeBoolean: "boolValue",
		ValueTypeLong:    "longValue",
		ValueTypeDouble:  "doubleValue",
		"BLOB":           "",
	}
	for vt, want := range tests {
		if got := vt.VariableKey(); got != want {
			t.Errorf("%s.VariableKey() = '%s', want '%s'", vt, got, want)
		}
	}
}

func TestValidName(t *testing.T) {
	valid := []string{"food", "sushi", "test-feature-1", "a.b_c"}
	invalid := []string{"", ".", "..", "a/b", "with space"}

	for _, s := range valid {
		if !ValidName(s) {
			t.Errorf("Expected '%s' to be valid", s)
		}
	}
	for _, s := range invalid {
		if ValidName(s) {
			t.Errorf("Expected '%s' to be invalid", s)
		}
	}
}

func TestFeature_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Feature)
		field  string
	}{
		{"valid", func(f *Feature) {}, ""},
		{"bad project", func(f *Feature) { f.Project = "../etc" }, "project"},
		{"bad name", func(f *Feature) { f.Name = "" }, "name"},
		{"bad value type", func(f *Feature) { f.ValueType = "BLOB" }, "valueType"},
		{"no variations", func(f *Feature) { f.Variations = nil }, "variations"},
		{"duplicate variation", func(f *Feature) { f.Variations[1].Name = "v1" }, "variations"},
		{"wrong value type", func(f *Feature) { f.Variations[0].Value = VariableValue{"stringValue": true} }, "variations.v1"},
		{"missing default", func(f *Feature) { f.DefaultVariation = "v9" }, "defaultVariation"},
		{"override to unknown", func(f *Feature) { f.EntityOverrides = map[string]string{"user-1": "v9"} }, "entityOverrides.user-1"},
		{"segment ok", func(f *Feature) {
			f.SegmentOverrides = []SegmentOverride{{Name: "gold", Rule: []byte(`{"==":[{"var":"tier"},"gold"]}`), Variation: "v2"}}
		}, ""},
		{"segment to unknown", func(f *Feature) {
			f.SegmentOverrides = []SegmentOverride{{Name: "gold", Rule: []byte(`{"==":[{"var":"tier"},"gold"]}`), Variation: "v9"}}
		}, "segmentOverrides[0]"},
		{"segment bad rule", func(f *Feature) {
			f.SegmentOverrides = []SegmentOverride{{Name: "gold", Rule: []byte(`{oops`), Variation: "v2"}}
		}, "segmentOverrides[0]"},
		{"segment scalar rule", func(f *Feature) {
			f.SegmentOverrides = []SegmentOverride{{Name: "everyone", Rule: []byte(`"yes"`), Variation: "v2"}}
		}, "segmentOverrides[0]"},
		{"segment empty rule object", func(f *Feature) {
			f.SegmentOverrides = []SegmentOverride{{Name: "everyone", Rule: []byte(`{}`), Variation: "v2"}}
		}, "segmentOverrides[0]"},
		{"segment without name", func(f *Feature) {
			f.SegmentOverrides = []SegmentOverride{{Rule: []byte(`true`), Variation: "v2"}}
		}, "segmentOverrides[0]"},
		{"launch to unknown", func(f *Feature) {
			f.Launch = &Launch{Name: "l", Groups: []LaunchGroup{{Variation: "v9", Weight: 10}}}
		}, "launch.groups"},
		{"launch over 100", func(f *Feature) {
			f.Launch = &Launch{Name: "l", Groups: []LaunchGroup{{Variation: "v1", Weight: 60}, {Variation: "v2", Weight: 60}}}
		}, "launch.groups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sushi()
			tt.mutate(&f)
			err := f.Validate()

			if tt.field == "" {
				if err != nil {
					t.Fatalf("Expected valid feature, got %v", err)
				}
				return
			}
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Expected field '%s', got '%s'", tt.field, ve.Field)
			}
		})
	}
}

func TestFeature_ValidateNumericTypes(t *testing.T) {
	f := Feature{
		Name: "count", Project: "food", ValueType: ValueTypeLong, DefaultVariation: "one",
		Variations: []Variation{{Name: "one", Value: VariableValue{"longValue": float64(1)}}},
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Expected JSON integer to be a valid LONG, got %v", err)
	}

	f.Variations[0].Value = VariableValue{"longValue": 1.5}
	if err := f.Validate(); err == nil {
		t.Error("Expected 1.5 to be rejected as LONG")
	}

	f.ValueType = ValueTypeDouble
	f.Variations[0].Value = VariableValue{"doubleValue": 1.5}
	if err := f.Validate(); err != nil {
		t.Errorf("Expected 1.5 to be a valid DOUBLE, got %v", err)
	}
}

func TestFeature_Value(t *testing.T) {
	f := sushi()
	f.Variations[0].Value["boolValue"] = true

	v := f.Value("v1")
	if len(v) != 1 || v["stringValue"] != "maguro" {
		t.Errorf("Expected only stringValue 'maguro', got %v", v)
	}
	if f.Value("missing") != nil {
		t.Error("Expected nil value for unknown variation")
	}
}
