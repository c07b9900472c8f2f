package store

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/TimurManjosov/goevidently/internal/rollout"
	"github.com/TimurManjosov/goevidently/internal/targeting"
)

// ValueType is the Evidently feature value type.
type ValueType string

const (
	ValueTypeString  ValueType = "STRING"
	ValueTypeBoolean ValueType = "BOOLEAN"
	ValueTypeLong    ValueType = "LONG"
	ValueTypeDouble  ValueType = "DOUBLE"
)

// VariableKey returns the union member name used on the wire for t,
// e.g. "stringValue" for STRING. It returns "" for unknown types.
func (t ValueType) VariableKey() string {
	switch t {
	case ValueTypeString:
		return "stringValue"
	case ValueTypeBoolean:
		return "boolValue"
	case ValueTypeLong:
		return "longValue"
	case ValueTypeDouble:
		return "doubleValue"
	default:
		return ""
	}
}

// VariableValue is the tagged wire form of a value, e.g. {"stringValue": "maguro"}.
type VariableValue map[string]any

// Variation is a named value of a feature.
type Variation struct {
	Name  string        `json:"name"`
	Value VariableValue `json:"value"`
}

// LaunchGroup sends Weight percent of entities to Variation.
type LaunchGroup struct {
	Variation string `json:"variation"`
	Weight    int    `json:"weight"`
}

// Launch splits traffic between variations.
type Launch struct {
	Name   string        `json:"name"`
	Groups []LaunchGroup `json:"groups"`
}

// SegmentOverride sends entities whose evaluation context matches Rule
// (a JSON Logic expression) to Variation.
type SegmentOverride struct {
	Name      string          `json:"name"`
	Rule      json.RawMessage `json:"rule"`
	Variation string          `json:"variation"`
}

// Feature is a feature definition as served by the emulator.
type Feature struct {
	Name             string            `json:"name"`
	Project          string            `json:"project"`
	Status           string            `json:"status,omitempty"`
	ValueType        ValueType         `json:"valueType"`
	DefaultVariation string            `json:"defaultVariation"`
	Variations       []Variation       `json:"variations"`
	EntityOverrides  map[string]string `json:"entityOverrides,omitempty"`
	SegmentOverrides []SegmentOverride `json:"segmentOverrides,omitempty"`
	Launch           *Launch           `json:"launch,omitempty"`
}

// namePattern follows the Evidently resource name rules.
var namePattern = regexp.MustCompile(`^[-a-zA-Z0-9._]{1,127}$`)

// ValidName reports whether s can be used as a project or feature name.
// Names are also used as path segments by FileStore.
func ValidName(s string) bool {
	return namePattern.MatchString(s) && s != "." && s != ".."
}

// ValidationError represents a feature validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid feature [%s]: %s", e.Field, e.Message)
}

// FindVariation returns the variation named name.
func (f *Feature) FindVariation(name string) (*Variation, bool) {
	for i := range f.Variations {
		if f.Variations[i].Name == name {
			return &f.Variations[i], true
		}
	}
	return nil, false
}

// Value returns the value of the named variation restricted to the
// feature's value type, or nil if the variation does not exist.
func (f *Feature) Value(variation string) VariableValue {
	v, ok := f.FindVariation(variation)
	if !ok {
		return nil
	}
	key := f.ValueType.VariableKey()
	return VariableValue{key: v.Value[key]}
}

// LaunchGroups converts the launch groups for the rollout package.
func (f *Feature) LaunchGroups() []rollout.Group {
	if f.Launch == nil {
		return nil
	}
	groups := make([]rollout.Group, len(f.Launch.Groups))
	for i, g := range f.Launch.Groups {
		groups[i] = rollout.Group{Variation: g.Variation, Weight: g.Weight}
	}
	return groups
}

// Validate checks that the feature is internally consistent.
// It returns the first ValidationError found.
func (f *Feature) Validate() error {
	if !ValidName(f.Project) {
		return ValidationError{Field: "project", Message: fmt.Sprintf("invalid project name '%s'", f.Project)}
	}
	if !ValidName(f.Name) {
		return ValidationError{Field: "name", Message: fmt.Sprintf("invalid feature name '%s'", f.Name)}
	}

	key := f.ValueType.VariableKey()
	if key == "" {
		return ValidationError{Field: "valueType", Message: fmt.Sprintf("unsupported value type '%s'", f.ValueType)}
	}

	if len(f.Variations) == 0 {
		return ValidationError{Field: "variations", Message: "at least one variation is required"}
	}
	seen := make(map[string]bool, len(f.Variations))
	for _, v := range f.Variations {
		if v.Name == "" {
			return ValidationError{Field: "variations", Message: "variation name cannot be empty"}
		}
		if seen[v.Name] {
			return ValidationError{Field: "variations", Message: "duplicate variation name: " + v.Name}
		}
		seen[v.Name] = true
		if err := checkValueType(f.ValueType, v.Value[key]); err != nil {
			return ValidationError{Field: "variations." + v.Name, Message: err.Error()}
		}
	}

	if !seen[f.DefaultVariation] {
		return ValidationError{Field: "defaultVariation", Message: fmt.Sprintf("variation '%s' does not exist", f.DefaultVariation)}
	}

	for entity, variation := range f.EntityOverrides {
		if !seen[variation] {
			return ValidationError{Field: "entityOverrides." + entity, Message: fmt.Sprintf("variation '%s' does not exist", variation)}
		}
	}

	for i, so := range f.SegmentOverrides {
		field := fmt.Sprintf("segmentOverrides[%d]", i)
		if so.Name == "" {
			return ValidationError{Field: field, Message: "segment name cannot be empty"}
		}
		if !seen[so.Variation] {
			return ValidationError{Field: field, Message: fmt.Sprintf("variation '%s' does not exist", so.Variation)}
		}
		if err := targeting.ValidateExpression(string(so.Rule)); err != nil {
			return ValidationError{Field: field, Message: err.Error()}
		}
	}

	if f.Launch != nil {
		for _, g := range f.Launch.Groups {
			if !seen[g.Variation] {
				return ValidationError{Field: "launch.groups", Message: fmt.Sprintf("variation '%s' does not exist", g.Variation)}
			}
		}
		if err := rollout.ValidateGroups(f.LaunchGroups()); err != nil {
			return ValidationError{Field: "launch.groups", Message: err.Error()}
		}
	}

	return nil
}

// checkValueType accepts JSON-decoded values, so numbers arrive as float64.
func checkValueType(t ValueType, v any) error {
	if v == nil {
		return fmt.Errorf("missing %s", t.VariableKey())
	}
	switch t {
	case ValueTypeString:
		if _, ok := v.(string); ok {
			return nil
		}
	case ValueTypeBoolean:
		if _, ok := v.(bool); ok {
			return nil
		}
	case ValueTypeLong:
		switch n := v.(type) {
		case int, int32, int64:
			return nil
		case float64:
			if n == float64(int64(n)) {
				return nil
			}
		}
	case ValueTypeDouble:
		switch v.(type) {
		case float64, float32, int, int64:
			return nil
		}
	}
	return fmt.Errorf("value %v is not a %s", v, t)
}
