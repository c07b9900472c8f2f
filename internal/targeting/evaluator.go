// Package targeting matches segment rules against an EvaluateFeature
// evaluation context. Rules are JSON Logic (jsonlogic.com) expressions and the
// context is the JSON object sent by the caller.
package targeting

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/diegoholiveira/jsonlogic/v3"
)

// Context holds the decoded evaluationContext of a request, e.g.
// {"plan": "premium", "country": "JP"}.
type Context map[string]any

// ErrInvalidExpression is returned when an expression is not valid JSON Logic.
var ErrInvalidExpression = errors.New("invalid expression: not valid JSON Logic")

// ErrEmptyExpression is returned when an expression is empty or whitespace.
var ErrEmptyExpression = errors.New("invalid expression: empty or whitespace")

// ErrInvalidContext is returned when an evaluation context is not a JSON object.
var ErrInvalidContext = errors.New("evaluationContext must be a JSON object")

// ParseContext decodes an evaluation context string. An empty string yields
// an empty context.
func ParseContext(raw string) (Context, error) {
	if strings.TrimSpace(raw) == "" {
		return Context{}, nil
	}
	var ctx Context
	if err := json.Unmarshal([]byte(raw), &ctx); err != nil || ctx == nil {
		return nil, ErrInvalidContext
	}
	return ctx, nil
}

// ErrNotARule is returned when an expression is valid JSON but not a JSON
// Logic rule object such as {"==": [{"var": "tier"}, "gold"]}.
var ErrNotARule = errors.New("invalid expression: rule must be a JSON object with a single operator")

// parseRule checks that expression is a JSON Logic rule: an object with
// exactly one operator key. Scalars are rejected because jsonlogic passes
// them through unchanged, so a rule like "yes" would match every entity.
func parseRule(expression string) error {
	if strings.TrimSpace(expression) == "" {
		return ErrEmptyExpression
	}

	var rule map[string]json.RawMessage
	if err := json.Unmarshal([]byte(expression), &rule); err != nil {
		var v any
		if json.Unmarshal([]byte(expression), &v) == nil {
			return ErrNotARule
		}
		return ErrInvalidExpression
	}
	if len(rule) != 1 {
		return ErrNotARule
	}
	return nil
}

// Evaluate applies a segment rule to an evaluation context and reports
// whether the result is truthy.
func Evaluate(expression string, ctx Context) (bool, error) {
	if err := parseRule(expression); err != nil {
		return false, err
	}

	// jsonlogic reads both the rule and the data as JSON streams
	dataBytes, err := json.Marshal(ctx)
	if err != nil {
		return false, err
	}

	var resultBuf bytes.Buffer
	if err := jsonlogic.Apply(strings.NewReader(expression), bytes.NewReader(dataBytes), &resultBuf); err != nil {
		return false, ErrInvalidExpression
	}

	var result any
	if err := json.Unmarshal(resultBuf.Bytes(), &result); err != nil {
		return false, err
	}

	return isTruthy(result), nil
}

// ValidateExpression checks that a segment rule is a JSON Logic rule object
// and that it can be applied to an empty context. Unknown operators fail
// here rather than on the first request.
func ValidateExpression(expression string) error {
	if err := parseRule(expression); err != nil {
		return err
	}

	var resultBuf bytes.Buffer
	if err := jsonlogic.Apply(strings.NewReader(expression), strings.NewReader("{}"), &resultBuf); err != nil {
		return ErrInvalidExpression
	}

	return nil
}

// isTruthy applies JSON Logic truthiness to a rule result. Numbers decode
// as float64, so 0 is the only falsy number; empty strings, arrays and
// objects are falsy too.
func isTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
