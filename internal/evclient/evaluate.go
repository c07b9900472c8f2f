package evclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/evidently"
	"github.com/aws/aws-sdk-go-v2/service/evidently/types"
	"github.com/google/uuid"
)

// FeatureEvaluator is the part of *evidently.Client this package needs.
type FeatureEvaluator interface {
	EvaluateFeature(ctx context.Context, params *evidently.EvaluateFeatureInput, optFns ...func(*evidently.Options)) (*evidently.EvaluateFeatureOutput, error)
}

var _ FeatureEvaluator = (*evidently.Client)(nil)

// Request identifies one feature evaluation.
type Request struct {
	Project           string
	Feature           string
	EntityID          string
	EvaluationContext string // optional JSON document
}

// Result holds the fields returned by EvaluateFeature. Fields the service
// did not return are left empty.
type Result struct {
	EntityID  string         `json:"entityId" yaml:"entityId"`
	Reason    string         `json:"reason" yaml:"reason"`
	Variation string         `json:"variation" yaml:"variation"`
	Value     map[string]any `json:"value,omitempty" yaml:"value,omitempty"`
	Details   string         `json:"details,omitempty" yaml:"details,omitempty"`
}

// Evaluate performs a single EvaluateFeature call.
func Evaluate(ctx context.Context, c FeatureEvaluator, req Request) (*Result, error) {
	in := &evidently.EvaluateFeatureInput{
		Project:  aws.String(req.Project),
		Feature:  aws.String(req.Feature),
		EntityId: aws.String(req.EntityID),
	}
	if req.EvaluationContext != "" {
		in.EvaluationContext = aws.String(req.EvaluationContext)
	}

	out, err := c.EvaluateFeature(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate feature %s/%s: %w", req.Project, req.Feature, err)
	}

	return &Result{
		EntityID:  req.EntityID,
		Reason:    aws.ToString(out.Reason),
		Variation: aws.ToString(out.Variation),
		Value:     ValueMap(out.Value),
		Details:   aws.ToString(out.Details),
	}, nil
}

// ValueMap converts the VariableValue union into its wire form,
// e.g. {"stringValue": "maguro"}. It returns nil for a missing value.
func ValueMap(v types.VariableValue) map[string]any {
	switch m := v.(type) {
	case *types.VariableValueMemberStringValue:
		return map[string]any{"stringValue": m.Value}
	case *types.VariableValueMemberBoolValue:
		return map[string]any{"boolValue": m.Value}
	case *types.VariableValueMemberLongValue:
		return map[string]any{"longValue": m.Value}
	case *types.VariableValueMemberDoubleValue:
		return map[string]any{"doubleValue": m.Value}
	case *types.UnknownUnionMember:
		return map[string]any{m.Tag: string(m.Value)}
	default:
		return nil
	}
}

// FormatValue renders a value map as compact JSON, or "" when it is empty.
func FormatValue(v map[string]any) string {
	if len(v) == 0 {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// NewEntityID returns a random 32-character lowercase hex identifier.
func NewEntityID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
