// Package evclient builds CloudWatch Evidently clients and runs feature
// evaluations through them.
package evclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/evidently"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// DefaultRegion is used when neither Options nor the SDK default chain name a region.
const DefaultRegion = "ap-northeast-1"

const disableHostPrefixMiddlewareID = "DisableEndpointHostPrefix"

// Options configures NewClient.
type Options struct {
	// EndpointURL overrides the service endpoint. Empty means default discovery.
	EndpointURL string
	Region      string
	// Credentials is optional; nil uses the SDK default credential chain.
	Credentials aws.CredentialsProvider
}

// NewClient returns an Evidently client. When opts.EndpointURL is set, every
// request goes to that URL and the "dataplane." host prefix the SDK would
// otherwise prepend for EvaluateFeature is not injected.
func NewClient(ctx context.Context, opts Options) (*evidently.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.Credentials != nil {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(opts.Credentials))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	return evidently.NewFromConfig(cfg, ClientOptions(opts.EndpointURL)...), nil
}

// ClientOptions returns the per-client option funcs for an endpoint override.
// It returns nil for an empty URL so the SDK keeps its own endpoint resolution.
func ClientOptions(endpointURL string) []func(*evidently.Options) {
	if endpointURL == "" {
		return nil
	}
	return []func(*evidently.Options){
		func(o *evidently.Options) {
			o.BaseEndpoint = aws.String(endpointURL)
			o.APIOptions = append(o.APIOptions, addDisableHostPrefix)
		},
	}
}

func addDisableHostPrefix(stack *middleware.Stack) error {
	return stack.Initialize.Add(middleware.InitializeMiddlewareFunc(disableHostPrefixMiddlewareID,
		func(ctx context.Context, in middleware.InitializeInput, next middleware.InitializeHandler) (
			middleware.InitializeOutput, middleware.Metadata, error,
		) {
			return next.HandleInitialize(smithyhttp.DisableEndpointHostPrefix(ctx, true), in)
		}), middleware.Before)
}
