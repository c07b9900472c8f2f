package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TimurManjosov/goevidently/internal/evclient"
	"github.com/TimurManjosov/goevidently/internal/logging"
)

var (
	// Global flags
	endpointURL string
	region      string
	profileName string
	format      string
	quiet       bool
	verbose     bool
)

// newEvaluator builds the client used by evaluate; tests replace it.
var newEvaluator = func(ctx context.Context, opts evclient.Options) (evclient.FeatureEvaluator, error) {
	c, err := evclient.NewClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "evidently",
	Short: "CLI tool for evaluating CloudWatch Evidently features",
	Long: `Evidently evaluates CloudWatch Evidently features from the command line.

It talks to AWS by default, or to any Evidently-compatible endpoint
(for example evidently-local) via --endpoint-url or EVIDENTLY_ENDPOINT_URL.

Examples:
  evidently evaluate
  evidently evaluate user-123 --project food --feature sushi
  EVIDENTLY_ENDPOINT_URL=http://localhost:2306 evidently evaluate
  evidently evaluate --profile local --format json
  evidently config init`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&endpointURL, "endpoint-url", "", "Override the Evidently endpoint URL")
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "AWS region")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Profile from ~/.evidently/config.yaml")
	rootCmd.PersistentFlags().StringVar(&format, "format", "text", "Output format (text, table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.NewConsole(cmd.ErrOrStderr(), level)
}
