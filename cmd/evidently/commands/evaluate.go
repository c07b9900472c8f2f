package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/goevidently/internal/cli"
	"github.com/TimurManjosov/goevidently/internal/evclient"
)

var (
	evalProject string
	evalFeature string
	evalContext string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [entity-id]",
	Short: "Evaluate a feature for an entity",
	Long: `Evaluate a feature for one entity and print the reason, variation and value.

If no entity ID is given a random 32-character hex ID is generated.

Examples:
  evidently evaluate
  evidently evaluate user-123
  evidently evaluate user-123 --project food --feature sushi --format table`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, err := cli.ParseOutputFormat(format)
		if err != nil {
			return err
		}

		profile, name, err := cli.ResolveProfile(profileName, cli.Overrides{
			EndpointURL: endpointURL,
			Region:      region,
			Project:     evalProject,
			Feature:     evalFeature,
		})
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		entityID := evclient.NewEntityID()
		if len(args) > 0 {
			entityID = args[0]
		}

		logger := newLogger(cmd)
		logger.Debug().
			Str("profile", name).
			Str("endpoint_url", profile.EndpointURL).
			Str("region", profile.Region).
			Msg("resolved configuration")

		ctx := context.Background()
		client, err := newEvaluator(ctx, profile.ClientOptions())
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		inv := &cli.Invoker{
			Client: client,
			Out:    cmd.OutOrStdout(),
			Format: outFormat,
			Quiet:  quiet,
			Logger: logger,
		}
		inv.Invoke(ctx, evclient.Request{
			Project:           profile.Project,
			Feature:           profile.Feature,
			EntityID:          entityID,
			EvaluationContext: evalContext,
		})

		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evalProject, "project", "", "Project name (default \"food\")")
	evaluateCmd.Flags().StringVar(&evalFeature, "feature", "", "Feature name (default \"sushi\")")
	evaluateCmd.Flags().StringVar(&evalContext, "context", "", "Evaluation context as a JSON document")
}
