package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/TimurManjosov/goevidently/internal/evclient"
)

// Invoker runs one feature evaluation and prints the outcome.
type Invoker struct {
	Client evclient.FeatureEvaluator
	Out    io.Writer
	Format OutputFormat
	Quiet  bool
	Logger zerolog.Logger
}

// Invoke evaluates req. A failed call is reported as a single line on Out
// and is not returned; the result is nil in that case.
func (inv *Invoker) Invoke(ctx context.Context, req evclient.Request) *evclient.Result {
	inv.Logger.Debug().
		Str("project", req.Project).
		Str("feature", req.Feature).
		Str("entity_id", req.EntityID).
		Msg("evaluating feature")

	res, err := evclient.Evaluate(ctx, inv.Client, req)
	if err != nil {
		inv.Logger.Debug().Err(err).Msg("evaluation failed")
		fmt.Fprintln(inv.Out, err.Error())
		return nil
	}

	if inv.Quiet {
		return res
	}
	if err := PrintResult(inv.Out, res, inv.Format); err != nil {
		inv.Logger.Error().Err(err).Msg("failed to print result")
	}
	return res
}
