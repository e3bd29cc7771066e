package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

type healthReport struct {
	Healthz string `json:"healthz"`
	Readyz  string `json:"readyz"`
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "health",
		Short:   "Check API and store health",
		Example: `  ntt health`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			ctx := context.Background()

			live, err := c.Healthz(ctx)
			if err != nil {
				return err
			}

			// An unready store answers 503; keep the liveness line and report
			// the readiness failure through the exit code.
			ready, readyErr := c.Readyz(ctx)
			if readyErr != nil {
				ready = "unavailable"
			}

			if jsonOutput() {
				if err := outputJSON(healthReport{Healthz: live, Readyz: ready}); err != nil {
					return err
				}
			} else {
				tw := newTabWriter(os.Stdout)
				tw.writef("healthz:\t%s\n", live)
				tw.writef("readyz:\t%s\n", ready)
				if err := tw.finish(); err != nil {
					return err
				}
			}

			return readyErr
		},
	}
}
