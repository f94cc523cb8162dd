package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/github4bhavin/snowplow-optimization/internal/render"
)

func registerPlanCommand(root *cobra.Command, a *app) {
	var (
		view       string
		outputFile string
	)

	planCmd := &cobra.Command{
		Use:   "plan --etl <batch-id>",
		Short: "Build and check the launch spec without starting a cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireETL(cmd); err != nil {
				return err
			}
			if err := a.setup(); err != nil {
				return err
			}

			ctx := cmd.Context()
			l, err := a.launcher(ctx, nil)
			if err != nil {
				return err
			}
			spec, err := l.Prepare(ctx, a.etl)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputFile != "" {
				if err := render.NewRenderer().WriteSpec(spec, outputFile); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Saved to: %s\n", outputFile)
			}

			viewer := render.NewSpecViewer(spec)
			switch view {
			case "cluster":
				fmt.Fprintln(out, viewer.ViewCluster())
			case "debug":
				fmt.Fprintln(out, render.NewRenderer().DebugDump(spec))
			case "steps", "":
				fmt.Fprintln(out, viewer.ViewSteps())
			default:
				return fmt.Errorf("unknown view %q (want steps, cluster or debug)", view)
			}
			return nil
		},
	}

	planCmd.Flags().StringVar(&a.etl, "etl", "", "Batch id of the failed run to recover (required)")
	planCmd.Flags().StringVarP(&view, "view", "v", "steps", "View (steps/cluster/debug)")
	planCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Also write the launch spec to this file (.json/.yaml)")

	root.AddCommand(planCmd)
}
