package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) runLaunch(cmd *cobra.Command) error {
	if err := a.setup(); err != nil {
		return err
	}

	ctx := cmd.Context()
	l, err := a.launcher(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	res, err := l.Launch(ctx, a.etl)
	if err != nil {
		return err
	}

	if !a.settings.DryRun {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Cluster %s launched\n", res.Handle.ClusterID)
		fmt.Fprintf(out, "✓ %s (%d steps)\n", res.Spec.Name, len(res.Spec.Steps))
	}
	return nil
}
