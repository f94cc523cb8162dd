package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/github4bhavin/snowplow-optimization/internal/pipeline"
	"github.com/github4bhavin/snowplow-optimization/internal/schema"
)

func registerValidateCommand(root *cobra.Command, a *app) {
	root.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate settings and the cluster profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "□ Reading settings...")
			if err := a.setup(); err != nil {
				return err
			}

			fmt.Fprintln(out, "□ Validating cluster profile...")
			v, err := schema.NewValidator()
			if err != nil {
				return err
			}
			profile, err := a.loadProfile(v)
			if err != nil {
				return err
			}
			if err := pipeline.ValidateLayout(profile.Pipeline); err != nil {
				return err
			}

			source := "built-in profile"
			if a.settings.ProfilePath != "" {
				source = a.settings.ProfilePath
			}
			fmt.Fprintf(out, "✓ Profile %s is valid (%s)\n", profile.Metadata.Name, source)
			fmt.Fprintf(out, "✓ %d recovery steps per launch\n", pipeline.StageCount())
			return nil
		},
	})
}
