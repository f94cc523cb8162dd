package main

import (
	"github.com/spf13/cobra"

	"github.com/github4bhavin/snowplow-optimization/internal/loader"
)

func registerProfileCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "profile",
		Short: "Print the built-in cluster profile as a starting point for EMR_RECOVER_PROFILE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(loader.DefaultProfileYAML())
			return err
		},
	})
}
