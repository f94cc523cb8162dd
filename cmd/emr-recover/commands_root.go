package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/github4bhavin/snowplow-optimization/internal/configstore"
	"github.com/github4bhavin/snowplow-optimization/internal/identity"
	"github.com/github4bhavin/snowplow-optimization/internal/launch"
	"github.com/github4bhavin/snowplow-optimization/internal/loader"
	"github.com/github4bhavin/snowplow-optimization/internal/model"
	"github.com/github4bhavin/snowplow-optimization/internal/pipeline"
	"github.com/github4bhavin/snowplow-optimization/internal/provision"
	"github.com/github4bhavin/snowplow-optimization/internal/render"
	"github.com/github4bhavin/snowplow-optimization/internal/schema"
	"github.com/github4bhavin/snowplow-optimization/internal/settings"
)

var errMissingETL = errors.New("--etl is required")

// app holds the flag values and the collaborators commands are wired with
type app struct {
	etl string

	settings settings.Settings
	clock    identity.Clock
	ids      pipeline.IDGenerator

	openStore      func(s settings.Settings) (configstore.Store, error)
	newProvisioner func(ctx context.Context, s settings.Settings, region string, out io.Writer) (provision.Provisioner, error)
}

func defaultApp() *app {
	return &app{
		clock:          identity.SystemClock{},
		ids:            pipeline.UUIDGenerator{},
		openStore:      settings.Settings.Store,
		newProvisioner: newProvisioner,
	}
}

func newProvisioner(ctx context.Context, s settings.Settings, region string, out io.Writer) (provision.Provisioner, error) {
	if s.DryRun {
		format, err := render.ParseFormat(s.Output)
		if err != nil {
			return nil, err
		}
		return provision.NewDryRun(out, format), nil
	}
	return provision.NewEMR(ctx, region)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "emr-recover --etl <batch-id>",
		Short: "Launch an EMR cluster that replays a failed Snowplow batch",
		Long: "emr-recover builds the recovery pipeline for one quarantined batch and launches a transient EMR cluster to run it.\n" +
			"Settings are read from EMR_RECOVER_* environment variables (and a .env file if present).",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireETL(cmd); err != nil {
				return err
			}
			return a.runLaunch(cmd)
		},
	}

	root.Flags().StringVar(&a.etl, "etl", "", "Batch id of the failed run to recover (required)")

	registerPlanCommand(root, a)
	registerValidateCommand(root, a)
	registerProfileCommand(root)

	return root
}

// requireETL reports a missing --etl on stdout together with usage
func (a *app) requireETL(cmd *cobra.Command) error {
	if a.etl != "" {
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), errMissingETL.Error())
	_ = cmd.Usage()
	return errMissingETL
}

// setup reads settings from the environment and applies the log level
func (a *app) setup() error {
	s, err := settings.FromEnv()
	if err != nil {
		return err
	}
	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", s.LogLevel)
	}
	logrus.SetLevel(level)

	a.settings = s
	return nil
}

// loadProfile returns the configured profile, or the built-in one
func (a *app) loadProfile(v *schema.Validator) (*model.ClusterProfile, error) {
	var (
		profile *model.ClusterProfile
		err     error
	)
	if a.settings.ProfilePath != "" {
		profile, err = loader.LoadProfile(a.settings.ProfilePath, v)
	} else {
		profile, err = loader.DefaultProfile(v)
	}
	if err != nil {
		return nil, err
	}

	if a.settings.Region != "" {
		profile.Region = a.settings.Region
	}
	return profile, nil
}

// launcher wires settings, profile, store and provisioner into a Launcher
func (a *app) launcher(ctx context.Context, out io.Writer) (*launch.Launcher, error) {
	v, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}

	profile, err := a.loadProfile(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load cluster profile: %w", err)
	}

	store, err := a.openStore(a.settings)
	if err != nil {
		return nil, err
	}

	builder, err := pipeline.NewBuilder(profile.Pipeline, store, a.ids)
	if err != nil {
		return nil, err
	}

	l := &launch.Launcher{
		Clock:     a.clock,
		Builder:   builder,
		Validator: v,
		Profile:   profile,
	}

	if out != nil {
		p, err := a.newProvisioner(ctx, a.settings, profile.Region, out)
		if err != nil {
			return nil, fmt.Errorf("failed to set up provisioning: %w", err)
		}
		l.Provisioner = p
	}

	return l, nil
}
