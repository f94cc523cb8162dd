package launch

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/github4bhavin/snowplow-optimization/internal/identity"
	"github.com/github4bhavin/snowplow-optimization/internal/model"
	"github.com/github4bhavin/snowplow-optimization/internal/provision"
	"github.com/github4bhavin/snowplow-optimization/internal/schema"
)

// StepBuilder renders the recovery steps for a run
type StepBuilder interface {
	Build(ctx context.Context, id model.RunIdentity) ([]model.Step, error)
}

// Launcher runs one recovery launch end to end. Nothing reaches the
// provisioner unless every earlier stage succeeded.
type Launcher struct {
	Clock       identity.Clock
	Builder     StepBuilder
	Validator   *schema.Validator
	Provisioner provision.Provisioner
	Profile     *model.ClusterProfile
}

// Result is what a successful launch produced
type Result struct {
	Spec   *model.ClusterLaunchSpec
	Handle *model.ClusterHandle
}

// Launch derives the run identity for batchID, builds and checks the launch
// spec and submits it
func (l *Launcher) Launch(ctx context.Context, batchID string) (*Result, error) {
	spec, err := l.Prepare(ctx, batchID)
	if err != nil {
		return nil, err
	}

	handle, err := Submit(ctx, l.Provisioner, spec)
	if err != nil {
		return nil, err
	}
	return &Result{Spec: spec, Handle: handle}, nil
}

// Prepare does everything Launch does short of submitting
func (l *Launcher) Prepare(ctx context.Context, batchID string) (*model.ClusterLaunchSpec, error) {
	if l.Builder == nil {
		return nil, fmt.Errorf("step builder cannot be nil")
	}
	if err := identity.ValidateBatchID(batchID); err != nil {
		return nil, err
	}

	clock := l.Clock
	if clock == nil {
		clock = identity.SystemClock{}
	}
	id := identity.Derive(batchID, clock.Now())
	logrus.WithFields(logrus.Fields{"batch": id.BatchID, "run": id.RunID}).Infof("derived run identity (etl timestamp %d)", id.EpochMillis)

	steps, err := l.Builder.Build(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to build recovery steps: %w", err)
	}
	logrus.Infof("built %d recovery steps", len(steps))

	spec, err := Assemble(l.Profile, id, steps)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble launch spec: %w", err)
	}

	if l.Validator != nil {
		if err := l.Validator.ValidateLaunchSpec(spec); err != nil {
			return nil, fmt.Errorf("launch spec failed schema validation: %w", err)
		}
	}

	return spec, nil
}
