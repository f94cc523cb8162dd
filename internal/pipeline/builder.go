package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/github4bhavin/snowplow-optimization/internal/configstore"
	"github.com/github4bhavin/snowplow-optimization/internal/model"
)

// IDGenerator hands out identifiers that must not repeat across runs
type IDGenerator interface {
	NewID() (string, error)
}

// UUIDGenerator draws a random (v4) UUID per call
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// Builder turns a run identity into the recovery steps
type Builder struct {
	layout model.Layout
	store  configstore.Store
	ids    IDGenerator
}

// NewBuilder checks the layout and returns a builder reading payloads from store
func NewBuilder(layout model.Layout, store configstore.Store, ids IDGenerator) (*Builder, error) {
	if store == nil {
		return nil, fmt.Errorf("configuration store cannot be nil")
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if err := ValidateLayout(layout); err != nil {
		return nil, err
	}
	return &Builder{layout: layout, store: store, ids: ids}, nil
}

// ValidateLayout checks the buckets, roots and artifact names of a layout
func ValidateLayout(layout model.Layout) error {
	if err := validate.Struct(layout); err != nil {
		return fmt.Errorf("invalid pipeline layout: %w", argError(err))
	}
	return nil
}

// Build reads every payload the run needs, then renders all stages. It
// returns either the full list or an error, never a partial pipeline.
func (b *Builder) Build(ctx context.Context, id model.RunIdentity) ([]model.Step, error) {
	p, err := b.readPayloads(ctx, id.BatchID)
	if err != nil {
		return nil, err
	}

	logID, err := b.ids.NewID()
	if err != nil {
		return nil, err
	}

	r := &run{id: id, layout: b.layout, payloads: p, logID: logID}

	steps := make([]model.Step, 0, len(stages))
	for i, s := range stages {
		name := fmt.Sprintf("(%d/%d) %s", i+1, StageSlots, s.title(b.layout))

		args, err := render(s.args(r))
		if err != nil {
			return nil, fmt.Errorf("invalid arguments for step %s: %w", name, argError(err))
		}

		steps = append(steps, model.Step{
			Name:            name,
			ActionOnFailure: s.onFailure,
			Executable:      executable(s.runs, b.layout.Artifacts),
			Args:            args,
		})
		logrus.Debugf("built step %s (%s, %d args)", name, s.onFailure, len(args))
	}

	return steps, nil
}

func (b *Builder) readPayloads(ctx context.Context, batchID string) (payloads, error) {
	names := b.layout.Configs

	var p payloads
	reads := []struct {
		name string
		dst  *string
	}{
		{names.Resolver, &p.resolver},
		{names.Enrichments, &p.enrichments},
		{fmt.Sprintf(names.RunConfig, batchID), &p.runConfig},
		{names.Target, &p.target},
	}

	for _, rd := range reads {
		encoded, err := configstore.ReadEncoded(ctx, b.store, rd.name)
		if err != nil {
			return payloads{}, fmt.Errorf("failed to load config payload %s: %w", rd.name, err)
		}
		*rd.dst = encoded
	}
	return p, nil
}
