package launch

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/github4bhavin/snowplow-optimization/internal/model"
	"github.com/github4bhavin/snowplow-optimization/internal/provision"
)

// ClusterName is the console name of a recovery cluster
func ClusterName(id model.RunIdentity) string {
	return fmt.Sprintf("Snowplow ETL (recovery) [%s]->[%s]", id.BatchID, id.RunID)
}

// Assemble combines the static profile with the run-scoped name and steps.
// The spec shares no slices or maps with profile or steps.
func Assemble(profile *model.ClusterProfile, id model.RunIdentity, steps []model.Step) (*model.ClusterLaunchSpec, error) {
	if profile == nil {
		return nil, fmt.Errorf("cluster profile cannot be nil")
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("cannot launch a cluster without steps")
	}

	return &model.ClusterLaunchSpec{
		Name:              ClusterName(id),
		Region:            profile.Region,
		ReleaseLabel:      profile.ReleaseLabel,
		LogURI:            profile.LogURI,
		Instances:         copyInstances(profile.Instances),
		BootstrapActions:  copyBootstrapActions(profile.BootstrapActions),
		Applications:      copyStrings(profile.Applications),
		Tags:              append([]model.Tag(nil), profile.Tags...),
		ScaleDownBehavior: profile.ScaleDownBehavior,
		JobFlowRole:       profile.JobFlowRole,
		ServiceRole:       profile.ServiceRole,
		Configurations:    copyConfigurations(profile.Configurations),
		Identity:          id,
		Steps:             copySteps(steps),
	}, nil
}

// Submit hands the spec to the provisioner once. Failures come back as
// *provision.Error and are not retried.
func Submit(ctx context.Context, p provision.Provisioner, spec *model.ClusterLaunchSpec) (*model.ClusterHandle, error) {
	if p == nil {
		return nil, &provision.Error{Op: "submit", Err: fmt.Errorf("provisioner cannot be nil")}
	}

	log := logrus.WithFields(logrus.Fields{"batch": spec.Identity.BatchID, "run": spec.Identity.RunID})
	log.Infof("submitting %q with %d steps", spec.Name, len(spec.Steps))

	handle, err := p.Launch(ctx, spec)
	if err != nil {
		log.WithError(err).Error("cluster launch failed")
		var perr *provision.Error
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, &provision.Error{Op: "submit", Err: err}
	}

	log.WithField("cluster", handle.ClusterID).Info("cluster launched")
	return handle, nil
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func copyInstances(in model.Instances) model.Instances {
	out := in
	out.Groups = nil
	for _, g := range in.Groups {
		g.EbsVolumes = append([]model.EbsVolume(nil), g.EbsVolumes...)
		out.Groups = append(out.Groups, g)
	}
	return out
}

func copyBootstrapActions(in []model.BootstrapAction) []model.BootstrapAction {
	var out []model.BootstrapAction
	for _, b := range in {
		b.Args = copyStrings(b.Args)
		out = append(out, b)
	}
	return out
}

func copyConfigurations(in []model.Configuration) []model.Configuration {
	var out []model.Configuration
	for _, c := range in {
		props := make(map[string]string, len(c.Properties))
		for k, v := range c.Properties {
			props[k] = v
		}
		c.Properties = props
		out = append(out, c)
	}
	return out
}

func copySteps(in []model.Step) []model.Step {
	out := make([]model.Step, len(in))
	for i, s := range in {
		s.Args = copyStrings(s.Args)
		out[i] = s
	}
	return out
}
