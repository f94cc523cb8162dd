package launch

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/github4bhavin/snowplow-optimization/internal/configstore"
	"github.com/github4bhavin/snowplow-optimization/internal/identity"
	"github.com/github4bhavin/snowplow-optimization/internal/loader"
	"github.com/github4bhavin/snowplow-optimization/internal/model"
	"github.com/github4bhavin/snowplow-optimization/internal/pipeline"
	"github.com/github4bhavin/snowplow-optimization/internal/provision"
	"github.com/github4bhavin/snowplow-optimization/internal/schema"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

type fakeProvisioner struct {
	specs []*model.ClusterLaunchSpec
	err   error
}

func (f *fakeProvisioner) Launch(ctx context.Context, spec *model.ClusterLaunchSpec) (*model.ClusterHandle, error) {
	f.specs = append(f.specs, spec)
	if f.err != nil {
		return nil, f.err
	}
	return &model.ClusterHandle{ClusterID: "j-TEST"}, nil
}

type failingBuilder struct{ err error }

func (b failingBuilder) Build(context.Context, model.RunIdentity) ([]model.Step, error) {
	return nil, b.err
}

var testNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func testStore() configstore.MapStore {
	return configstore.MapStore{
		"iglu-config.json":           []byte(`{"schema":"iglu:resolver"}`),
		"enrichments-config.json":    []byte(`{"data":[]}`),
		"run-configs/2024-01-01.yml": []byte("aws: {}\n"),
		"targets/atomic.json":        []byte(`{"name":"atomic"}`),
	}
}

func newLauncher(t *testing.T, store configstore.Store, p provision.Provisioner) *Launcher {
	t.Helper()
	v, err := schema.NewValidator()
	require.NoError(t, err)
	profile, err := loader.DefaultProfile(v)
	require.NoError(t, err)
	b, err := pipeline.NewBuilder(profile.Pipeline, store, nil)
	require.NoError(t, err)

	return &Launcher{
		Clock:       identity.FixedClock(testNow),
		Builder:     b,
		Validator:   v,
		Provisioner: p,
		Profile:     profile,
	}
}

func testSteps() []model.Step {
	return []model.Step{{
		Name:            "(1/20) Setup Hadoop Debugging",
		ActionOnFailure: model.ActionTerminateCluster,
		Executable:      model.Executable{Kind: model.ScriptRunner, Jar: "script-runner.jar"},
		Args:            []string{"s3://state-pusher/fetch"},
	}}
}

func testProfile() *model.ClusterProfile {
	return &model.ClusterProfile{
		Region:       "eu-west-1",
		ReleaseLabel: "emr-5.5.0",
		Instances: model.Instances{Groups: []model.InstanceGroup{
			{Name: "CORE", Role: "CORE", InstanceCount: 3, EbsVolumes: []model.EbsVolume{{VolumesPerInstance: 12}}},
		}},
		BootstrapActions: []model.BootstrapAction{{Name: "bootstrap", Path: "s3://b/boot.sh", Args: []string{"a"}}},
		Applications:     []string{"Hadoop"},
		Configurations:   []model.Configuration{{Classification: "spark", Properties: map[string]string{"k": "v"}}},
	}
}

func TestAssemble(t *testing.T) {
	id := identity.Derive("2024-01-01", testNow)
	spec, err := Assemble(testProfile(), id, testSteps())
	require.NoError(t, err)

	assert.Equal(t, "Snowplow ETL (recovery) [2024-01-01]->[2024-01-02-03-04-05]", spec.Name)
	assert.Equal(t, id, spec.Identity)
	assert.Equal(t, "emr-5.5.0", spec.ReleaseLabel)
	assert.Equal(t, testSteps(), spec.Steps)
}

func TestAssemble_CopiesProfileAndSteps(t *testing.T) {
	profile := testProfile()
	steps := testSteps()
	spec, err := Assemble(profile, identity.Derive("b", testNow), steps)
	require.NoError(t, err)

	spec.Instances.Groups[0].EbsVolumes[0].VolumesPerInstance = 1
	spec.BootstrapActions[0].Args[0] = "changed"
	spec.Applications[0] = "Hive"
	spec.Configurations[0].Properties["k"] = "changed"
	spec.Steps[0].Args[0] = "changed"

	assert.Equal(t, testProfile(), profile)
	assert.Equal(t, testSteps(), steps)
}

func TestAssemble_Errors(t *testing.T) {
	id := identity.Derive("b", testNow)

	_, err := Assemble(testProfile(), id, nil)
	assert.Error(t, err)

	_, err = Assemble(nil, id, testSteps())
	assert.Error(t, err)
}

func TestSubmit(t *testing.T) {
	spec, err := Assemble(testProfile(), identity.Derive("b", testNow), testSteps())
	require.NoError(t, err)

	p := &fakeProvisioner{}
	handle, err := Submit(context.Background(), p, spec)
	require.NoError(t, err)
	assert.Equal(t, "j-TEST", handle.ClusterID)
	assert.Len(t, p.specs, 1)
}

func TestSubmit_WrapsErrors(t *testing.T) {
	spec, err := Assemble(testProfile(), identity.Derive("b", testNow), testSteps())
	require.NoError(t, err)

	throttled := errors.New("ThrottlingException")
	p := &fakeProvisioner{err: throttled}
	_, err = Submit(context.Background(), p, spec)

	var perr *provision.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "submit", perr.Op)
	assert.ErrorIs(t, err, throttled)
	assert.Len(t, p.specs, 1, "no retry")

	original := &provision.Error{Op: "run job flow", Err: throttled}
	_, err = Submit(context.Background(), &fakeProvisioner{err: original}, spec)
	assert.Same(t, original, err)

	_, err = Submit(context.Background(), nil, spec)
	assert.ErrorAs(t, err, &perr)
}

func TestLauncher_EndToEnd(t *testing.T) {
	p := &fakeProvisioner{}
	res, err := newLauncher(t, testStore(), p).Launch(context.Background(), "2024-01-01")
	require.NoError(t, err)

	require.Len(t, p.specs, 1)
	spec := p.specs[0]
	assert.Same(t, res.Spec, spec)
	assert.Equal(t, "j-TEST", res.Handle.ClusterID)

	assert.Equal(t, "Snowplow ETL (recovery) [2024-01-01]->[2024-01-02-03-04-05]", spec.Name)
	assert.Equal(t, int64(1704164645000), spec.Identity.EpochMillis)
	require.Len(t, spec.Steps, pipeline.StageCount())
	assert.Equal(t, "(1/20) Setup Hadoop Debugging", spec.Steps[0].Name)
	assert.Equal(t, model.ActionContinue, spec.Steps[1].ActionOnFailure)

	assert.Contains(t, strings.Join(spec.Steps[5].Args, " "), "run=2024-01-02-03-04-05")
	assert.Contains(t, strings.Join(spec.Steps[4].Args, " "), "1704164645000")
	assert.Equal(t, "r3.4xlarge", spec.Instances.Groups[1].InstanceType)
}

func TestLauncher_NothingSubmittedOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		batchID string
		mutate  func(l *Launcher)
	}{
		{"invalid batch id", "../2024-01-01", func(*Launcher) {}},
		{"missing run config", "2024-01-02", func(*Launcher) {}},
		{"builder error", "2024-01-01", func(l *Launcher) { l.Builder = failingBuilder{err: errors.New("boom")} }},
		{"builder returns no steps", "2024-01-01", func(l *Launcher) { l.Builder = failingBuilder{} }},
		{"invalid profile", "2024-01-01", func(l *Launcher) { l.Profile.Applications = nil }},
		{"no profile", "2024-01-01", func(l *Launcher) { l.Profile = nil }},
		{"no builder", "2024-01-01", func(l *Launcher) { l.Builder = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvisioner{}
			l := newLauncher(t, testStore(), p)
			tt.mutate(l)

			_, err := l.Launch(context.Background(), tt.batchID)
			assert.Error(t, err)
			assert.Empty(t, p.specs)
		})
	}
}

func TestLauncher_Prepare(t *testing.T) {
	p := &fakeProvisioner{}
	spec, err := newLauncher(t, testStore(), p).Prepare(context.Background(), "2024-01-01")
	require.NoError(t, err)

	assert.Len(t, spec.Steps, pipeline.StageCount())
	assert.Empty(t, p.specs)
}
