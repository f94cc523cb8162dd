package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/github4bhavin/snowplow-optimization/internal/model"
)

func testSpec() *model.ClusterLaunchSpec {
	return &model.ClusterLaunchSpec{
		Name:         "Snowplow ETL (recovery) [2024-01-01]->[2024-01-02-03-04-05]",
		Region:       "eu-west-1",
		ReleaseLabel: "emr-5.5.0",
		LogURI:       "s3n://bad-bucket/logs/",
		Instances: model.Instances{
			AvailabilityZone: "eu-west-1c",
			Groups: []model.InstanceGroup{
				{Name: "Master", Market: "ON_DEMAND", Role: "MASTER", InstanceType: "m1.medium", InstanceCount: 1},
				{Name: "CORE", Market: "ON_DEMAND", Role: "CORE", InstanceType: "r3.4xlarge", InstanceCount: 3,
					EbsVolumes: []model.EbsVolume{{VolumesPerInstance: 12, VolumeType: "io1", SizeInGB: 10, Iops: 100}}},
			},
		},
		BootstrapActions: []model.BootstrapAction{{Name: "Install Thriftpy", Path: "s3://bucket/scripts/bootstrap-emr.sh"}},
		Applications:     []string{"Hadoop", "Spark"},
		Configurations: []model.Configuration{
			{Classification: "spark-defaults", Properties: map[string]string{"spark.executor.memory": "27G", "spark.driver.cores": "3"}},
		},
		Identity: model.RunIdentity{BatchID: "2024-01-01", RunID: "2024-01-02-03-04-05", EpochMillis: 1704164645000},
		Steps: []model.Step{
			{
				Name:            "(1/20) Setup Hadoop Debugging",
				ActionOnFailure: model.ActionTerminateCluster,
				Executable:      model.Executable{Kind: model.ScriptRunner, Jar: "script-runner.jar"},
				Args:            []string{"s3://state-pusher/fetch"},
			},
			{
				Name:            "(2/20) archiving recovered data",
				ActionOnFailure: model.ActionContinue,
				Executable:      model.Executable{Kind: model.DistCp, Jar: "s3-dist-cp.jar"},
				Args:            []string{"--src", "s3://bucket/processed/recovered/run=2024-01-01/", "--deleteOnSuccess"},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("toml")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	r := NewRenderer()
	spec := testSpec()

	data, err := r.Render(spec, FormatJSON)
	require.NoError(t, err)
	var fromJSON model.ClusterLaunchSpec
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, *spec, fromJSON)

	data, err = r.Render(spec, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "actionOnFailure: CONTINUE")

	_, err = r.Render(spec, Format("xml"))
	assert.Error(t, err)
	_, err = r.Render(nil, FormatJSON)
	assert.Error(t, err)
}

func TestWriteSpec(t *testing.T) {
	r := NewRenderer()
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "out", "spec.yaml")
	require.NoError(t, r.WriteSpec(testSpec(), yamlPath))
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML model.ClusterLaunchSpec
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, testSpec().Steps, fromYAML.Steps)

	jsonPath := filepath.Join(dir, "spec")
	require.NoError(t, r.WriteSpec(testSpec(), jsonPath))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestDebugDump(t *testing.T) {
	out := NewRenderer().DebugDump(testSpec())

	assert.Contains(t, out, "Batch: 2024-01-01  Run: 2024-01-02-03-04-05  ETL timestamp: 1704164645000")
	assert.Contains(t, out, "Steps: 2")
	assert.Contains(t, out, "OnFailure: CONTINUE")
}

func TestViewSteps(t *testing.T) {
	out := NewSpecViewer(testSpec()).ViewSteps()

	assert.Contains(t, out, "├─ (1/20) Setup Hadoop Debugging\n")
	assert.Contains(t, out, "└─ (2/20) archiving recovered data (continue on failure)\n")
	assert.Contains(t, out, "--src s3://bucket/processed/recovered/run=2024-01-01/\n")
	assert.Contains(t, out, "    --deleteOnSuccess\n")
	assert.Contains(t, out, "Summary: 2 steps, 1 continue on failure")

	empty := testSpec()
	empty.Steps = nil
	assert.Equal(t, "No steps in launch spec", NewSpecViewer(empty).ViewSteps())
}

func TestViewCluster(t *testing.T) {
	out := NewSpecViewer(testSpec()).ViewCluster()

	assert.Contains(t, out, "Region: eu-west-1 (eu-west-1c)")
	assert.Contains(t, out, "├─ MASTER Master: 1 x m1.medium\n")
	assert.Contains(t, out, "└─ CORE CORE: 3 x r3.4xlarge +12x10GB io1\n")
	assert.Contains(t, out, "└─ Install Thriftpy | s3://bucket/scripts/bootstrap-emr.sh")

	driver := strings.Index(out, "spark.driver.cores = 3")
	executor := strings.Index(out, "spark.executor.memory = 27G")
	require.True(t, driver > 0 && executor > 0)
	assert.Less(t, driver, executor)
}

func TestFlagPairs(t *testing.T) {
	long := strings.Repeat("x", 100)
	got := flagPairs([]string{"--src", "a", "--deleteOnSuccess", "--config", long, "positional"})

	require.Len(t, got, 4)
	assert.Equal(t, "--src a", got[0])
	assert.Equal(t, "--deleteOnSuccess", got[1])
	assert.Len(t, got[2], len("--config ")+maxArgLen)
	assert.True(t, strings.HasSuffix(got[2], "..."))
	assert.Equal(t, "positional", got[3])
}
