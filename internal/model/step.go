package model

// RunIdentity names one recovery attempt. RunID and EpochMillis are taken
// from the same instant.
type RunIdentity struct {
	BatchID     string `yaml:"batchId" json:"batchId"`
	RunID       string `yaml:"runId" json:"runId"`
	EpochMillis int64  `yaml:"epochMillis" json:"epochMillis"`
}

// FailureAction is what the cluster does when a step fails
type FailureAction string

const (
	ActionContinue         FailureAction = "CONTINUE"
	ActionTerminateCluster FailureAction = "TERMINATE_CLUSTER"
)

// ExecutableKind identifies the program EMR runs for a step
type ExecutableKind string

const (
	ScriptRunner  ExecutableKind = "script-runner"
	DistCp        ExecutableKind = "s3-dist-cp"
	CommandRunner ExecutableKind = "command-runner"
	CustomJar     ExecutableKind = "custom-jar"
)

// Executable is the jar a step runs, tagged with its kind
type Executable struct {
	Kind ExecutableKind `yaml:"kind" json:"kind"`
	Jar  string         `yaml:"jar" json:"jar"`
}

// Step is a single stage of the recovery pipeline with its arguments fully resolved
type Step struct {
	Name            string        `yaml:"name" json:"name"`
	ActionOnFailure FailureAction `yaml:"actionOnFailure" json:"actionOnFailure"`
	Executable      Executable    `yaml:"executable" json:"executable"`
	Args            []string      `yaml:"args" json:"args"`
}
