package model

// Layout is where the recovery pipeline reads and writes, and which programs it runs.
// Bucket and root values carry their scheme and no trailing slash.
type Layout struct {
	ProcessedBucket string    `yaml:"processedBucket" json:"processedBucket" validate:"required,startswith=s3://"`
	OutputBucket    string    `yaml:"outputBucket" json:"outputBucket" validate:"required,startswith=s3://"`
	S3Endpoint      string    `yaml:"s3Endpoint" json:"s3Endpoint" validate:"required,hostname_rfc1123"`
	HDFSRoot        string    `yaml:"hdfsRoot" json:"hdfsRoot" validate:"required,startswith=hdfs://"`
	Artifacts       Artifacts `yaml:"artifacts" json:"artifacts"`
	Configs         Configs   `yaml:"configs" json:"configs"`
	StorageTarget   string    `yaml:"storageTarget" json:"storageTarget" validate:"required"`
	InputFormat     string    `yaml:"inputFormat" json:"inputFormat" validate:"required"`
}

// Artifacts lists the jars, scripts and job classes each stage runs
type Artifacts struct {
	ScriptRunner  string `yaml:"scriptRunner" json:"scriptRunner" validate:"required"`
	StatePusher   string `yaml:"statePusher" json:"statePusher" validate:"required"`
	DistCp        string `yaml:"distCp" json:"distCp" validate:"required"`
	CommandRunner string `yaml:"commandRunner" json:"commandRunner" validate:"required"`
	HDFSRemove    string `yaml:"hdfsRemove" json:"hdfsRemove" validate:"required"`
	EnrichJar     string `yaml:"enrichJar" json:"enrichJar" validate:"required"`
	EnrichClass   string `yaml:"enrichClass" json:"enrichClass" validate:"required"`
	ShredJar      string `yaml:"shredJar" json:"shredJar" validate:"required"`
	ShredClass    string `yaml:"shredClass" json:"shredClass" validate:"required"`
	LoaderJar     string `yaml:"loaderJar" json:"loaderJar" validate:"required"`
}

// Configs names the payloads read from the configuration store.
// RunConfig is a pattern; %s is replaced by the batch id.
type Configs struct {
	Resolver    string `yaml:"resolver" json:"resolver" validate:"required"`
	Enrichments string `yaml:"enrichments" json:"enrichments" validate:"required"`
	RunConfig   string `yaml:"runConfig" json:"runConfig" validate:"required,contains=%s"`
	Target      string `yaml:"target" json:"target" validate:"required"`
}
