package model

// ClusterProfile is the static part of a launch: topology, bootstrap, software
// and the storage layout the pipeline writes to. It is loaded from YAML.
type ClusterProfile struct {
	APIVersion        string            `yaml:"apiVersion" json:"apiVersion"`
	Kind              string            `yaml:"kind" json:"kind"`
	Metadata          Metadata          `yaml:"metadata" json:"metadata"`
	Region            string            `yaml:"region" json:"region"`
	ReleaseLabel      string            `yaml:"releaseLabel" json:"releaseLabel"`
	LogURI            string            `yaml:"logUri" json:"logUri"`
	Instances         Instances         `yaml:"instances" json:"instances"`
	BootstrapActions  []BootstrapAction `yaml:"bootstrapActions" json:"bootstrapActions"`
	Applications      []string          `yaml:"applications" json:"applications"`
	Tags              []Tag             `yaml:"tags" json:"tags"`
	ScaleDownBehavior string            `yaml:"scaleDownBehavior" json:"scaleDownBehavior"`
	JobFlowRole       string            `yaml:"jobFlowRole" json:"jobFlowRole"`
	ServiceRole       string            `yaml:"serviceRole" json:"serviceRole"`
	Configurations    []Configuration   `yaml:"configurations" json:"configurations"`
	Pipeline          Layout            `yaml:"pipeline" json:"pipeline"`
}

// Metadata holds standard object metadata
type Metadata struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Instances describes the node groups and network placement of the cluster
type Instances struct {
	Groups                        []InstanceGroup `yaml:"groups" json:"groups"`
	Ec2KeyName                    string          `yaml:"ec2KeyName" json:"ec2KeyName"`
	AvailabilityZone              string          `yaml:"availabilityZone" json:"availabilityZone"`
	KeepAliveWhenNoSteps          bool            `yaml:"keepAliveWhenNoSteps" json:"keepAliveWhenNoSteps"`
	EmrManagedMasterSecurityGroup string          `yaml:"emrManagedMasterSecurityGroup" json:"emrManagedMasterSecurityGroup"`
	EmrManagedSlaveSecurityGroup  string          `yaml:"emrManagedSlaveSecurityGroup" json:"emrManagedSlaveSecurityGroup"`
}

// InstanceGroup is one node group (MASTER, CORE or TASK)
type InstanceGroup struct {
	Name          string      `yaml:"name" json:"name"`
	Market        string      `yaml:"market" json:"market"`
	Role          string      `yaml:"role" json:"role"`
	InstanceType  string      `yaml:"instanceType" json:"instanceType"`
	InstanceCount int32       `yaml:"instanceCount" json:"instanceCount"`
	EbsVolumes    []EbsVolume `yaml:"ebsVolumes,omitempty" json:"ebsVolumes,omitempty"`
}

// EbsVolume is a set of identical EBS volumes attached to every instance in a group
type EbsVolume struct {
	VolumesPerInstance int32  `yaml:"volumesPerInstance" json:"volumesPerInstance"`
	VolumeType         string `yaml:"volumeType" json:"volumeType"`
	SizeInGB           int32  `yaml:"sizeInGB" json:"sizeInGB"`
	Iops               int32  `yaml:"iops,omitempty" json:"iops,omitempty"`
}

// BootstrapAction is a script run on every node before applications start
type BootstrapAction struct {
	Name string   `yaml:"name" json:"name"`
	Path string   `yaml:"path" json:"path"`
	Args []string `yaml:"args,omitempty" json:"args,omitempty"`
}

// Tag is a key/value pair propagated to the cluster's instances
type Tag struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// Configuration overrides runtime properties for one classification (core-site, spark-defaults, ...)
type Configuration struct {
	Classification string            `yaml:"classification" json:"classification"`
	Properties     map[string]string `yaml:"properties" json:"properties"`
}

// ClusterLaunchSpec is the complete, run-scoped launch request
type ClusterLaunchSpec struct {
	Name              string            `yaml:"name" json:"name"`
	Region            string            `yaml:"region" json:"region"`
	ReleaseLabel      string            `yaml:"releaseLabel" json:"releaseLabel"`
	LogURI            string            `yaml:"logUri" json:"logUri"`
	Instances         Instances         `yaml:"instances" json:"instances"`
	BootstrapActions  []BootstrapAction `yaml:"bootstrapActions" json:"bootstrapActions"`
	Applications      []string          `yaml:"applications" json:"applications"`
	Tags              []Tag             `yaml:"tags" json:"tags"`
	ScaleDownBehavior string            `yaml:"scaleDownBehavior" json:"scaleDownBehavior"`
	JobFlowRole       string            `yaml:"jobFlowRole" json:"jobFlowRole"`
	ServiceRole       string            `yaml:"serviceRole" json:"serviceRole"`
	Configurations    []Configuration   `yaml:"configurations" json:"configurations"`
	Identity          RunIdentity       `yaml:"identity" json:"identity"`
	Steps             []Step            `yaml:"steps" json:"steps"`
}

// ClusterHandle is what the provisioning API hands back for a launched cluster
type ClusterHandle struct {
	ClusterID  string `yaml:"clusterId" json:"clusterId"`
	ClusterARN string `yaml:"clusterArn,omitempty" json:"clusterArn,omitempty"`
}
