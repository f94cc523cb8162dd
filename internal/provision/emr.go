package provision

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/emr"
	"github.com/aws/aws-sdk-go-v2/service/emr/types"
	"github.com/sirupsen/logrus"

	"github.com/github4bhavin/snowplow-optimization/internal/model"
)

// EMRAPI is the part of the EMR client the provisioner calls
type EMRAPI interface {
	RunJobFlow(ctx context.Context, params *emr.RunJobFlowInput, optFns ...func(*emr.Options)) (*emr.RunJobFlowOutput, error)
}

// EMR launches clusters through the EMR RunJobFlow API
type EMR struct {
	client EMRAPI
}

// NewEMR builds a client from the default AWS credential chain. An empty
// region leaves the choice to the environment and shared config.
func NewEMR(ctx context.Context, region string) (*EMR, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &Error{Op: "load aws config", Err: err}
	}
	return NewEMRWithClient(emr.NewFromConfig(cfg)), nil
}

// NewEMRWithClient wraps an existing client
func NewEMRWithClient(client EMRAPI) *EMR {
	return &EMR{client: client}
}

// Launch submits the spec as a single RunJobFlow request
func (e *EMR) Launch(ctx context.Context, spec *model.ClusterLaunchSpec) (*model.ClusterHandle, error) {
	if spec == nil {
		return nil, &Error{Op: "run job flow", Err: fmt.Errorf("launch spec cannot be nil")}
	}

	out, err := e.client.RunJobFlow(ctx, BuildRunJobFlowInput(spec), func(o *emr.Options) {
		if spec.Region != "" {
			o.Region = spec.Region
		}
	})
	if err != nil {
		return nil, &Error{Op: "run job flow", Err: err}
	}
	if out == nil || aws.ToString(out.JobFlowId) == "" {
		return nil, &Error{Op: "run job flow", Err: fmt.Errorf("no cluster id in response")}
	}

	handle := &model.ClusterHandle{
		ClusterID:  aws.ToString(out.JobFlowId),
		ClusterARN: aws.ToString(out.ClusterArn),
	}
	logrus.WithField("cluster", handle.ClusterID).Debugf("RunJobFlow accepted %d steps", len(spec.Steps))
	return handle, nil
}

// BuildRunJobFlowInput maps a launch spec onto the EMR request shape
func BuildRunJobFlowInput(spec *model.ClusterLaunchSpec) *emr.RunJobFlowInput {
	in := &emr.RunJobFlowInput{
		Name:              aws.String(spec.Name),
		ReleaseLabel:      aws.String(spec.ReleaseLabel),
		LogUri:            aws.String(spec.LogURI),
		JobFlowRole:       aws.String(spec.JobFlowRole),
		ServiceRole:       aws.String(spec.ServiceRole),
		ScaleDownBehavior: types.ScaleDownBehavior(spec.ScaleDownBehavior),
		VisibleToAllUsers: aws.Bool(true),
		Instances:         buildInstances(spec.Instances),
	}

	for _, name := range spec.Applications {
		in.Applications = append(in.Applications, types.Application{Name: aws.String(name)})
	}

	for _, b := range spec.BootstrapActions {
		in.BootstrapActions = append(in.BootstrapActions, types.BootstrapActionConfig{
			Name: aws.String(b.Name),
			ScriptBootstrapAction: &types.ScriptBootstrapActionConfig{
				Path: aws.String(b.Path),
				Args: append([]string(nil), b.Args...),
			},
		})
	}

	for _, tag := range spec.Tags {
		in.Tags = append(in.Tags, types.Tag{Key: aws.String(tag.Key), Value: aws.String(tag.Value)})
	}

	for _, c := range spec.Configurations {
		props := make(map[string]string, len(c.Properties))
		for k, v := range c.Properties {
			props[k] = v
		}
		in.Configurations = append(in.Configurations, types.Configuration{
			Classification: aws.String(c.Classification),
			Properties:     props,
		})
	}

	for _, s := range spec.Steps {
		in.Steps = append(in.Steps, types.StepConfig{
			Name:            aws.String(s.Name),
			ActionOnFailure: types.ActionOnFailure(s.ActionOnFailure),
			HadoopJarStep: &types.HadoopJarStepConfig{
				Jar:  aws.String(s.Executable.Jar),
				Args: append([]string(nil), s.Args...),
			},
		})
	}

	return in
}

func buildInstances(inst model.Instances) *types.JobFlowInstancesConfig {
	cfg := &types.JobFlowInstancesConfig{
		KeepJobFlowAliveWhenNoSteps: aws.Bool(inst.KeepAliveWhenNoSteps),
		TerminationProtected:        aws.Bool(false),
	}
	if inst.Ec2KeyName != "" {
		cfg.Ec2KeyName = aws.String(inst.Ec2KeyName)
	}
	if inst.AvailabilityZone != "" {
		cfg.Placement = &types.PlacementType{AvailabilityZone: aws.String(inst.AvailabilityZone)}
	}
	if inst.EmrManagedMasterSecurityGroup != "" {
		cfg.EmrManagedMasterSecurityGroup = aws.String(inst.EmrManagedMasterSecurityGroup)
	}
	if inst.EmrManagedSlaveSecurityGroup != "" {
		cfg.EmrManagedSlaveSecurityGroup = aws.String(inst.EmrManagedSlaveSecurityGroup)
	}

	for _, g := range inst.Groups {
		group := types.InstanceGroupConfig{
			Name:          aws.String(g.Name),
			Market:        types.MarketType(g.Market),
			InstanceRole:  types.InstanceRoleType(g.Role),
			InstanceType:  aws.String(g.InstanceType),
			InstanceCount: aws.Int32(g.InstanceCount),
		}
		if len(g.EbsVolumes) > 0 {
			ebs := &types.EbsConfiguration{}
			for _, v := range g.EbsVolumes {
				vol := &types.VolumeSpecification{
					VolumeType: aws.String(v.VolumeType),
					SizeInGB:   aws.Int32(v.SizeInGB),
				}
				if v.Iops > 0 {
					vol.Iops = aws.Int32(v.Iops)
				}
				ebs.EbsBlockDeviceConfigs = append(ebs.EbsBlockDeviceConfigs, types.EbsBlockDeviceConfig{
					VolumeSpecification: vol,
					VolumesPerInstance:  aws.Int32(v.VolumesPerInstance),
				})
			}
			group.EbsConfiguration = ebs
		}
		cfg.InstanceGroups = append(cfg.InstanceGroups, group)
	}

	return cfg
}
