package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/github4bhavin/snowplow-optimization/internal/model"
)

const (
	rule      = "═══════════════════════════════════════════════════════════\n"
	maxArgLen = 60
)

// SpecViewer provides human-readable views of a launch spec
type SpecViewer struct {
	spec *model.ClusterLaunchSpec
}

// NewSpecViewer creates a new spec viewer
func NewSpecViewer(spec *model.ClusterLaunchSpec) *SpecViewer {
	return &SpecViewer{spec: spec}
}

// ViewSteps returns a tree of the steps in execution order with their arguments
func (sv *SpecViewer) ViewSteps() string {
	if len(sv.spec.Steps) == 0 {
		return "No steps in launch spec"
	}

	var sb strings.Builder
	sb.WriteString(sv.spec.Name + "\n")

	continues := 0
	for i, step := range sv.spec.Steps {
		isLast := i == len(sv.spec.Steps)-1

		prefix, connector := "├─ ", "│  "
		if isLast {
			prefix, connector = "└─ ", "   "
		}

		line := prefix + step.Name
		if step.ActionOnFailure == model.ActionContinue {
			line += " (continue on failure)"
			continues++
		}
		sb.WriteString(line + "\n")
		fmt.Fprintf(&sb, "%s  %s %s\n", connector, step.Executable.Kind, step.Executable.Jar)

		for _, arg := range flagPairs(step.Args) {
			fmt.Fprintf(&sb, "%s    %s\n", connector, arg)
		}
	}

	sb.WriteString(rule)
	fmt.Fprintf(&sb, "Summary: %d steps, %d continue on failure\n", len(sv.spec.Steps), continues)

	return sb.String()
}

// ViewCluster shows the cluster topology and software setup
func (sv *SpecViewer) ViewCluster() string {
	s := sv.spec

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]\n", s.Name, s.ReleaseLabel)
	sb.WriteString(rule + "\n")

	fmt.Fprintf(&sb, "Region: %s", s.Region)
	if s.Instances.AvailabilityZone != "" {
		fmt.Fprintf(&sb, " (%s)", s.Instances.AvailabilityZone)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Logs: %s\n", s.LogURI)
	fmt.Fprintf(&sb, "Applications: %s\n\n", strings.Join(s.Applications, ", "))

	sb.WriteString("Instance groups\n")
	for i, g := range s.Instances.Groups {
		prefix := "├─ "
		if i == len(s.Instances.Groups)-1 {
			prefix = "└─ "
		}
		fmt.Fprintf(&sb, "%s%s %s: %d x %s", prefix, g.Role, g.Name, g.InstanceCount, g.InstanceType)
		for _, v := range g.EbsVolumes {
			fmt.Fprintf(&sb, " +%dx%dGB %s", v.VolumesPerInstance, v.SizeInGB, v.VolumeType)
		}
		sb.WriteString("\n")
	}

	if len(s.BootstrapActions) > 0 {
		sb.WriteString("\nBootstrap actions\n")
		for i, b := range s.BootstrapActions {
			prefix := "├─ "
			if i == len(s.BootstrapActions)-1 {
				prefix = "└─ "
			}
			fmt.Fprintf(&sb, "%s%s | %s\n", prefix, b.Name, b.Path)
		}
	}

	if len(s.Configurations) > 0 {
		sb.WriteString("\nConfigurations\n")
		for _, c := range s.Configurations {
			fmt.Fprintf(&sb, "%s\n", c.Classification)

			keys := make([]string, 0, len(c.Properties))
			for k := range c.Properties {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&sb, "  %s = %s\n", k, c.Properties[k])
			}
		}
	}

	return sb.String()
}

// flagPairs joins "--flag value" pairs onto one line and truncates long values
func flagPairs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "--") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
			arg += " " + truncate(args[i+1])
			i++
		} else {
			arg = truncate(arg)
		}
		out = append(out, arg)
	}
	return out
}

func truncate(s string) string {
	if len(s) > maxArgLen {
		return s[:maxArgLen-3] + "..."
	}
	return s
}
