package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/github4bhavin/snowplow-optimization/internal/model"
)

// Format selects the serialization of a rendered launch spec
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml (any case)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want json or yaml)", s)
}

// Renderer serializes launch specs
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON renders the spec as indented JSON
func (r *Renderer) RenderJSON(spec *model.ClusterLaunchSpec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// RenderYAML renders the spec as YAML
func (r *Renderer) RenderYAML(spec *model.ClusterLaunchSpec) ([]byte, error) {
	return yaml.Marshal(spec)
}

// Render renders the spec in the given format
func (r *Renderer) Render(spec *model.ClusterLaunchSpec, format Format) ([]byte, error) {
	if spec == nil {
		return nil, fmt.Errorf("launch spec cannot be nil")
	}
	switch format {
	case FormatJSON:
		return r.RenderJSON(spec)
	case FormatYAML:
		return r.RenderYAML(spec)
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// WriteSpec writes the spec to path (JSON or YAML based on extension)
func (r *Renderer) WriteSpec(spec *model.ClusterLaunchSpec, path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	format := FormatJSON
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		format = FormatYAML
	}

	data, err := r.Render(spec, format)
	if err != nil {
		return fmt.Errorf("failed to render launch spec: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write launch spec to %s: %w", path, err)
	}

	return nil
}

// DebugDump outputs a short summary of the spec
func (r *Renderer) DebugDump(spec *model.ClusterLaunchSpec) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Cluster: %s\n", spec.Name)
	fmt.Fprintf(&sb, "Release: %s (%s)\n", spec.ReleaseLabel, spec.Region)
	fmt.Fprintf(&sb, "Batch: %s  Run: %s  ETL timestamp: %d\n", spec.Identity.BatchID, spec.Identity.RunID, spec.Identity.EpochMillis)
	fmt.Fprintf(&sb, "Steps: %d\n\n", len(spec.Steps))

	for _, step := range spec.Steps {
		fmt.Fprintf(&sb, "Step: %s\n", step.Name)
		fmt.Fprintf(&sb, "  OnFailure: %s\n", step.ActionOnFailure)
		fmt.Fprintf(&sb, "  Executable: %s (%s)\n", step.Executable.Kind, step.Executable.Jar)
		fmt.Fprintf(&sb, "  Args: %d\n", len(step.Args))
		sb.WriteString("\n")
	}

	return sb.String()
}
