package loader

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/github4bhavin/snowplow-optimization/internal/model"
	"github.com/github4bhavin/snowplow-optimization/internal/schema"
)

//go:embed profiles/default.yaml
var defaultProfile []byte

// DefaultProfileYAML returns the profile compiled into the binary
func DefaultProfileYAML() []byte {
	return bytes.Clone(defaultProfile)
}

// DefaultProfile parses and validates the built-in cluster profile
func DefaultProfile(v *schema.Validator) (*model.ClusterProfile, error) {
	profile, err := ParseProfile(defaultProfile, v)
	if err != nil {
		return nil, fmt.Errorf("built-in profile: %w", err)
	}
	return profile, nil
}

// LoadProfile loads and validates a cluster profile YAML file
func LoadProfile(path string, v *schema.Validator) (*model.ClusterProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	profile, err := ParseProfile(data, v)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return profile, nil
}

// ParseProfile checks a profile document against the profile schema and then
// decodes it. Unknown fields are rejected so a typo cannot silently fall back
// to a zero value.
func ParseProfile(data []byte, v *schema.Validator) (*model.ClusterProfile, error) {
	if v == nil {
		return nil, fmt.Errorf("schema validator cannot be nil")
	}

	// Parse YAML to interface{} first so the schema sees the document as written
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("profile is empty")
	}

	if err := v.ValidateProfile(doc); err != nil {
		return nil, fmt.Errorf("profile failed schema validation: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var profile model.ClusterProfile
	if err := dec.Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	return &profile, nil
}
