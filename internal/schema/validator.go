package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/github4bhavin/snowplow-optimization/internal/model"
)

//go:embed schemas/*.schema.yaml
var builtin embed.FS

const (
	profileSchemaFile = "profile.schema.yaml"
	launchSchemaFile  = "launch.schema.yaml"
)

// Validator handles JSON schema validation of profiles and launch specs
type Validator struct {
	profileSchema *jsonschema.Schema
	launchSchema  *jsonschema.Schema
}

// NewValidator compiles the schemas shipped with the binary
func NewValidator() (*Validator, error) {
	return newValidator(func(name string) ([]byte, error) {
		return builtin.ReadFile("schemas/" + name)
	})
}

// NewValidatorFromDir compiles profile.schema.yaml and launch.schema.yaml from schemasDir
func NewValidatorFromDir(schemasDir string) (*Validator, error) {
	return newValidator(func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(schemasDir, name))
	})
}

func newValidator(read func(name string) ([]byte, error)) (*Validator, error) {
	v := &Validator{}

	profileSchema, err := loadSchema(profileSchemaFile, read)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile schema: %w", err)
	}
	v.profileSchema = profileSchema

	launchSchema, err := loadSchema(launchSchemaFile, read)
	if err != nil {
		return nil, fmt.Errorf("failed to load launch schema: %w", err)
	}
	v.launchSchema = launchSchema

	return v, nil
}

// ValidateProfile validates a decoded profile document against the schema
func (v *Validator) ValidateProfile(data interface{}) error {
	if v.profileSchema == nil {
		return fmt.Errorf("profile schema not loaded")
	}
	doc, err := ToJSONValue(data)
	if err != nil {
		return err
	}
	return v.profileSchema.Validate(doc)
}

// ValidateLaunchSpec validates an assembled launch spec before it is submitted
func (v *Validator) ValidateLaunchSpec(spec *model.ClusterLaunchSpec) error {
	if v.launchSchema == nil {
		return fmt.Errorf("launch schema not loaded")
	}
	if spec == nil {
		return fmt.Errorf("launch spec cannot be nil")
	}
	doc, err := ToJSONValue(spec)
	if err != nil {
		return err
	}
	return v.launchSchema.Validate(doc)
}

// ToJSONValue converts a Go value (a struct or a YAML-decoded tree) into the
// generic form the schema compiler validates
func ToJSONValue(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// loadSchema loads and compiles a schema file (JSON or YAML)
func loadSchema(name string, read func(string) ([]byte, error)) (*jsonschema.Schema, error) {
	data, err := read(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	// Parse YAML to interface{} (supports both YAML and JSON)
	var schemaData interface{}
	if err := yaml.Unmarshal(data, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}

	jsonData, err := json.Marshal(schemaData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	url := "mem://schemas/" + name
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(jsonData)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return schema, nil
}
