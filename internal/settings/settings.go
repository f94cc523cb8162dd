package settings

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/github4bhavin/snowplow-optimization/internal/configstore"
)

// Environment variables read by FromEnv
const (
	EnvConfigSource    = "EMR_RECOVER_CONFIG_SOURCE"
	EnvConfigDir       = "EMR_RECOVER_CONFIG_DIR"
	EnvConfigEndpoint  = "EMR_RECOVER_CONFIG_ENDPOINT"
	EnvConfigAccessKey = "EMR_RECOVER_CONFIG_ACCESS_KEY"
	EnvConfigSecretKey = "EMR_RECOVER_CONFIG_SECRET_KEY"
	EnvConfigBucket    = "EMR_RECOVER_CONFIG_BUCKET"
	EnvConfigPrefix    = "EMR_RECOVER_CONFIG_PREFIX"
	EnvConfigUseSSL    = "EMR_RECOVER_CONFIG_USE_SSL"
	EnvProfile         = "EMR_RECOVER_PROFILE"
	EnvRegion          = "EMR_RECOVER_REGION"
	EnvDryRun          = "EMR_RECOVER_DRY_RUN"
	EnvOutput          = "EMR_RECOVER_OUTPUT"
	EnvLogLevel        = "EMR_RECOVER_LOG_LEVEL"
)

const (
	SourceFile = "file"
	SourceS3   = "s3"

	// DefaultConfigDir is relative to the working directory
	DefaultConfigDir = "../config"
)

// Settings are the process-level knobs of a launch. The batch itself is
// chosen on the command line.
type Settings struct {
	ConfigSource string `validate:"oneof=file s3"`
	ConfigDir    string `validate:"required_if=ConfigSource file"`

	ConfigEndpoint  string `validate:"required_if=ConfigSource s3"`
	ConfigAccessKey string
	ConfigSecretKey string
	ConfigBucket    string `validate:"required_if=ConfigSource s3"`
	ConfigPrefix    string
	ConfigUseSSL    bool

	// ProfilePath is empty for the built-in profile
	ProfilePath string `validate:"omitempty,file"`
	Region      string
	DryRun      bool
	Output      string `validate:"oneof=json yaml yml"`
	LogLevel    string `validate:"oneof=panic fatal error warn warning info debug trace"`
}

// FromEnv reads and validates settings from the environment
func FromEnv() (Settings, error) {
	useSSL, err := envBool(EnvConfigUseSSL, true)
	if err != nil {
		return Settings{}, err
	}
	dryRun, err := envBool(EnvDryRun, false)
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		ConfigSource:    envString(EnvConfigSource, SourceFile),
		ConfigDir:       envString(EnvConfigDir, DefaultConfigDir),
		ConfigEndpoint:  envString(EnvConfigEndpoint, ""),
		ConfigAccessKey: envString(EnvConfigAccessKey, ""),
		ConfigSecretKey: envString(EnvConfigSecretKey, ""),
		ConfigBucket:    envString(EnvConfigBucket, ""),
		ConfigPrefix:    envString(EnvConfigPrefix, ""),
		ConfigUseSSL:    useSSL,
		ProfilePath:     envString(EnvProfile, ""),
		Region:          envString(EnvRegion, envString("AWS_REGION", "")),
		DryRun:          dryRun,
		Output:          envString(EnvOutput, "json"),
		LogLevel:        envString(EnvLogLevel, "info"),
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings struct tags
func (s Settings) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			f := fields[0]
			return fmt.Errorf("invalid setting %s: failed %q check (value %q)", f.Field(), f.Tag(), f.Value())
		}
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// ObjectConfig is the object-storage connection for the s3 config source
func (s Settings) ObjectConfig() configstore.ObjectConfig {
	return configstore.ObjectConfig{
		Endpoint:  s.ConfigEndpoint,
		AccessKey: s.ConfigAccessKey,
		SecretKey: s.ConfigSecretKey,
		Region:    s.Region,
		UseSSL:    s.ConfigUseSSL,
		Bucket:    s.ConfigBucket,
		Prefix:    s.ConfigPrefix,
	}
}

// Store opens the configuration store the settings select
func (s Settings) Store() (configstore.Store, error) {
	switch s.ConfigSource {
	case SourceS3:
		store, err := configstore.NewObjectStore(s.ObjectConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to open object config store: %w", err)
		}
		return store, nil
	case SourceFile, "":
		return configstore.NewFileStore(s.ConfigDir), nil
	}
	return nil, fmt.Errorf("unknown config source %q", s.ConfigSource)
}
