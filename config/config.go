package config

import "github.com/fleetdata/vparams/errors"

// Config represents the vparams catalog configuration
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Database DatabaseConfig `mapstructure:"database"`
	Schemas  SchemasConfig  `mapstructure:"schemas"`
	Report   ReportConfig   `mapstructure:"report"`
}

// DataConfig locates the two source documents and the pending-submission
// directories that feed them.
type DataConfig struct {
	ParametersPath       string `mapstructure:"parameters_path"`        // parameters catalog (YAML)
	ProtocolsPath        string `mapstructure:"protocols_path"`         // protocol catalog (YAML)
	PendingParametersDir string `mapstructure:"pending_parameters_dir"` // candidate parameter batches
	PendingProtocolsDir  string `mapstructure:"pending_protocols_dir"`  // candidate protocol batches
}

// DatabaseConfig configures the derived SQLite artifact
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SchemasConfig optionally overrides the embedded JSON Schemas.
// Empty paths mean the schemas compiled into the binary are used.
type SchemasConfig struct {
	ParametersSchemaPath string `mapstructure:"parameters_schema_path"`
	ProtocolsSchemaPath  string `mapstructure:"protocols_schema_path"`
}

// ReportConfig configures where validation reports are written
type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Data.ParametersPath == "" {
		return errors.New("data.parameters_path cannot be empty")
	}
	if c.Data.ProtocolsPath == "" {
		return errors.New("data.protocols_path cannot be empty")
	}
	if c.Database.Path == "" {
		return errors.New("database.path cannot be empty")
	}
	return nil
}
