package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Source document defaults
	v.SetDefault("data.parameters_path", "data/parameters.yaml")
	v.SetDefault("data.protocols_path", "data/protocols.yaml")
	v.SetDefault("data.pending_parameters_dir", "data/pending_parameters")
	v.SetDefault("data.pending_protocols_dir", "data/pending_protocols")

	// Derived artifact defaults
	v.SetDefault("database.path", "output/vehicle_params.db")

	// Schema defaults: empty = embedded schemas
	v.SetDefault("schemas.parameters_schema_path", "")
	v.SetDefault("schemas.protocols_schema_path", "")

	// Report defaults
	v.SetDefault("report.dir", "output/validation_reports")
}
