package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	// parse schema
	var schema map[string]interface{}
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]interface{}
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	// basic validation - check required fields match
	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Input.Dir == "" {
		return fmt.Errorf("input.dir is required")
	}
	if cfg.Input.Extension == "" {
		return fmt.Errorf("input.extension is required")
	}
	if cfg.Input.Locale == "" {
		return fmt.Errorf("input.locale is required")
	}
	if cfg.Output.CSV == "" {
		return fmt.Errorf("output.csv is required")
	}

	// database settings matter only when persistence is enabled
	if cfg.Database.DSN != "" {
		if cfg.Database.MaxOpenConns < 1 {
			return fmt.Errorf("database.max_open_conns must be at least 1")
		}
		if cfg.Database.MaxIdleConns < 0 {
			return fmt.Errorf("database.max_idle_conns must be non-negative")
		}
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
