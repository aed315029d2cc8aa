package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/presscorpus/presscorpus/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Input struct {
		Dir       string `yaml:"dir" json:"dir" jsonschema:"required,description=Directory with one article export file per article"`
		Extension string `yaml:"extension" json:"extension" jsonschema:"default=rtf,description=Article file extension (rtf, html or txt)"`
		Locale    string `yaml:"locale" json:"locale" jsonschema:"default=english,enum=english,enum=dutch,enum=french,description=Locale for month-name date parsing"`
	} `yaml:"input" json:"input" jsonschema:"description=Input configuration"`

	Language struct {
		FrenchOutlets []string `yaml:"french_outlets" json:"french_outlets" jsonschema:"description=Outlets whose articles are tagged fr; everything else is tagged nl"`
	} `yaml:"language" json:"language" jsonschema:"description=Language partition configuration"`

	Pipeline struct {
		MaxWorkers int `yaml:"max_workers" json:"max_workers" jsonschema:"default=4,description=Maximum concurrent per-article workers"`
	} `yaml:"pipeline" json:"pipeline" jsonschema:"description=Pipeline configuration"`

	Output struct {
		CSV string `yaml:"csv" json:"csv" jsonschema:"default=corpus.csv,description=Corpus table CSV output path"`
	} `yaml:"output" json:"output" jsonschema:"description=Output configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"description=SQLite connection string; empty disables persistence"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// Default returns a configuration with defaults applied, for runs
// driven entirely by CLI flags
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	if c.Input.Extension == "" {
		c.Input.Extension = "rtf"
	}
	if c.Input.Locale == "" {
		c.Input.Locale = string(domain.LocaleEnglish)
	}
	if c.Pipeline.MaxWorkers == 0 {
		c.Pipeline.MaxWorkers = 4
	}
	if c.Output.CSV == "" {
		c.Output.CSV = "corpus.csv"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Input.Dir == "" {
		return fmt.Errorf("input.dir is required")
	}
	if _, err := domain.ParseLocale(cfg.Input.Locale); err != nil {
		return fmt.Errorf("input.locale: %w", err)
	}
	if cfg.Pipeline.MaxWorkers < 1 {
		return fmt.Errorf("pipeline.max_workers must be at least 1")
	}

	// the French outlet partition is deliberate caller configuration,
	// a duplicate entry points at a copy-paste mistake
	seen := map[string]bool{}
	for _, outlet := range cfg.Language.FrenchOutlets {
		if outlet == "" {
			return fmt.Errorf("language.french_outlets must not contain empty names")
		}
		if seen[outlet] {
			return fmt.Errorf("language.french_outlets contains %q twice", outlet)
		}
		seen[outlet] = true
	}

	return nil
}

// Locale returns the parsed input locale
func (c *Config) Locale() domain.Locale {
	locale, err := domain.ParseLocale(c.Input.Locale)
	if err != nil {
		return domain.LocaleEnglish
	}
	return locale
}

// ConnMaxLifetimeDuration returns the connection lifetime as a duration
func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(c.Database.ConnMaxLifetime) * time.Second
}
