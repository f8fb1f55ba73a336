// Package config loads the CLI configuration file. The file is optional;
// defaults cover every setting.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

// Config is the CLI configuration.
type Config struct {
	// Formats restricts which package formats are enabled. Empty means all
	// supported formats.
	Formats []string `yaml:"formats" json:"formats,omitempty"`
	HTTP    HTTP     `yaml:"http" json:"http,omitempty"`
	Fetch   Fetch    `yaml:"fetch" json:"fetch,omitempty"`
}

// HTTP tunes the mirror-facing HTTP client.
type HTTP struct {
	// TimeoutSeconds is the whole-request deadline. Zero means no deadline.
	TimeoutSeconds int `yaml:"timeoutSeconds" json:"timeoutSeconds,omitempty"`
	// Retries is the attempt budget for transient failures.
	Retries int `yaml:"retries" json:"retries,omitempty"`
}

// Fetch tunes the fetch command.
type Fetch struct {
	Workers int    `yaml:"workers" json:"workers,omitempty"`
	Dest    string `yaml:"dest" json:"dest,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		HTTP:  HTTP{TimeoutSeconds: 0, Retries: 3},
		Fetch: Fetch{Workers: 4, Dest: "."},
	}
}

// Load reads and validates a YAML configuration file. Settings absent from
// the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates raw YAML against the config schema and unmarshals it over
// the defaults.
func Parse(data []byte) (*Config, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.HTTP.Retries < 1 {
		cfg.HTTP.Retries = 1
	}
	if cfg.Fetch.Workers < 1 {
		cfg.Fetch.Workers = 1
	}
	return cfg, nil
}

// configSchema rejects unknown keys and out-of-range values before the
// struct ever sees them.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": ["object", "null"],
  "additionalProperties": false,
  "properties": {
    "formats": {
      "type": "array",
      "items": {"type": "string", "enum": ["deb", "rpm"]}
    },
    "http": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "timeoutSeconds": {"type": "integer", "minimum": 0},
        "retries": {"type": "integer", "minimum": 1}
      }
    },
    "fetch": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "workers": {"type": "integer", "minimum": 1},
        "dest": {"type": "string"}
      }
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("config.schema.json", strings.NewReader(configSchema)); err != nil {
		return nil, err
	}
	return c.Compile("config.schema.json")
})

func validate(data []byte) error {
	jsonData, err := sigsyaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
