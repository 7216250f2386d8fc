package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override, e.g. SIDEEYE_WIDE_FORMAT.
const EnvPrefix = "SIDEEYE"

var validate = validator.New()

// overrides are the settings that may be changed from the environment.
// Nil fields are left alone.
type overrides struct {
	WideFormat      *bool `envconfig:"WIDE_FORMAT"`
	TerminalOutput  *int  `envconfig:"TERMINAL_OUTPUT"`
	CutoffMin       *int  `envconfig:"CUTOFF_MIN"`
	CutoffMax       *int  `envconfig:"CUTOFF_MAX"`
	IncludeFixation *bool `envconfig:"INCLUDE_FIXATION"`
	IncludeSaccades *bool `envconfig:"INCLUDE_SACCADES"`
}

// Load reads a JSON or YAML config file over the defaults, applies
// environment overrides and validates the result. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("read config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var o overrides
	if err := envconfig.Process(EnvPrefix, &o); err != nil {
		return err
	}
	if o.WideFormat != nil {
		c.WideFormat = *o.WideFormat
	}
	if o.TerminalOutput != nil {
		c.TerminalOutput = *o.TerminalOutput
	}
	if o.CutoffMin != nil {
		c.Cutoffs.Min = *o.CutoffMin
	}
	if o.CutoffMax != nil {
		c.Cutoffs.Max = *o.CutoffMax
	}
	if o.IncludeFixation != nil {
		c.Cutoffs.IncludeFixation = *o.IncludeFixation
	}
	if o.IncludeSaccades != nil {
		c.Cutoffs.IncludeSaccades = *o.IncludeSaccades
	}
	return nil
}

// Validate checks field ranges and column names.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
