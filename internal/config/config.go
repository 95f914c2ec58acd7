// Package config holds the settings shared by the trainer, analyzer and API
// binaries. Values come from defaults, an optional YAML or TOML file and a
// few environment variables, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"

	"weird/internal/data"
	"weird/internal/models"
)

// ErrUnsupportedFormat is returned for a config file that is neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// Config is the full settings tree; each section maps to a YAML/TOML table.
type Config struct {
	Fixture FixtureConfig `yaml:"fixture" toml:"fixture"`
	Model   ModelConfig   `yaml:"model" toml:"model"`
	Curve   CurveConfig   `yaml:"curve" toml:"curve"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

// FixtureConfig sizes the synthetic dataset and seeds every random draw.
type FixtureConfig struct {
	SamplesPerClass int   `yaml:"samples_per_class" toml:"samples_per_class" validate:"gte=1"`
	Features        int   `yaml:"features" toml:"features" validate:"gte=1"`
	Classes         int   `yaml:"classes" toml:"classes" validate:"gte=1"`
	Seed            int64 `yaml:"seed" toml:"seed"`
}

// ModelConfig holds the Fit options; Scheme is parsed by models.ParseWeightScheme.
type ModelConfig struct {
	Epsilon float64 `yaml:"epsilon" toml:"epsilon" validate:"gt=0"`
	Scheme  string  `yaml:"scheme" toml:"scheme"`
}

// CurveConfig drives the learning curve and its output files.
type CurveConfig struct {
	Enabled   bool    `yaml:"enabled" toml:"enabled"`
	Points    int     `yaml:"points" toml:"points" validate:"gte=2"`
	Min       int     `yaml:"min" toml:"min" validate:"gte=1"`
	Log       bool    `yaml:"log" toml:"log"`
	TestRatio float64 `yaml:"test_ratio" toml:"test_ratio" validate:"gt=0,lt=1"`
	CSV       string  `yaml:"csv" toml:"csv"`
	PNG       string  `yaml:"png" toml:"png"`
}

// ServerConfig is the API listen address and optional X-API-Key value.
type ServerConfig struct {
	Addr   string `yaml:"addr" toml:"addr" validate:"required"`
	APIKey string `yaml:"api_key" toml:"api_key"`
}

// LogConfig mirrors LOG_LEVEL and LOG_FILE.
type LogConfig struct {
	Level string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file" toml:"file"`
}

// Default matches the reference fixture and writes curves under data/.
func Default() Config {
	f := data.DefaultFixture()
	return Config{
		Fixture: FixtureConfig{
			SamplesPerClass: f.SamplesPerClass,
			Features:        f.Features,
			Classes:         f.Classes,
			Seed:            f.Seed,
		},
		Model: ModelConfig{Epsilon: models.DefaultEpsilon, Scheme: models.WithinClassVariance.String()},
		Curve: CurveConfig{
			Enabled:   true,
			Points:    10,
			Min:       20,
			Log:       false,
			TestRatio: 0.2,
			CSV:       "data/learning_curve.csv",
			PNG:       "data/learning_curve.png",
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load returns Default overlaid with the file at path (skipped when empty)
// and the environment, then validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := decode(path, raw, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(path string, raw []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.UnmarshalWithOptions(raw, cfg, yaml.Strict()); err != nil {
			return fmt.Errorf("config: %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("config: %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return nil
}

// applyEnv honours PORT, API_KEY, WEIRD_SEED, LOG_LEVEL and LOG_FILE.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		c.Server.Addr = ":" + v
	}
	if v, ok := lookup("API_KEY"); ok {
		c.Server.APIKey = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("LOG_FILE"); ok {
		c.Log.File = v
	}
	if v, ok := lookup("WEIRD_SEED"); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: WEIRD_SEED: %w", err)
		}
		c.Fixture.Seed = seed
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every problem at once; use multierr.Errors to list them.
func (c Config) Validate() error {
	var errs error
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = multierr.Append(errs, fmt.Errorf("config: %s fails %q %s", fe.Namespace(), fe.Tag(), fe.Param()))
		}
	}
	if _, err := models.ParseWeightScheme(c.Model.Scheme); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("config: Config.Model.Scheme: %w", err))
	}
	return errs
}

// FitOptions converts the model section. Call after Validate.
func (c Config) FitOptions() models.FitOptions {
	scheme, _ := models.ParseWeightScheme(c.Model.Scheme)
	return models.FitOptions{Epsilon: c.Model.Epsilon, Scheme: scheme}
}

// DataFixture converts the fixture section.
func (c Config) DataFixture() data.Fixture {
	return data.Fixture{
		SamplesPerClass: c.Fixture.SamplesPerClass,
		Features:        c.Fixture.Features,
		Classes:         c.Fixture.Classes,
		Seed:            c.Fixture.Seed,
	}
}
