// Package config loads service settings from defaults, an optional YAML file,
// and the environment, in that order of precedence.
//
// Every setting is declared once on Config. The default and env struct tags
// are read with sentinel, so adding a field needs no other change.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/zoobzio/sentinel"
	"gopkg.in/yaml.v3"
)

func init() {
	sentinel.Tag("env")
	sentinel.Tag("default")
}

// ErrInvalid indicates a setting that could not be parsed or failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings for the HTTP service.
type Config struct {
	Addr            string        `yaml:"addr" env:"STEGO_ADDR" default:":5000"`
	UploadDir       string        `yaml:"upload_dir" env:"STEGO_UPLOAD_DIR" default:"uploads"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"STEGO_MAX_UPLOAD_BYTES" default:"16777216"`
	MaxPixels       int64         `yaml:"max_pixels" env:"STEGO_MAX_PIXELS" default:"89478485"`
	OutputFormat    string        `yaml:"output_format" env:"STEGO_OUTPUT_FORMAT" default:"png"`
	ArtifactTTL     time.Duration `yaml:"artifact_ttl" env:"STEGO_ARTIFACT_TTL" default:"15m"`
	SweepInterval   time.Duration `yaml:"sweep_interval" env:"STEGO_SWEEP_INTERVAL" default:"1m"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"STEGO_SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `yaml:"log_level" env:"STEGO_LOG_LEVEL" default:"info"`
	LogFormat       string        `yaml:"log_format" env:"STEGO_LOG_FORMAT" default:"json"`
}

// FieldError reports a setting that could not be applied.
type FieldError struct {
	Field  string // Go field name
	Source string // default, env, or validate
	Value  string // Raw value, if any
	Cause  error
}

func (e *FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s %q from %s: %v", ErrInvalid.Error(), e.Field, e.Value, e.Source, e.Cause)
	}
	return fmt.Sprintf("%s: %s from %s: %v", ErrInvalid.Error(), e.Field, e.Source, e.Cause)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalid
}

// Var describes one environment variable understood by Load.
type Var struct {
	Name    string
	Default string
	Field   string
}

// Vars lists the environment variables Load reads, in field order.
func Vars() []Var {
	meta := sentinel.Scan[Config]()
	vars := make([]Var, 0, len(meta.Fields))
	for _, f := range meta.Fields {
		name, ok := f.Tags["env"]
		if !ok {
			continue
		}
		vars = append(vars, Var{Name: name, Default: f.Tags["default"], Field: f.Name})
	}
	return vars
}

// Default returns a Config populated from default tags.
func Default() Config {
	var cfg Config
	if err := apply(&cfg, "default", func(v string) (string, bool) { return v, v != "" }); err != nil {
		// Default tags are fixed at compile time.
		panic(err)
	}
	return cfg
}

// Load builds a Config from defaults, then the YAML file at path (skipped if
// path is empty), then environment variables found by lookupEnv. A nil
// lookupEnv reads the process environment.
func Load(path string, lookupEnv func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
		}
	}

	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	err := apply(&cfg, "env", func(name string) (string, bool) {
		if name == "" {
			return "", false
		}
		return lookupEnv(name)
	})
	if err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// apply sets each field whose tag value resolves through get.
func apply(cfg *Config, tag string, get func(tagValue string) (string, bool)) error {
	meta := sentinel.Scan[Config]()
	rv := reflect.ValueOf(cfg).Elem()

	for _, f := range meta.Fields {
		raw, ok := get(f.Tags[tag])
		if !ok {
			continue
		}
		if err := setField(rv.FieldByIndex(f.Index), raw); err != nil {
			return &FieldError{Field: f.Name, Source: tag, Value: raw, Cause: err}
		}
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// setField parses raw into v according to its type.
func setField(v reflect.Value, raw string) error {
	if v.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		v.SetInt(int64(d))
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		v.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", v.Type())
	}
	return nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	invalid := func(field string, cause error) error {
		return &FieldError{Field: field, Source: "validate", Cause: cause}
	}

	switch {
	case c.Addr == "":
		return invalid("Addr", errors.New("must not be empty"))
	case c.UploadDir == "":
		return invalid("UploadDir", errors.New("must not be empty"))
	case c.MaxUploadBytes <= 0:
		return invalid("MaxUploadBytes", errors.New("must be positive"))
	case c.MaxPixels <= 0:
		return invalid("MaxPixels", errors.New("must be positive"))
	case c.OutputFormat == "":
		return invalid("OutputFormat", errors.New("must not be empty"))
	case c.ArtifactTTL <= 0:
		return invalid("ArtifactTTL", errors.New("must be positive"))
	case c.SweepInterval <= 0:
		return invalid("SweepInterval", errors.New("must be positive"))
	case c.ShutdownTimeout <= 0:
		return invalid("ShutdownTimeout", errors.New("must be positive"))
	}

	if _, err := c.Level(); err != nil {
		return invalid("LogLevel", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return invalid("LogFormat", fmt.Errorf("unknown format %q (want json or text)", c.LogFormat))
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(c.LogLevel))
	return lvl, err
}
