// SPDX-License-Identifier: EPL-2.0

// Package conf loads the audpipe configuration from defaults, an optional
// YAML file and AUDPIPE_ environment variables.
package conf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/pcm"
)

// EnvPrefix prefixes every environment variable, e.g. AUDPIPE_CACHE_BUFFERSIZE.
const EnvPrefix = "AUDPIPE"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full audpipe configuration.
type Config struct {
	Cache  Cache  `mapstructure:"cache" yaml:"cache"`
	Decode Decode `mapstructure:"decode" yaml:"decode"`
	Output Output `mapstructure:"output" yaml:"output"`
	Log    Log    `mapstructure:"log" yaml:"log"`
}

// Cache sizes the decode sample cache.
type Cache struct {
	BufferSize int `mapstructure:"buffersize" yaml:"buffersize"` // bytes, 0 for the default
}

// Decode configures the source stage.
type Decode struct {
	ErrorPolicy string `mapstructure:"errors" yaml:"errors"` // drop or fail
	Track       string `mapstructure:"track" yaml:"track"`   // any or an index
	Format      string `mapstructure:"format" yaml:"format"` // container key, empty to use the extension
}

// Output shapes what the CLI writes.
type Output struct {
	SampleFormat string `mapstructure:"sampleformat" yaml:"sampleformat"` // empty keeps the native format
	Rate         int    `mapstructure:"rate" yaml:"rate"`                 // Hz, 0 keeps the source rate
	Mono         bool   `mapstructure:"mono" yaml:"mono"`
	Container    string `mapstructure:"container" yaml:"container"` // raw or wav
	BitDepth     int    `mapstructure:"bitdepth" yaml:"bitdepth"`   // wav only
	Step         int    `mapstructure:"step" yaml:"step"`           // samples per request
}

// Log configures the slog handler.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.buffersize", 0)

	v.SetDefault("decode.errors", string(audio.PolicyDrop))
	v.SetDefault("decode.track", "any")
	v.SetDefault("decode.format", "")

	v.SetDefault("output.sampleformat", "")
	v.SetDefault("output.rate", 0)
	v.SetDefault("output.mono", false)
	v.SetDefault("output.container", "raw")
	v.SetDefault("output.bitdepth", 16)
	v.SetDefault("output.step", 4096)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// New returns a viper instance with defaults and environment bindings.
// Flags can be bound to it before Load reads it.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the configuration with nothing but defaults applied.
func Default() *Config {
	c, err := Load(viper.New(), "")
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads path, when given, into v and returns the validated result.
func Load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Cache.BufferSize < 0 {
		bad("cache.buffersize %d is negative", c.Cache.BufferSize)
	}

	switch audio.ErrorPolicy(c.Decode.ErrorPolicy) {
	case audio.PolicyDrop, audio.PolicyFail:
	default:
		bad("decode.errors %q is neither drop nor fail", c.Decode.ErrorPolicy)
	}
	if c.Decode.Track != "any" {
		if n, err := strconv.Atoi(c.Decode.Track); err != nil || n < 0 {
			bad("decode.track %q is neither any nor an index", c.Decode.Track)
		}
	}

	if c.Output.SampleFormat != "" {
		if _, err := pcm.ParseFormat(c.Output.SampleFormat); err != nil {
			bad("output.sampleformat: %v", err)
		}
	}
	if c.Output.Rate < 0 {
		bad("output.rate %d is negative", c.Output.Rate)
	}
	if c.Output.Step <= 0 {
		bad("output.step %d must be positive", c.Output.Step)
	}
	switch c.Output.Container {
	case "raw":
	case "wav":
		if c.Output.BitDepth != 16 && c.Output.BitDepth != 24 && c.Output.BitDepth != 32 {
			bad("output.bitdepth %d is not 16, 24 or 32", c.Output.BitDepth)
		}
	default:
		bad("output.container %q is neither raw nor wav", c.Output.Container)
	}

	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		bad("log.level %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		bad("log.format %q is neither text nor json", c.Log.Format)
	}

	return errors.Join(errs...)
}

// YAML renders the configuration as a config file.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return out, nil
}

// SourceOptions returns the options of a decode stage reading filename.
func (c *Config) SourceOptions(filename string) audio.Options {
	opts := audio.Options{
		"filename": filename,
		"errors":   c.Decode.ErrorPolicy,
		"track":    c.Decode.Track,
	}
	if c.Decode.Format != "" {
		opts["format"] = c.Decode.Format
	}
	if c.Cache.BufferSize > 0 {
		opts["bufsize"] = strconv.Itoa(c.Cache.BufferSize)
	}
	return opts
}
