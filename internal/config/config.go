// Package config loads the optional arbor.toml file read by the CLI.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "arbor.toml"

// Duration lets TOML carry Go duration strings ("250ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the CLI configuration. Zero values mean "not set"; flags override
// whatever the file provides.
type Config struct {
	Run   RunConfig   `toml:"run"`
	Log   LogConfig   `toml:"log"`
	HTTP  HTTPConfig  `toml:"http"`
	Redis RedisConfig `toml:"redis"`
	Lock  LockConfig  `toml:"lock"`
	Trace TraceConfig `toml:"trace"`
}

type RunConfig struct {
	Period   Duration `toml:"period"`
	MaxTicks uint64   `toml:"max_ticks"`
	Rearm    bool     `toml:"rearm"`
	MaxRuns  int      `toml:"max_runs"`
	// Processes is the allow-list file for RunProcess nodes.
	Processes string `toml:"processes"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type HTTPConfig struct {
	Addr string `toml:"addr"`
}

// RedisConfig enables the transition stream when Addr is set. Lock switches the
// tree lock from a lock file to a Redis lease.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Stream     string `toml:"stream"`
	MaxLen     int64  `toml:"max_len"`
	Lock       bool   `toml:"lock"`
	LockPrefix string `toml:"lock_prefix"`
}

type LockConfig struct {
	Dir string `toml:"dir"`
}

type TraceConfig struct {
	File   string `toml:"file"`
	Format string `toml:"format"` // "json" or "chrome"
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Run:   RunConfig{Period: Duration{10 * time.Millisecond}},
		Log:   LogConfig{Level: "info", Format: "text"},
		Redis: RedisConfig{Stream: "arbor:transitions", LockPrefix: "arbor:lock:"},
		Trace: TraceConfig{Format: "json"},
	}
}

// Load reads path on top of Default. An empty path tries DefaultFile and
// silently falls back to the defaults when it does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data, cfg)
}

// Parse decodes TOML content over base.
func Parse(data []byte, base Config) (Config, error) {
	md, err := toml.Decode(string(data), &base)
	if err != nil {
		return base, fmt.Errorf("parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return base, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return base, base.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Run.Period.Duration < 0 {
		return fmt.Errorf("run.period must not be negative")
	}
	if c.Run.MaxRuns < 0 {
		return fmt.Errorf("run.max_runs must not be negative")
	}
	switch c.Trace.Format {
	case "", "json", "chrome":
	default:
		return fmt.Errorf("invalid trace.format %q (must be json or chrome)", c.Trace.Format)
	}
	return nil
}
