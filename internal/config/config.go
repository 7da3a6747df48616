package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/facade"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "SORA_"

// Config holds every soracore setting.
type Config struct {
	Log    LogConfig    `toml:"log" yaml:"log" json:"log" envPrefix:"LOG_"`
	Events EventsConfig `toml:"events" yaml:"events" json:"events" envPrefix:"EVENTS_"`
	Audio  AudioConfig  `toml:"audio" yaml:"audio" json:"audio" envPrefix:"AUDIO_"`
	Level  LevelConfig  `toml:"level" yaml:"level" json:"level" envPrefix:"LEVEL_"`
	Prefs  PrefsConfig  `toml:"prefs" yaml:"prefs" json:"prefs" envPrefix:"PREFS_"`
	HTTP   HTTPConfig   `toml:"http" yaml:"http" json:"http" envPrefix:"HTTP_"`

	// Policies maps operation names to facade policy names.
	Policies map[string]string `toml:"policies" yaml:"policies" json:"policies" env:"POLICIES"`

	// Scripts are Lua files run at boot.
	Scripts []string `toml:"scripts" yaml:"scripts" json:"scripts" env:"SCRIPTS"`
}

// LogConfig configures the diagnostic sink.
type LogConfig struct {
	// Level is the minimum reported level: debug, info, warn or error.
	Level string `toml:"level" yaml:"level" json:"level" env:"LEVEL"`
	// Format is auto, console or json. Auto picks console on a terminal.
	Format string `toml:"format" yaml:"format" json:"format" env:"FORMAT"`
}

// EventsConfig configures event channels.
type EventsConfig struct {
	// Isolate recovers listener panics.
	Isolate bool `toml:"isolate" yaml:"isolate" json:"isolate" env:"ISOLATE"`
}

// AudioConfig configures the audio facility.
type AudioConfig struct {
	// Multiplier scales log10(volume) into mixer decibels.
	Multiplier float64 `toml:"multiplier" yaml:"multiplier" json:"multiplier" env:"MULTIPLIER"`
	// Groups are the mixer groups whose volume is persisted.
	Groups []string `toml:"groups" yaml:"groups" json:"groups" env:"GROUPS"`
}

// LevelConfig configures the level facility.
type LevelConfig struct {
	// Start is loaded by Hub.Boot. Empty skips the initial load.
	Start string `toml:"start" yaml:"start" json:"start" env:"START"`
	// ShowLoadingScreen shows the load screen during the initial load.
	ShowLoadingScreen bool `toml:"show_loading_screen" yaml:"show_loading_screen" json:"show_loading_screen" env:"SHOW_LOADING_SCREEN"`
}

// PrefsConfig configures persisted preferences.
type PrefsConfig struct {
	// Path is the preferences file. Empty keeps preferences in memory.
	Path string `toml:"path" yaml:"path" json:"path" env:"PATH"`
}

// HTTPConfig configures the debug HTTP surface.
type HTTPConfig struct {
	Addr string `toml:"addr" yaml:"addr" json:"addr" env:"ADDR"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Events: EventsConfig{
			Isolate: true,
		},
		Audio: AudioConfig{
			Multiplier: 30,
			Groups:     []string{"master", "music", "sfx"},
		},
		Level: LevelConfig{
			ShowLoadingScreen: true,
		},
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:7070",
		},
		Policies: map[string]string{
			"audio.play_music": "latest",
			"audio.set_volume": "latest",
			"ui.show_screen":   "latest",
			"level.load":       "exclusive",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// The format is chosen by extension: .toml, .yaml/.yml or .json.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, ErrEmptyPath
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := decode(path, b, &cfg); err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(path string, b []byte, cfg *Config) error {
	// Decode into a copy so a half-parsed file does not leak into cfg.
	next := *cfg
	next.Policies = maps.Clone(cfg.Policies)
	next.Audio.Groups = slices.Clone(cfg.Audio.Groups)
	next.Scripts = slices.Clone(cfg.Scripts)

	var (
		format string
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		format = "toml"
		err = toml.Unmarshal(b, &next)
	case ".yaml", ".yml":
		format = "yaml"
		err = yaml.Unmarshal(b, &next)
	case ".json":
		format = "json"
		err = json.Unmarshal(b, &next)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return &ParseError{Path: path, Format: format, Err: err}
	}
	*cfg = next
	return nil
}

// ApplyEnv overrides cfg with SORA_* environment variables. Unset variables
// leave the current values alone.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Validate reports every invalid setting, joined.
func (c Config) Validate() error {
	var errs []error
	if _, err := diag.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, &ValidationError{Field: "log.level", Value: c.Log.Level, Message: "unknown level"})
	}
	switch c.Log.Format {
	case "", "auto", "console", "json":
	default:
		errs = append(errs, &ValidationError{Field: "log.format", Value: c.Log.Format, Message: "want auto, console or json"})
	}
	if c.Audio.Multiplier <= 0 {
		errs = append(errs, &ValidationError{Field: "audio.multiplier", Value: c.Audio.Multiplier, Message: "must be positive"})
	}
	for op, name := range c.Policies {
		if _, err := facade.ParsePolicy(name); err != nil {
			errs = append(errs, &ValidationError{Field: "policies." + op, Value: name, Message: "unknown policy"})
		}
	}
	return errors.Join(errs...)
}

// LogLevel returns the parsed log level, defaulting to info.
func (c Config) LogLevel() diag.Level {
	l, _ := diag.ParseLevel(c.Log.Level)
	return l
}

// FacadePolicies returns the parsed policy overrides. Invalid names are
// skipped; Validate reports them.
func (c Config) FacadePolicies() map[string]facade.Policy {
	out := make(map[string]facade.Policy, len(c.Policies))
	for op, name := range c.Policies {
		if p, err := facade.ParsePolicy(name); err == nil {
			out[op] = p
		}
	}
	return out
}
