// Package config loads snowdrive settings from defaults, an optional config
// file and SNOWDRIVE_* environment variables, in that order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/teslashibe/go-snowdrive/pkg/input"
	"github.com/teslashibe/go-snowdrive/pkg/sim"
	"github.com/teslashibe/go-snowdrive/pkg/vehicle"
	"github.com/teslashibe/go-snowdrive/pkg/web"
)

// EnvPrefix is prepended to every environment override, e.g.
// SNOWDRIVE_VEHICLE_ENGINE_MAX_FORWARD_KMH=90.
const EnvPrefix = "SNOWDRIVE"

// ErrUnknownPreset is returned for a preset name that does not exist.
var ErrUnknownPreset = errors.New("config: unknown preset")

// Settings is everything a snowdrive command can be configured with.
type Settings struct {
	LogLevel     string `mapstructure:"log_level" json:"log_level"`
	Debug        bool   `mapstructure:"debug" json:"debug"`
	DebugPhysics bool   `mapstructure:"debug_physics" json:"debug_physics"`

	// Preset picks the base tuning: "default" or "arcade".
	Preset   string `mapstructure:"preset" json:"preset"`
	Scenario string `mapstructure:"scenario" json:"scenario"`

	Input     input.Config   `mapstructure:"input" json:"input"`
	Vehicle   vehicle.Config `mapstructure:"vehicle" json:"vehicle"`
	Sim       sim.Config     `mapstructure:"sim" json:"sim"`
	Dashboard web.Config     `mapstructure:"dashboard" json:"dashboard"`
}

// Defaults returns the settings for a preset.
func Defaults(preset string) (Settings, error) {
	s := Settings{
		LogLevel:  "info",
		Preset:    preset,
		Scenario:  "idle 1s; throttle 5s; reverse 3s; drift+throttle+right 4s; brake 2s",
		Input:     input.DefaultConfig(),
		Vehicle:   vehicle.DefaultConfig(),
		Sim:       sim.DefaultConfig(),
		Dashboard: web.DefaultConfig(),
	}
	switch preset {
	case "", "default":
		s.Preset = "default"
	case "arcade":
		s.Vehicle = vehicle.ArcadeConfig()
	case "gentle":
		s.Input = input.GentleConfig()
	default:
		return Settings{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
	return s, nil
}

// Load reads settings. path may be empty to skip the config file; its
// extension (json, yaml, toml) selects the format.
func Load(path string) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	defaults, err := Defaults(v.GetString("preset"))
	if err != nil {
		return Settings{}, err
	}
	if err := setDefaults(v, defaults); err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// setDefaults registers every field of d so that env overrides are seen for
// keys the config file does not mention.
func setDefaults(v *viper.Viper, d Settings) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for _, key := range flatten("", m) {
		v.SetDefault(key.name, key.value)
	}
	return nil
}

type entry struct {
	name  string
	value any
}

func flatten(prefix string, m map[string]any) []entry {
	var out []entry
	for k, val := range m {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			out = append(out, flatten(name, sub)...)
			continue
		}
		out = append(out, entry{name: name, value: val})
	}
	return out
}

// Validate checks every section.
func (s Settings) Validate() error {
	return errors.Join(
		s.Input.Validate(),
		s.Vehicle.Validate(),
		s.Sim.Validate(),
	)
}
