// Package config loads the engine tunables from YAML, TOML or JSON files and
// from command-line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/eventdeck/pkg/analyzer"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/gesture"
	"github.com/aretw0/eventdeck/pkg/orbit"
	"github.com/aretw0/eventdeck/pkg/pin"
)

// Config is the full set of engine tunables.
type Config struct {
	Gesture  Gesture  `yaml:"gesture" toml:"gesture" json:"gesture" mapstructure:"gesture"`
	Pin      Pin      `yaml:"pin" toml:"pin" json:"pin" mapstructure:"pin"`
	Orbit    Orbit    `yaml:"orbit" toml:"orbit" json:"orbit" mapstructure:"orbit"`
	Deck     Deck     `yaml:"deck" toml:"deck" json:"deck" mapstructure:"deck"`
	Analyzer Analyzer `yaml:"analyzer" toml:"analyzer" json:"analyzer" mapstructure:"analyzer"`
}

// Gesture configures card controllers.
type Gesture struct {
	Threshold      float64       `yaml:"threshold" toml:"threshold" json:"threshold" mapstructure:"threshold"`
	SkipThreshold  float64       `yaml:"skip_threshold,omitempty" toml:"skip_threshold,omitempty" json:"skip_threshold,omitempty" mapstructure:"skip_threshold"`
	ScreenWidth    float64       `yaml:"screen_width" toml:"screen_width" json:"screen_width" mapstructure:"screen_width"`
	CommitDuration time.Duration `yaml:"commit_duration" toml:"commit_duration" json:"commit_duration" mapstructure:"commit_duration"`
	MaxSettle      time.Duration `yaml:"max_settle" toml:"max_settle" json:"max_settle" mapstructure:"max_settle"`
}

// Pin configures the decoration choreography.
type Pin struct {
	FlipDuration time.Duration `yaml:"flip_duration" toml:"flip_duration" json:"flip_duration" mapstructure:"flip_duration"`
	Base         float64       `yaml:"base" toml:"base" json:"base" mapstructure:"base"`
	Stride       float64       `yaml:"stride" toml:"stride" json:"stride" mapstructure:"stride"`
	BobAmplitude float64       `yaml:"bob_amplitude" toml:"bob_amplitude" json:"bob_amplitude" mapstructure:"bob_amplitude"`
	BobCycles    int           `yaml:"bob_cycles" toml:"bob_cycles" json:"bob_cycles" mapstructure:"bob_cycles"`
	SnapTimeout  time.Duration `yaml:"snap_timeout" toml:"snap_timeout" json:"snap_timeout" mapstructure:"snap_timeout"`
}

// Orbit configures the member orbit.
type Orbit struct {
	RadiusX    float64       `yaml:"radius_x" toml:"radius_x" json:"radius_x" mapstructure:"radius_x"`
	RadiusY    float64       `yaml:"radius_y" toml:"radius_y" json:"radius_y" mapstructure:"radius_y"`
	AvatarSize float64       `yaml:"avatar_size" toml:"avatar_size" json:"avatar_size" mapstructure:"avatar_size"`
	Period     time.Duration `yaml:"period" toml:"period" json:"period" mapstructure:"period"`
	EntryStep  time.Duration `yaml:"entry_step" toml:"entry_step" json:"entry_step" mapstructure:"entry_step"`
	EntryTail  time.Duration `yaml:"entry_tail" toml:"entry_tail" json:"entry_tail" mapstructure:"entry_tail"`
}

// Deck configures the swipe stack host.
type Deck struct {
	Mode          domain.FeedMode `yaml:"mode" toml:"mode" json:"mode" mapstructure:"mode"`
	BannerMessage string          `yaml:"banner_message,omitempty" toml:"banner_message,omitempty" json:"banner_message,omitempty" mapstructure:"banner_message"`
	Session       string          `yaml:"session,omitempty" toml:"session,omitempty" json:"session,omitempty" mapstructure:"session"`
	// Cards is the path of a YAML or JSON card list, keyed by feed mode.
	Cards string `yaml:"cards,omitempty" toml:"cards,omitempty" json:"cards,omitempty" mapstructure:"cards"`
}

// Analyzer configures the image-analysis client.
type Analyzer struct {
	BaseURL        string        `yaml:"base_url" toml:"base_url" json:"base_url" mapstructure:"base_url"`
	AnalyzeTimeout time.Duration `yaml:"analyze_timeout" toml:"analyze_timeout" json:"analyze_timeout" mapstructure:"analyze_timeout"`
	HealthTimeout  time.Duration `yaml:"health_timeout" toml:"health_timeout" json:"health_timeout" mapstructure:"health_timeout"`
	// Contract enables OpenAPI validation of requests and responses.
	Contract bool `yaml:"contract" toml:"contract" json:"contract" mapstructure:"contract"`
}

// Default returns the stock configuration.
func Default() Config {
	g := gesture.DefaultConfig()
	p := pin.DefaultConfig()
	o := orbit.DefaultConfig()
	return Config{
		Gesture: Gesture{
			Threshold:      g.Threshold,
			ScreenWidth:    g.ScreenWidth,
			CommitDuration: g.CommitDuration,
			MaxSettle:      g.MaxSettle,
		},
		Pin: Pin{
			FlipDuration: p.FlipDuration,
			Base:         p.Base,
			Stride:       p.Stride,
			BobAmplitude: p.BobAmplitude,
			BobCycles:    p.BobCycles,
			SnapTimeout:  p.SnapTimeout,
		},
		Orbit: Orbit{
			RadiusX:    o.RadiusX,
			RadiusY:    o.RadiusY,
			AvatarSize: o.AvatarSize,
			Period:     o.Period,
			EntryStep:  o.EntryStep,
			EntryTail:  o.EntryTail,
		},
		Deck: Deck{
			Mode: domain.FeedModeEvents,
		},
		Analyzer: Analyzer{
			BaseURL:        analyzer.DefaultBaseURL,
			AnalyzeTimeout: analyzer.DefaultAnalyzeTimeout,
			HealthTimeout:  analyzer.DefaultHealthTimeout,
			Contract:       true,
		},
	}
}

// GestureConfig converts to the controller config.
func (c Config) GestureConfig() gesture.Config {
	cfg := gesture.DefaultConfig()
	cfg.Threshold = c.Gesture.Threshold
	cfg.SkipThreshold = c.Gesture.SkipThreshold
	cfg.ScreenWidth = c.Gesture.ScreenWidth
	cfg.CommitDuration = c.Gesture.CommitDuration
	cfg.MaxSettle = c.Gesture.MaxSettle
	return cfg
}

// PinConfig converts to the sequencer config.
func (c Config) PinConfig() pin.Config {
	return pin.Config{
		FlipDuration: c.Pin.FlipDuration,
		Base:         c.Pin.Base,
		Stride:       c.Pin.Stride,
		BobAmplitude: c.Pin.BobAmplitude,
		BobCycles:    c.Pin.BobCycles,
		SnapTimeout:  c.Pin.SnapTimeout,
	}
}

// OrbitConfig converts to the animator config.
func (c Config) OrbitConfig() orbit.Config {
	return orbit.Config{
		RadiusX:    c.Orbit.RadiusX,
		RadiusY:    c.Orbit.RadiusY,
		AvatarSize: c.Orbit.AvatarSize,
		Period:     c.Orbit.Period,
		EntryStep:  c.Orbit.EntryStep,
		EntryTail:  c.Orbit.EntryTail,
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if err := c.GestureConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("gesture: %w", err))
	}
	if err := c.PinConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pin: %w", err))
	}
	if err := c.OrbitConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("orbit: %w", err))
	}
	if !c.Deck.Mode.Valid() {
		errs = append(errs, fmt.Errorf("deck.mode: unknown feed mode %q", c.Deck.Mode))
	}
	if c.Analyzer.AnalyzeTimeout <= 0 || c.Analyzer.HealthTimeout <= 0 {
		errs = append(errs, errors.New("analyzer: timeouts must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads the file at path over the defaults. The decoder is chosen by
// extension. An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw, err := unmarshal(filepath.Ext(path), data)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func unmarshal(ext string, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	return raw, nil
}

// ApplyOverrides decodes dotted keys (gesture.threshold) over the config.
// Values may be strings; they are converted to the field type.
func (c *Config) ApplyOverrides(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	nested := map[string]any{}
	for key, value := range overrides {
		parts := strings.Split(key, ".")
		m := nested
		for _, p := range parts[:len(parts)-1] {
			child, ok := m[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				m[p] = child
			}
			m = child
		}
		m[parts[len(parts)-1]] = value
	}
	if err := decode(nested, c); err != nil {
		return fmt.Errorf("invalid override: %w", err)
	}
	return nil
}

// ParseOverrides turns key=value pairs into an override map.
func ParseOverrides(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("override %q must be key=value", pair)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

func decode(input map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
