// Package config loads game settings from YAML. A default file is embedded;
// a user file only needs the keys it changes.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/suika/game"
	"github.com/plus3/suika/physics"
	"github.com/plus3/suika/rank"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Config struct {
	Seed      string          `yaml:"seed"`
	Container ContainerConfig `yaml:"container"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Policy    PolicyConfig    `yaml:"policy"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Window    WindowConfig    `yaml:"window"`
	Log       LogConfig       `yaml:"log"`
	Ranks     []RankConfig    `yaml:"ranks"`
}

type ContainerConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	FloorThickness float64 `yaml:"floor_thickness"`
	WallThickness  float64 `yaml:"wall_thickness"`
	CeilingY       float64 `yaml:"ceiling_y"`
	DropY          float64 `yaml:"drop_y"`
}

type SpawnConfig struct {
	Droppable int `yaml:"droppable"`
}

const (
	PolicyCeiling = "ceiling"
	PolicyCull    = "cull"
)

type PolicyConfig struct {
	Kind      string        `yaml:"kind"`
	Grace     time.Duration `yaml:"grace"`
	Threshold int           `yaml:"threshold"`
	Interval  time.Duration `yaml:"interval"`
}

type PhysicsConfig struct {
	Gravity         float64 `yaml:"gravity"`
	SubSteps        int     `yaml:"sub_steps"`
	Iterations      int     `yaml:"iterations"`
	ContactSlop     float64 `yaml:"contact_slop"`
	AirDamping      float64 `yaml:"air_damping"`
	BounceThreshold float64 `yaml:"bounce_threshold"`
}

type WindowConfig struct {
	TPS   int     `yaml:"tps"`
	Scale float64 `yaml:"scale"`
	Debug bool    `yaml:"debug"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type RankConfig struct {
	Name   string  `yaml:"name"`
	Radius float64 `yaml:"radius"`
	Scale  float64 `yaml:"scale"`
	Asset  string  `yaml:"asset"`
	Points int     `yaml:"points"`
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded config is invalid: %v", err))
	}
	return cfg
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data on top of the embedded defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse default config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	ct := c.Container
	if ct.Width <= 2*ct.WallThickness || ct.Height <= ct.FloorThickness {
		errs = append(errs, errors.New("container is smaller than its walls"))
	}
	if ct.WallThickness <= 0 || ct.FloorThickness <= 0 {
		errs = append(errs, errors.New("wall and floor thickness must be positive"))
	}
	if ct.CeilingY <= 0 || ct.CeilingY >= ct.Height-ct.FloorThickness {
		errs = append(errs, fmt.Errorf("ceiling_y %v must lie inside the container", ct.CeilingY))
	}

	table, err := c.Table()
	if err != nil {
		errs = append(errs, err)
	} else if c.Spawn.Droppable <= 0 || c.Spawn.Droppable > table.Count() {
		errs = append(errs, fmt.Errorf("droppable %d must be in [1, %d]", c.Spawn.Droppable, table.Count()))
	}

	switch c.Policy.Kind {
	case PolicyCeiling:
		if c.Policy.Grace <= 0 {
			errs = append(errs, errors.New("ceiling policy needs a positive grace"))
		}
	case PolicyCull:
		if c.Policy.Interval <= 0 || c.Policy.Threshold <= 0 {
			errs = append(errs, errors.New("cull policy needs a positive interval and threshold"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown policy kind %q", c.Policy.Kind))
	}

	if c.Physics.SubSteps <= 0 || c.Physics.Iterations <= 0 {
		errs = append(errs, errors.New("physics sub_steps and iterations must be positive"))
	}
	if c.Window.TPS <= 0 || c.Window.Scale <= 0 {
		errs = append(errs, errors.New("window tps and scale must be positive"))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Table builds the rank table, falling back to the built-in fruits.
func (c *Config) Table() (*rank.Table, error) {
	if len(c.Ranks) == 0 {
		return rank.Default(), nil
	}

	descs := make([]rank.Descriptor, len(c.Ranks))
	for i, rc := range c.Ranks {
		scale := rc.Scale
		if scale == 0 {
			scale = 1
		}
		descs[i] = rank.Descriptor{
			Rank:   rank.Rank(i),
			Name:   rc.Name,
			Radius: rc.Radius,
			Scale:  scale,
			Asset:  rc.Asset,
			Points: rc.Points,
		}
	}

	table, err := rank.NewTable(descs)
	if err != nil {
		return nil, fmt.Errorf("invalid ranks: %w", err)
	}
	return table, nil
}

// Rand returns the spawn queue's random source. The same seed phrase always
// yields the same sequence.
func (c *Config) Rand() *rand.Rand {
	if c.Seed == "" {
		now := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(now, xxh3.HashString(fmt.Sprint(now))))
	}
	return rand.New(rand.NewPCG(xxh3.HashString(c.Seed), xxh3.HashString(c.Seed+"/stream")))
}

func (c *Config) NewPolicy() game.Policy {
	if c.Policy.Kind == PolicyCull {
		return &game.OverflowCull{Threshold: c.Policy.Threshold, Interval: c.Policy.Interval}
	}
	return game.NewCeilingSensor(c.Policy.Grace)
}

func (c *Config) GameContainer() game.Container {
	return game.Container{
		Width:          c.Container.Width,
		Height:         c.Container.Height,
		FloorThickness: c.Container.FloorThickness,
		WallThickness:  c.Container.WallThickness,
		CeilingY:       c.Container.CeilingY,
		DropY:          c.Container.DropY,
	}
}

func (c *Config) SimConfig() physics.SimConfig {
	return physics.SimConfig{
		Gravity:         mgl64.Vec2{0, c.Physics.Gravity},
		SubSteps:        c.Physics.SubSteps,
		Iterations:      c.Physics.Iterations,
		ContactSlop:     c.Physics.ContactSlop,
		AirDamping:      c.Physics.AirDamping,
		BounceThreshold: c.Physics.BounceThreshold,
	}
}

// GameOptions assembles everything game.New needs except the clock.
func (c *Config) GameOptions(logger *slog.Logger) (game.Options, error) {
	table, err := c.Table()
	if err != nil {
		return game.Options{}, err
	}
	return game.Options{
		Table:     table,
		Container: c.GameContainer(),
		Droppable: c.Spawn.Droppable,
		Policy:    c.NewPolicy(),
		Rand:      c.Rand(),
		Logger:    logger,
	}, nil
}

func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}
