package vgl

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WindowConfig describes the window a Platform opens.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
	Hidden bool   `yaml:"hidden"` // Offscreen rendering, e.g. captures
}

// ShaderConfig points at shader sources on disk.
// Empty paths select the backend's built-in program.
type ShaderConfig struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

// Config holds the engine settings a Context starts with.
type Config struct {
	Window        WindowConfig   `yaml:"window"`
	BatchCapacity int            `yaml:"batch_capacity"`
	Projection    ProjectionMode `yaml:"projection"`
	Near          float32        `yaml:"near"`
	Far           float32        `yaml:"far"`
	ClearColor    Color          `yaml:"clear_color"`
	Shaders       ShaderConfig   `yaml:"shaders"`
	Verbose       bool           `yaml:"verbose"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  960,
			Height: 544,
			Title:  "vgl",
			VSync:  true,
		},
		BatchCapacity: DefaultBatchCapacity,
		Projection:    ProjectionPerspective,
		Near:          DefaultNear,
		Far:           DefaultFar,
		ClearColor:    Color{0.1, 0.1, 0.12, 1},
	}
}

// LoadConfig reads a YAML config file. Fields absent from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	Logger().Debug("loaded config", "path", path, "projection", cfg.Projection, "capacity", cfg.BatchCapacity)
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.BatchCapacity < 0 {
		errs = append(errs, fmt.Errorf("batch_capacity %d is negative", c.BatchCapacity))
	}
	if c.Projection < ProjectionIdentity || c.Projection > ProjectionPerspective {
		errs = append(errs, fmt.Errorf("invalid projection %d", int(c.Projection)))
	}
	if c.Projection == ProjectionPerspective && (c.Near <= 0 || c.Far <= c.Near) {
		errs = append(errs, fmt.Errorf("perspective near/far %g/%g must satisfy 0 < near < far", c.Near, c.Far))
	}
	if (c.Shaders.Vertex == "") != (c.Shaders.Fragment == "") {
		errs = append(errs, errors.New("shaders: vertex and fragment must be set together"))
	}
	return errors.Join(errs...)
}

// UnmarshalYAML accepts the names produced by String.
func (m *ProjectionMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	mode, err := ParseProjectionMode(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*m = mode
	return nil
}

// MarshalYAML writes the mode by name.
func (m ProjectionMode) MarshalYAML() (any, error) {
	return m.String(), nil
}
