package config

import (
	"bytes"
	"io"
	"os"

	"github.com/Espyo/Pikifen-sub020/geometry"
	"github.com/Espyo/Pikifen-sub020/spatial"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Geometry GeometryConfig `yaml:"geometry"`
	Index    IndexConfig    `yaml:"index"`
	Log      LogConfig      `yaml:"log"`
}

type GeometryConfig struct {
	PositionEpsilon float64 `yaml:"position_epsilon"`
	AngleEpsilon    float64 `yaml:"angle_epsilon"`
	Workers         int     `yaml:"workers"`
}

// IndexConfig picks the "find sector at point" index: grid, rtree or linear.
type IndexConfig struct {
	Kind     string  `yaml:"kind"`
	CellSize float64 `yaml:"cell_size"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
	// Rotated log file; empty disables it.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func Default() *Config {
	opts := geometry.DefaultOptions()
	return &Config{
		Geometry: GeometryConfig{
			PositionEpsilon: opts.PositionEpsilon,
			AngleEpsilon:    opts.AngleEpsilon,
			Workers:         opts.Workers,
		},
		Index: IndexConfig{
			Kind:     spatial.KindGrid,
			CellSize: spatial.GridCellSize,
		},
		Log: LogConfig{
			Level:      "info",
			Console:    true,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Load reads a YAML config; keys it leaves out keep their defaults.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Load(bytes.NewReader(data))
	return cfg, errors.Wrapf(err, "config %s", path)
}

func (c *Config) Validate() error {
	var err error
	if c.Geometry.PositionEpsilon < 0 {
		err = multierr.Append(err, errors.Errorf("geometry.position_epsilon must not be negative, got %g", c.Geometry.PositionEpsilon))
	}
	if c.Geometry.AngleEpsilon < 0 {
		err = multierr.Append(err, errors.Errorf("geometry.angle_epsilon must not be negative, got %g", c.Geometry.AngleEpsilon))
	}
	if c.Geometry.Workers < 0 {
		err = multierr.Append(err, errors.Errorf("geometry.workers must not be negative, got %d", c.Geometry.Workers))
	}
	switch c.Index.Kind {
	case spatial.KindGrid, spatial.KindRTree, spatial.KindLinear:
	default:
		err = multierr.Append(err, errors.Errorf("index.kind %q is not grid, rtree or linear", c.Index.Kind))
	}
	if c.Index.Kind == spatial.KindGrid && c.Index.CellSize <= 0 {
		err = multierr.Append(err, errors.Errorf("index.cell_size must be positive, got %g", c.Index.CellSize))
	}
	if _, lerr := parseLevel(c.Log.Level); lerr != nil {
		err = multierr.Append(err, lerr)
	}
	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		err = multierr.Append(err, errors.Errorf("log.max_size_mb must be positive, got %d", c.Log.MaxSizeMB))
	}
	return err
}

func (c *Config) TriangulatorOptions() geometry.Options {
	return geometry.Options{
		PositionEpsilon: c.Geometry.PositionEpsilon,
		AngleEpsilon:    c.Geometry.AngleEpsilon,
		Workers:         c.Geometry.Workers,
	}
}

func (c *Config) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "write config")
	}
	return errors.Wrap(enc.Close(), "write config")
}
