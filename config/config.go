// Package config holds the process-wide tuning of the slicer, loadable
// from a yaml file. Values not present in the file keep their defaults.
package config

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type TrimConfig struct {
	FaceSensitivity      float32 `yaml:"face_sensitivity"`
	CornerSensitivity    float32 `yaml:"corner_sensitivity"`
	TranslateSensitivity float32 `yaml:"translate_sensitivity"`
	RotateSensitivity    float32 `yaml:"rotate_sensitivity"`

	BoundaryBand    float32 `yaml:"boundary_band"`
	MinHalfExtent   float32 `yaml:"min_half_extent"`
	LongPressMs     int     `yaml:"long_press_ms"`
	MotionTolerance float32 `yaml:"motion_tolerance"`

	BoxColor   [3]float32 `yaml:"box_color"`
	BoxOpacity float32    `yaml:"box_opacity"`
}

type Config struct {
	Trim TrimConfig `yaml:"trim"`

	Web struct {
		Addr string `yaml:"addr"`
		Dir  string `yaml:"dir"`
	} `yaml:"web"`

	Assets struct {
		Handles string `yaml:"handles"` // gltf file with the handle markers
	} `yaml:"assets"`
}

func Default() Config {
	var c Config
	c.Trim = TrimConfig{
		FaceSensitivity:      0.20,
		CornerSensitivity:    0.15,
		TranslateSensitivity: 0.15,
		RotateSensitivity:    0.80,
		BoundaryBand:         0.05,
		MinHalfExtent:        0.05,
		LongPressMs:          200,
		MotionTolerance:      0.002,
		BoxColor:             [3]float32{1.0, 0.65, 0.0},
		BoxOpacity:           0.25,
	}
	c.Web.Addr = ":8000"
	c.Web.Dir = "web"
	return c
}

var current = Default()

func Current() Config {
	return current
}

func Set(c Config) {
	current = c
}

// Load reads the yaml file on top of the defaults and installs the
// result as the current config.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to read config %q", path)
	}
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return errors.Wrapf(err, "Failed to parse config %q", path)
	}
	current = c
	log.Printf("[config] Loaded %q", path)
	return nil
}
