// Package config loads the engine settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/ddvk/kanahwr/classifier"
	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/log"
	"github.com/ddvk/kanahwr/raster"
)

const (
	EnvConfig = "KANAHWR_CONFIG"
	EnvData   = "KANAHWR_DATA"
	EnvPort   = "KANAHWR_PORT"

	appName  = "kanahwr"
	fileName = "config.yaml"
)

type Config struct {
	DataDir    string `yaml:"data_dir"`
	WeightsDir string `yaml:"weights_dir,omitempty"`
	ScratchDir string `yaml:"scratch_dir,omitempty"`

	HiddenNodes  int     `yaml:"hidden_nodes"`
	LearningRate float64 `yaml:"learning_rate"`
	Epochs       int     `yaml:"epochs"`
	// Seed of the weight initialisation, the clock if 0.
	Seed int64 `yaml:"seed"`

	GridSize int `yaml:"grid_size"`
	// FixedDivisor replaces the block area in the reduction, 0 to disable.
	// Defaults to the divisor the existing weights were trained with.
	FixedDivisor int `yaml:"fixed_divisor"`

	Port     int `yaml:"port"`
	Workers  int `yaml:"workers"`
	MaxShift int `yaml:"max_shift"`
}

// Defaults without any directory.
func Defaults() Config {
	return Config{
		HiddenNodes:  classifier.DefaultHidden,
		LearningRate: classifier.DefaultLearningRate,
		Epochs:       4,
		GridSize:     raster.GridSize,
		FixedDivisor: raster.LegacyDivisor,
		Port:         8080,
		Workers:      4,
		MaxShift:     4,
	}
}

// Load reads the file at path. With an empty path it tries $KANAHWR_CONFIG
// and then the user config dir, where a missing file just means defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.Wrapf(err, "can't parse %s", path)
			}
			log.Trace.Printf("config loaded from %s", path)
		case os.IsNotExist(err) && !explicit:
			log.Trace.Printf("no config at %s, using defaults", path)
		default:
			return cfg, errors.Wrap(err, "can't read config")
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.fillDirs(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if dir := os.Getenv(EnvData); dir != "" {
		c.DataDir = dir
	}
	if port := os.Getenv(EnvPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("config: %s=%q is not a port", EnvPort, port)
		}
		c.Port = p
	}
	return nil
}

func (c *Config) fillDirs() error {
	if c.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return err
		}
		c.DataDir = dir
	}
	if c.WeightsDir == "" {
		c.WeightsDir = c.DataDir
	}
	if c.ScratchDir == "" {
		c.ScratchDir = filepath.Join(c.DataDir, "scratch")
	}
	return nil
}

// Validate rejects settings no network or server can run with.
func (c Config) Validate() error {
	switch {
	case c.HiddenNodes < 1:
		return fmt.Errorf("config: hidden_nodes %d", c.HiddenNodes)
	case c.LearningRate <= 0 || c.LearningRate >= 1:
		return fmt.Errorf("config: learning_rate %v not in (0,1)", c.LearningRate)
	case c.Epochs < 1:
		return fmt.Errorf("config: epochs %d", c.Epochs)
	case c.GridSize != raster.GridSize:
		// records and networks are fixed at raster.Features inputs
		return fmt.Errorf("config: grid_size %d, only %d is supported", c.GridSize, raster.GridSize)
	case c.FixedDivisor < 0:
		return fmt.Errorf("config: fixed_divisor %d", c.FixedDivisor)
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("config: port %d", c.Port)
	case c.Workers < 1:
		return fmt.Errorf("config: workers %d", c.Workers)
	}
	return nil
}

// Save writes the settings as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "can't create config dir")
	}
	return os.WriteFile(path, data, 0600)
}

// DefaultPath is config.yaml in the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return path.Join(dir, appName, fileName), nil
}

// defaultDataDir is the user cache dir, or a dot dir in home when there is
// no usable cache dir.
func defaultDataDir() (string, error) {
	cachedir, err := os.UserCacheDir()
	if err == nil {
		dir := path.Join(cachedir, appName)
		if err = os.MkdirAll(dir, 0700); err == nil {
			return dir, nil
		}
	}

	home, herr := os.UserHomeDir()
	if herr != nil {
		return "", errors.Wrap(err, "no cache or home dir")
	}
	dir := path.Join(home, "."+appName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// Store opens the record and weight files.
func (c Config) Store() *dataset.Store {
	return dataset.NewStore(c.DataDir, c.WeightsDir)
}

// Scratch opens the per-user drawings.
func (c Config) Scratch() *dataset.Scratch {
	return &dataset.Scratch{Dir: c.ScratchDir}
}

// Network is the classifier configuration; the stroke is set by the user.
func (c Config) Network() classifier.Config {
	return classifier.Config{
		InputNodes:   c.GridSize * c.GridSize,
		HiddenNodes:  c.HiddenNodes,
		LearningRate: c.LearningRate,
	}
}

// Raster is the reduction applied to canvas captures.
func (c Config) Raster() raster.Options {
	return raster.Options{GridSize: c.GridSize, FixedDivisor: c.FixedDivisor}
}
