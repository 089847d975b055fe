// Package config loads herocc settings from an optional TOML or YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"herocc/pkg/compiler"
)

// Tape holds the sizes baked into the generated C.
type Tape struct {
	Size        int `toml:"size" yaml:"size"`
	InputBuffer int `toml:"input_buffer" yaml:"input_buffer"`
	ArraySize   int `toml:"array_size" yaml:"array_size"`
}

// Backend configures the external C compiler step. An empty Compilers list
// leaves the driver's default probe order in place.
type Backend struct {
	Compilers []string `toml:"compilers" yaml:"compilers"`
	KeepC     bool     `toml:"keep_c" yaml:"keep_c"`
}

// Config is the full herocc configuration file.
type Config struct {
	Tape    Tape    `toml:"tape" yaml:"tape"`
	Backend Backend `toml:"backend" yaml:"backend"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Tape: Tape{Size: 30000, InputBuffer: 1024, ArraySize: 1024},
	}
}

// discoverNames are tried in order when no config path is given.
var discoverNames = []string{"herocc.toml", "herocc.yaml", "herocc.yml"}

// Load reads one configuration file, picking the decoder from its extension.
// Keys the file leaves out keep their default values.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config file %s: unsupported extension %q (want .toml, .yaml or .yml)", path, ext)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Discover looks for herocc.toml, herocc.yaml or herocc.yml in dir and loads
// the first one found. A directory without any is not an error; the defaults
// come back instead.
func Discover(dir string) (*Config, error) {
	for _, name := range discoverNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return Load(path)
		}
	}
	return Default(), nil
}

func (c *Config) validate() error {
	if c.Tape.Size <= 0 {
		return fmt.Errorf("tape size must be positive, got %d", c.Tape.Size)
	}
	if c.Tape.InputBuffer <= 0 {
		return fmt.Errorf("input buffer size must be positive, got %d", c.Tape.InputBuffer)
	}
	if c.Tape.ArraySize <= 0 {
		return fmt.Errorf("default array size must be positive, got %d", c.Tape.ArraySize)
	}
	for i, name := range c.Backend.Compilers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("backend compiler entry %d is empty", i+1)
		}
	}
	return nil
}

// Options maps the tape settings onto the compiler pipeline.
func (c *Config) Options() compiler.Options {
	return compiler.Options{
		TapeSize:    c.Tape.Size,
		InputBuffer: c.Tape.InputBuffer,
		ArraySize:   c.Tape.ArraySize,
	}
}
