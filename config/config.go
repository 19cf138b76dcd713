// Package config loads hkast settings from a TOML or YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvVar names a config file to use when none is given explicitly.
const EnvVar = "HKAST_CONFIG"

// Format is the syntax of a configuration file.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

type Config struct {
	Parse  ParseConfig  `toml:"parse" yaml:"parse"`
	Output OutputConfig `toml:"output" yaml:"output"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	LSP    LSPConfig    `toml:"lsp" yaml:"lsp"`
	REPL   REPLConfig   `toml:"repl" yaml:"repl"`

	path string
}

type ParseConfig struct {
	Recover   bool `toml:"recover" yaml:"recover"`
	MaxErrors int  `toml:"max_errors" yaml:"max_errors"`
	Jobs      int  `toml:"jobs" yaml:"jobs"`
}

type OutputConfig struct {
	// Format is json, tree, infix or lines.
	Format string `toml:"format" yaml:"format"`
	// Color is auto, always or never.
	Color string `toml:"color" yaml:"color"`
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity" yaml:"verbosity"`
	File      string `toml:"file" yaml:"file"`
}

type LSPConfig struct {
	Name string `toml:"name" yaml:"name"`
}

type REPLConfig struct {
	Prompt      string `toml:"prompt" yaml:"prompt"`
	HistoryFile string `toml:"history_file" yaml:"history_file"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.expandEnvVars()
	return cfg
}

// Load reads the file at path. The format is taken from the extension:
// .yaml and .yml are YAML, anything else is TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := LoadBytes(content, detectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// LoadBytes parses content in the given format. Unknown keys are an
// error.
func LoadBytes(content []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(content), &cfg)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by HKAST_CONFIG, then the first of
// ./hkast.toml, ./hkast.yaml and ~/.config/hkast/config.toml that exists.
// When there is none it returns Default.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	candidates := []string{"hkast.toml", "hkast.yaml", "hkast.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "hkast", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// Path is the file the configuration was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

func (c *Config) Validate() error {
	var errs []error
	if c.Parse.MaxErrors < 0 {
		errs = append(errs, fmt.Errorf("parse.max_errors must not be negative, got %d", c.Parse.MaxErrors))
	}
	if c.Parse.Jobs < 0 {
		errs = append(errs, fmt.Errorf("parse.jobs must not be negative, got %d", c.Parse.Jobs))
	}
	switch c.Output.Format {
	case "json", "tree", "infix", "lines":
	default:
		errs = append(errs, fmt.Errorf("output.format must be json, tree, infix or lines, got %q", c.Output.Format))
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color))
	}
	if c.Log.Verbosity < -4 || c.Log.Verbosity > 2 {
		errs = append(errs, fmt.Errorf("log.verbosity must be between -4 and 2, got %d", c.Log.Verbosity))
	}
	return errors.Join(errs...)
}

func (c *Config) applyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = "tree"
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}
	if c.LSP.Name == "" {
		c.LSP.Name = "hkast"
	}
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = "hk> "
	}
	if c.REPL.HistoryFile == "" {
		c.REPL.HistoryFile = filepath.Join("$HOME", ".hkast_history")
	}
}

func (c *Config) expandEnvVars() {
	c.Log.File = os.ExpandEnv(c.Log.File)
	c.REPL.HistoryFile = os.ExpandEnv(c.REPL.HistoryFile)
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}
