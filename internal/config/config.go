package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwessels/asmpp/internal/preprocessor"
	"github.com/op/go-logging"
)

type Config struct {
	IncludeDirs     []string `json:"include_dirs" desc:"Directories searched for included files not found at their literal path"`
	Terminator      string   `json:"terminator" desc:"Marker after which all source text is discarded"`
	MaxIncludeDepth int      `json:"max_include_depth" desc:"Maximum nesting of included files"`
	LogLevel        string   `json:"log_level" desc:"One of CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG"`
}

var DefaultConfigPath = ".asmpp.json"

func CheckSettingsOverRide() {
	if p := os.Getenv("ASMPP_CONFIG_PATH"); p != "" {
		DefaultConfigPath = p
	}
}

func NewDefaultConfig() *Config {
	return &Config{
		IncludeDirs:     []string{},
		Terminator:      preprocessor.DefaultTerminator,
		MaxIncludeDepth: preprocessor.DefaultMaxIncludeDepth,
		LogLevel:        "WARNING",
	}
}

// LoadConfig overlays the JSON file at cpath on the defaults. A missing file
// is reported with an error satisfying os.IsNotExist.
func LoadConfig(cpath string) (*Config, error) {
	bs, err := os.ReadFile(cpath)
	if err != nil {
		return nil, err
	}
	c := NewDefaultConfig()
	if err := json.Unmarshal(bs, c); err != nil {
		return nil, fmt.Errorf("%s: %w", cpath, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", cpath, err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Terminator == "" {
		return fmt.Errorf("terminator must not be empty")
	}
	if c.MaxIncludeDepth <= 0 {
		return fmt.Errorf("max_include_depth must be positive, got %d", c.MaxIncludeDepth)
	}
	if _, err := logging.LogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func (c *Config) Level() logging.Level {
	level, err := logging.LogLevel(c.LogLevel)
	if err != nil {
		return logging.WARNING
	}
	return level
}

// NewPreprocessor returns a preprocessor configured from c.
func (c *Config) NewPreprocessor() *preprocessor.Preprocessor {
	p := preprocessor.NewPreprocessor()
	p.IncludeDirs = append([]string(nil), c.IncludeDirs...)
	p.Terminator = c.Terminator
	p.MaxIncludeDepth = c.MaxIncludeDepth
	return p
}
