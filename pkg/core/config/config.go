package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/apache/royale-compiler-sub012/internal/buffer"
	"github.com/apache/royale-compiler-sub012/internal/parser"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

// EnvConfig names the environment variable that points at a project file
const EnvConfig = "ASFRONT_CONFIG"

// Config holds the complete project configuration
type Config struct {
	Project ProjectConfig   `toml:"project" yaml:"project"`
	Parser  ParserConfig    `toml:"parser" yaml:"parser"`
	Defines []parser.Define `toml:"defines" yaml:"defines"`
	Logging LoggingConfig   `toml:"logging" yaml:"logging"`
	Store   StoreConfig     `toml:"store" yaml:"store"`
	Server  ServerConfig    `toml:"server" yaml:"server"`
}

// ProjectConfig holds project-wide settings
type ProjectConfig struct {
	Name        string   `toml:"name" yaml:"name"`
	SourceRoots []string `toml:"source_roots" yaml:"source_roots"`
}

// ParserConfig holds tokenizer and parser switches
type ParserConfig struct {
	FollowIncludes      bool   `toml:"follow_includes" yaml:"follow_includes"`
	CollectComments     bool   `toml:"collect_comments" yaml:"collect_comments"`
	DeferFunctionBodies bool   `toml:"defer_function_bodies" yaml:"defer_function_bodies"`
	CaptureDeferredText bool   `toml:"capture_deferred_text" yaml:"capture_deferred_text"`
	BufferMode          string `toml:"buffer_mode" yaml:"buffer_mode"`
	RewindLimit         int    `toml:"rewind_limit" yaml:"rewind_limit"`
	Fragment            bool   `toml:"fragment" yaml:"fragment"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// StoreConfig holds parse history settings
type StoreConfig struct {
	Path      string   `toml:"path" yaml:"path"`
	Retention Duration `toml:"retention" yaml:"retention"`
}

// ServerConfig holds the parse service settings
type ServerConfig struct {
	Host            string   `toml:"host" yaml:"host"`
	Port            int      `toml:"port" yaml:"port"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.Parser.FollowIncludes = true
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file. Files ending in
// .yaml or .yml are read as YAML, everything else as TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, aserror.Newf("config file not found: %s", path).
				WithCode(aserror.CodeMissingConfig).
				WithPath(path)
		}
		return nil, aserror.Wrap(err, "failed to read config").
			WithCode(aserror.CodeIO).
			WithPath(path)
	}

	// parser switches default to on unless the file says otherwise
	cfg := Config{Parser: ParserConfig{FollowIncludes: true}}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, aserror.Wrap(err, "failed to parse config").
			WithCode(aserror.CodeInvalidConfig).
			WithPath(path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from ASFRONT_CONFIG or a default
// location. It returns the defaults when no file exists.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		defaultPaths := []string{
			"./asfront.toml",
			"./asfront.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/asfront/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Project.Name == "" {
		c.Project.Name = "asfront"
	}

	if c.Parser.BufferMode == "" {
		c.Parser.BufferMode = buffer.ModeStreaming.String()
	}
	if c.Parser.RewindLimit == 0 {
		c.Parser.RewindLimit = buffer.DefaultRewindLimit
	}

	for i := range c.Defines {
		if c.Defines[i].Namespace == "" {
			c.Defines[i].Namespace = "CONFIG"
		}
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}

	if c.Store.Path == "" {
		c.Store.Path = "./data/asfront.db"
	}
	if c.Store.Retention.Duration == 0 {
		c.Store.Retention.Duration = 30 * 24 * time.Hour
	}

	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 9310
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 10 * time.Second
	}
}

// expandEnvVars expands environment variables in paths. Relative source
// roots are taken relative to the directory of the config file.
func (c *Config) expandEnvVars(base string) {
	for i, root := range c.Project.SourceRoots {
		root = os.ExpandEnv(root)
		if !filepath.IsAbs(root) && base != "" {
			root = filepath.Join(base, root)
		}
		c.Project.SourceRoots[i] = root
	}
	c.Store.Path = os.ExpandEnv(c.Store.Path)
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if _, err := buffer.ParseMode(c.Parser.BufferMode); err != nil {
		return aserror.Wrap(err, "invalid parser.buffer_mode").WithCode(aserror.CodeInvalidConfig)
	}
	if c.Parser.RewindLimit <= 0 {
		return aserror.Newf("parser.rewind_limit must be positive, got %d", c.Parser.RewindLimit).
			WithCode(aserror.CodeInvalidConfig)
	}
	for i, d := range c.Defines {
		if strings.TrimSpace(d.Name) == "" {
			return aserror.Newf("defines[%d] has an empty name", i).WithCode(aserror.CodeInvalidConfig)
		}
	}
	if _, err := aslog.ParseLevel(c.Logging.Level); err != nil {
		return aserror.Wrap(err, "invalid logging.level").WithCode(aserror.CodeInvalidConfig)
	}
	if _, err := aslog.ParseFormat(c.Logging.Format); err != nil {
		return aserror.Wrap(err, "invalid logging.format").WithCode(aserror.CodeInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return aserror.Newf("server.port out of range: %d", c.Server.Port).WithCode(aserror.CodeInvalidConfig)
	}
	return nil
}

// ParserOptions converts the parser section into parse options
func (c *Config) ParserOptions(logger *aslog.Logger) parser.Options {
	mode, _ := buffer.ParseMode(c.Parser.BufferMode)
	opts := parser.DefaultOptions()
	opts.SourceRoots = c.Project.SourceRoots
	opts.FollowIncludes = c.Parser.FollowIncludes
	opts.CollectComments = c.Parser.CollectComments
	opts.DeferFunctionBodies = c.Parser.DeferFunctionBodies
	opts.CaptureDeferredText = c.Parser.CaptureDeferredText
	opts.Fragment = c.Parser.Fragment
	opts.BufferMode = mode
	opts.RewindLimit = c.Parser.RewindLimit
	opts.Defines = append([]parser.Define(nil), c.Defines...)
	opts.Logger = logger
	return opts
}

// Logger builds a logger from the logging section
func (c *Config) Logger() *aslog.Logger {
	level, err := aslog.ParseLevel(c.Logging.Level)
	if err != nil {
		level = aslog.DefaultLevel()
	}
	format, err := aslog.ParseFormat(c.Logging.Format)
	if err != nil {
		format = aslog.FormatConsole
	}
	return aslog.NewWithConfig(aslog.Config{
		Level:  level,
		Format: format,
		Output: os.Stderr,
		Name:   c.Project.Name,
	})
}

// ServerAddress returns host:port of the parse service
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
