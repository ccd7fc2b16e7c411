// Package config provides configuration management for hikes using Viper
// for loading from files, environment variables and command-line flags.
//
// The configuration system supports a .hikes.yml file, environment
// variable overrides with the HIKES_ prefix, defaults and validation. It
// covers the preview server, the content and output directories, the
// development live-reload switch and logging.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/conneroisu/hikes/internal/content"
	"github.com/conneroisu/hikes/internal/errors"
	"github.com/conneroisu/hikes/internal/logging"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server" yaml:"server" json:"server"`
	Content     ContentConfig     `mapstructure:"content" yaml:"content" json:"content"`
	Build       BuildConfig       `mapstructure:"build" yaml:"build" json:"build"`
	Development DevelopmentConfig `mapstructure:"development" yaml:"development" json:"development"`
	Log         LogConfig         `mapstructure:"log" yaml:"log" json:"log"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" yaml:"port" json:"port"`
	Host           string   `mapstructure:"host" yaml:"host" json:"host"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`
}

type ContentConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir" json:"dir"`
}

type BuildConfig struct {
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	Stylesheet string `mapstructure:"stylesheet" yaml:"stylesheet" json:"stylesheet"`
	Clean      bool   `mapstructure:"clean" yaml:"clean" json:"clean"`
}

type DevelopmentConfig struct {
	HotReload     bool `mapstructure:"hot_reload" yaml:"hot_reload" json:"hot_reload"`
	DebounceMilli int  `mapstructure:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// SetDefaults registers the default value of every key on viper.
func SetDefaults() {
	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("content.dir", "content")
	v.SetDefault("build.output_dir", "dist")
	v.SetDefault("build.stylesheet", "")
	v.SetDefault("build.clean", false)
	v.SetDefault("development.hot_reload", true)
	v.SetDefault("development.debounce_ms", 300)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration currently held by viper and validates it.
func Load() (*Config, error) {
	SetDefaults()

	// The root --log-level flag is bound to a top-level key
	if viper.IsSet("log-level") {
		viper.Set("log.level", viper.GetString("log-level"))
	}

	return decode(viper.GetViper())
}

// LoadFile reads and validates a single config file, ignoring flags and
// environment variables.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeConfigInvalid, "reading config file").WithPath(path)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeConfigInvalid, "decoding configuration")
	}

	if err := validateConfig(&config); err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeConfigInvalid, "invalid configuration")
	}

	return &config, nil
}

// Default returns the configuration with every default applied.
func Default() *Config {
	return &Config{
		Server:      ServerConfig{Port: 8080, Host: "localhost", AllowedOrigins: []string{}},
		Content:     ContentConfig{Dir: "content"},
		Build:       BuildConfig{OutputDir: "dist"},
		Development: DevelopmentConfig{HotReload: true, DebounceMilli: 300},
		Log:         LogConfig{Level: "info", Format: "text"},
	}
}

// Address returns host:port for the preview server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validatePath(config.Content.Dir); err != nil {
		return fmt.Errorf("content dir: %w", err)
	}

	if err := validatePath(config.Build.OutputDir); err != nil {
		return fmt.Errorf("build output_dir: %w", err)
	}
	// build --clean removes the output dir, so neither may hold the other
	if content.Within(config.Build.OutputDir, config.Content.Dir) {
		return fmt.Errorf("build output_dir %q must not contain content dir %q", config.Build.OutputDir, config.Content.Dir)
	}
	if content.Within(config.Content.Dir, config.Build.OutputDir) {
		return fmt.Errorf("build output_dir %q must not be inside content dir %q", config.Build.OutputDir, config.Content.Dir)
	}

	if config.Development.DebounceMilli < 0 {
		return fmt.Errorf("development debounce_ms must not be negative")
	}

	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("log format %q is not one of text, json", config.Log.Format)
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Port 0 asks the system for a free port
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\", " "}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %q", char)
			}
		}
	}

	return nil
}

// validatePath rejects empty, absolute and traversing directory paths
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return errors.ErrPathTraversal(path)
	}

	if filepath.IsAbs(cleanPath) {
		return fmt.Errorf("path should be relative: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
