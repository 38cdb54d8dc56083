/*
Package config manages the TOML config for wordtree.
*/
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/bastiangx/wordtree/pkg/dictionary"
	"github.com/bastiangx/wordtree/pkg/wordfreq"
	"github.com/charmbracelet/log"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has msgpack server options.
type ServerConfig struct {
	MaxLimit  int `toml:"max_limit"`
	MinPrefix int `toml:"min_prefix"`
	MaxPrefix int `toml:"max_prefix"`
}

// DictConfig selects the backend and the corpus.
type DictConfig struct {
	Backend                string `toml:"backend"`
	DataPath               string `toml:"data_path"`
	MaxWords               int    `toml:"max_words"`
	MaxWordCountValidation int    `toml:"max_word_count_validation"`
}

// CliConfig holds interactive and batch options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultNoFilter bool `toml:"default_no_filter"`
	Color           bool `toml:"color"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:  64,
			MinPrefix: 0,
			MaxPrefix: 60,
		},
		Dict: DictConfig{
			Backend:                string(dictionary.KindTST),
			DataPath:               "data",
			MaxWords:               0,
			MaxWordCountValidation: 1000000,
		},
		CLI: CliConfig{
			DefaultLimit:    wordfreq.DefaultLimit,
			DefaultNoFilter: false,
			Color:           true,
		},
	}
}

// Validate checks value ranges and the backend name.
func (c *Config) Validate() error {
	var errs []error
	if _, err := dictionary.ParseKind(c.Dict.Backend); err != nil {
		errs = append(errs, err)
	}
	if c.Dict.MaxWords < 0 {
		errs = append(errs, fmt.Errorf("dict.max_words must not be negative, got %d", c.Dict.MaxWords))
	}
	if c.Dict.MaxWordCountValidation < 0 {
		errs = append(errs, fmt.Errorf("dict.max_word_count_validation must not be negative, got %d", c.Dict.MaxWordCountValidation))
	}
	if c.Server.MaxLimit < 1 {
		errs = append(errs, fmt.Errorf("server.max_limit must be at least 1, got %d", c.Server.MaxLimit))
	}
	// completion ranks travel as uint16
	if c.Server.MaxLimit > math.MaxUint16 {
		errs = append(errs, fmt.Errorf("server.max_limit must be at most %d, got %d", math.MaxUint16, c.Server.MaxLimit))
	}
	if c.Server.MinPrefix < 0 || c.Server.MaxPrefix < c.Server.MinPrefix {
		errs = append(errs, fmt.Errorf("server prefix bounds [%d, %d] are inconsistent", c.Server.MinPrefix, c.Server.MaxPrefix))
	}
	if c.CLI.DefaultLimit < 0 {
		errs = append(errs, fmt.Errorf("cli.default_limit must not be negative, got %d", c.CLI.DefaultLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/wordtree
// 2. ~/Library/Application Support/wordtree (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordtree")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordtree")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from the -config flag
// 2. Default path, created with defaults when missing
// 3. Builtin defaults
//
// The returned path is empty when builtin defaults are in use.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if !utils.FileExists(customConfigPath) {
			return nil, "", fmt.Errorf("config file not found: %s", customConfigPath)
		}
		config, err := LoadConfig(customConfigPath)
		if err != nil {
			return nil, "", err
		}
		log.Debugf("Loaded config from custom path: %s", customConfigPath)
		return config, customConfigPath, nil
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		return nil, "", err
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates a default one if missing.
// Filesystem trouble degrades to builtin defaults; a config that parses but fails
// Validate is an error.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file on top of the defaults. When the file does not
// decode as a whole, every section and key that does is kept.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config = tryPartialParse(configPath)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return config, nil
}

func tryPartialParse(configPath string) *Config {
	config := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config
	}

	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(raw, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "backend"); ok {
		dict.Backend = val
	}
	if val, ok := utils.ExtractString(data, "data_path"); ok {
		dict.DataPath = val
	}
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		dict.MaxWords = val
	}
	if val, ok := utils.ExtractInt64(data, "max_word_count_validation"); ok {
		dict.MaxWordCountValidation = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
	if val, ok := utils.ExtractBool(data, "color"); ok {
		cli.Color = val
	}
}

// GetActiveConfigPath returns the absolute path of the loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Apply sets the non-nil dict overrides. c is left untouched when the result does
// not validate.
func (c *Config) Apply(backend, dataPath *string, maxWords *int) error {
	next := *c
	if backend != nil {
		next.Dict.Backend = *backend
	}
	if dataPath != nil {
		next.Dict.DataPath = *dataPath
	}
	if maxWords != nil {
		next.Dict.MaxWords = *maxWords
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Update applies the overrides and saves the result to configPath.
func (c *Config) Update(configPath string, backend, dataPath *string, maxWords *int) error {
	if err := c.Apply(backend, dataPath, maxWords); err != nil {
		return err
	}
	return SaveConfig(c, configPath)
}
