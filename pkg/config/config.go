/*
Package config manages the TOML config shared by the wordladder server and CLI.
*/
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bastiangx/wordladder/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Dict   DictConfig   `toml:"dict"`
	Search SearchConfig `toml:"search"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Path          string `toml:"path"`
	Lenient       bool   `toml:"lenient"`
	WildcardTable string `toml:"wildcard_table"`
}

// SearchConfig selects the neighbor index and path finder.
type SearchConfig struct {
	Index     string `toml:"index"`
	Finder    string `toml:"finder"`
	Workers   int    `toml:"workers"`
	MaxDepth  int    `toml:"max_depth"`
	TimeoutMs int    `toml:"timeout_ms"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxWordLength int    `toml:"max_word_length"`
	MetricsAddr   string `toml:"metrics_addr"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowNumber   bool `toml:"show_number"`
	ShowDistance bool `toml:"show_distance"`
	Repeat       bool `toml:"repeat"`
}

// Timeout returns the per-query timeout, 0 meaning none.
func (s SearchConfig) Timeout() time.Duration {
	return time.Duration(max(0, s.TimeoutMs)) * time.Millisecond
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/wordladder
// 2. ~/Library/Application Support/wordladder (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordladder")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordladder")
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
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/wordladder/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Dict: DictConfig{
			Path: "",
		},
		Search: SearchConfig{
			Index:     "wildcard",
			Finder:    "dual",
			Workers:   0,
			MaxDepth:  0,
			TimeoutMs: 5000,
		},
		Server: ServerConfig{
			MaxWordLength: 64,
			MetricsAddr:   "",
		},
		CLI: CliConfig{
			ShowNumber:   true,
			ShowDistance: true,
			Repeat:       true,
		},
	}
}

// InitConfig loads config from file or creates default if missing
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

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// defaults; a file that does not decode is recovered section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed key it can find
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractBool(data, "lenient"); ok {
		dict.Lenient = val
	}
	if val, ok := utils.ExtractString(data, "wildcard_table"); ok {
		dict.WildcardTable = val
	}
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractString(data, "index"); ok {
		search.Index = val
	}
	if val, ok := utils.ExtractString(data, "finder"); ok {
		search.Finder = val
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		search.Workers = val
	}
	if val, ok := utils.ExtractInt64(data, "max_depth"); ok {
		search.MaxDepth = val
	}
	if val, ok := utils.ExtractInt64(data, "timeout_ms"); ok {
		search.TimeoutMs = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_word_length"); ok {
		server.MaxWordLength = val
	}
	if val, ok := utils.ExtractString(data, "metrics_addr"); ok {
		server.MetricsAddr = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "show_number"); ok {
		cli.ShowNumber = val
	}
	if val, ok := utils.ExtractBool(data, "show_distance"); ok {
		cli.ShowDistance = val
	}
	if val, ok := utils.ExtractBool(data, "repeat"); ok {
		cli.Repeat = val
	}
}

// ApplyEnv overrides values from WORDLADDER_* environment variables:
// DICT, INDEX, FINDER, WORKERS, TIMEOUT_MS and METRICS_ADDR. Unparseable
// numbers are ignored with a warning.
func (c *Config) ApplyEnv() {
	if env := os.Getenv("WORDLADDER_DICT"); env != "" {
		c.Dict.Path = env
	}
	if env := os.Getenv("WORDLADDER_INDEX"); env != "" {
		c.Search.Index = env
	}
	if env := os.Getenv("WORDLADDER_FINDER"); env != "" {
		c.Search.Finder = env
	}
	if val, ok := envInt("WORDLADDER_WORKERS"); ok {
		c.Search.Workers = val
	}
	if val, ok := envInt("WORDLADDER_TIMEOUT_MS"); ok {
		c.Search.TimeoutMs = val
	}
	if env := os.Getenv("WORDLADDER_METRICS_ADDR"); env != "" {
		c.Server.MetricsAddr = env
	}
}

func envInt(key string) (int, bool) {
	env := os.Getenv(key)
	if env == "" {
		return 0, false
	}
	val, err := strconv.Atoi(env)
	if err != nil {
		log.Warnf("Ignoring %s=%q: %v", key, env, err)
		return 0, false
	}
	return val, true
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
