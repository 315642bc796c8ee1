/*
Package config manages TOML config for rhymeserve.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/rhymeserve/internal/utils"
	"github.com/charmbracelet/log"
)

const (
	appName        = "rhymeserve"
	configFileName = "config.toml"

	// hard ceiling shared with the index result cap
	maxResults = 300
)

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Index  IndexConfig  `toml:"index"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit         int `toml:"max_limit"`
	DefaultSyllables int `toml:"default_syllables"`
	MaxSyllables     int `toml:"max_syllables"`
	CacheSize        int `toml:"cache_size"`
}

// IndexConfig controls how index files are written and read. ResultCap only bounds
// server.max_limit; the per-group cap inside the index is fixed at rhymeindex.MaxResults.
type IndexConfig struct {
	ResultCap int  `toml:"result_cap"`
	Validate  bool `toml:"validate"`
	Compress  bool `toml:"compress"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	DataDir string `toml:"data_dir"`
	// Sources limits loading to the named dictionaries; empty loads all
	Sources []string `toml:"sources"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultSyllables int  `toml:"default_syllables"`
	DefaultLimit     int  `toml:"default_limit"`
	NoFilter         bool `toml:"no_filter"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/rhymeserve
// 2. ~/Library/Application Support/rhymeserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", appName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", appName)
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
	return filepath.Join(configDir, configFileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/rhymeserve/config.toml
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
		Server: ServerConfig{
			MaxLimit:         maxResults,
			DefaultSyllables: 2,
			MaxSyllables:     4,
			CacheSize:        1024,
		},
		Index: IndexConfig{
			ResultCap: maxResults,
			Validate:  true,
			Compress:  true,
		},
		Dict: DictConfig{
			DataDir: "data/",
			Sources: []string{},
		},
		CLI: CliConfig{
			DefaultSyllables: 2,
			DefaultLimit:     20,
			NoFilter:         false,
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

// LoadConfig loads from a TOML file. A file that does not decode cleanly is salvaged section by
// section; values that are missing or mistyped keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config = tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) *Config {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "index"); ok {
		extractIndexConfig(section, &config.Index)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "default_syllables"); ok {
		server.DefaultSyllables = val
	}
	if val, ok := utils.ExtractInt64(data, "max_syllables"); ok {
		server.MaxSyllables = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		server.CacheSize = val
	}
}

func extractIndexConfig(data map[string]any, index *IndexConfig) {
	if val, ok := utils.ExtractInt64(data, "result_cap"); ok {
		index.ResultCap = val
	}
	if val, ok := utils.ExtractBool(data, "validate"); ok {
		index.Validate = val
	}
	if val, ok := utils.ExtractBool(data, "compress"); ok {
		index.Compress = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "data_dir"); ok {
		dict.DataDir = val
	}
	if val, ok := utils.ExtractStrings(data, "sources"); ok {
		dict.Sources = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_syllables"); ok {
		cli.DefaultSyllables = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "no_filter"); ok {
		cli.NoFilter = val
	}
}

// sanitize replaces out of range values with defaults
func (c *Config) sanitize() {
	def := DefaultConfig()
	if c.Index.ResultCap <= 0 || c.Index.ResultCap > maxResults {
		log.Warnf("index.result_cap %d out of range (1-%d), using %d", c.Index.ResultCap, maxResults, def.Index.ResultCap)
		c.Index.ResultCap = def.Index.ResultCap
	}
	if c.Server.MaxLimit <= 0 || c.Server.MaxLimit > c.Index.ResultCap {
		log.Warnf("server.max_limit %d out of range (1-%d), using %d", c.Server.MaxLimit, c.Index.ResultCap, c.Index.ResultCap)
		c.Server.MaxLimit = c.Index.ResultCap
	}
	if c.Server.MaxSyllables <= 0 {
		c.Server.MaxSyllables = def.Server.MaxSyllables
	}
	if c.Server.DefaultSyllables <= 0 || c.Server.DefaultSyllables > c.Server.MaxSyllables {
		c.Server.DefaultSyllables = min(def.Server.DefaultSyllables, c.Server.MaxSyllables)
	}
	if c.Server.CacheSize < 0 {
		c.Server.CacheSize = 0
	}
	if c.CLI.DefaultSyllables <= 0 || c.CLI.DefaultSyllables > c.Server.MaxSyllables {
		c.CLI.DefaultSyllables = c.Server.DefaultSyllables
	}
	if c.CLI.DefaultLimit <= 0 || c.CLI.DefaultLimit > c.Server.MaxLimit {
		c.CLI.DefaultLimit = min(def.CLI.DefaultLimit, c.Server.MaxLimit)
	}
	if c.Dict.DataDir == "" {
		c.Dict.DataDir = def.Dict.DataDir
	}
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
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
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

// Update changes the server values that are set and saves to file
func (c *Config) Update(configPath string, maxLimit, defaultSyllables, maxSyllables, cacheSize *int) error {
	server := &c.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if defaultSyllables != nil {
		server.DefaultSyllables = *defaultSyllables
	}
	if maxSyllables != nil {
		server.MaxSyllables = *maxSyllables
	}
	if cacheSize != nil {
		server.CacheSize = *cacheSize
	}
	c.sanitize()
	return SaveConfig(c, configPath)
}
