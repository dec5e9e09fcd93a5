package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/mnemosyne/pkg/constants"
	"github.com/agentstation/mnemosyne/pkg/errors"
)

// Collector modes accepted by the collector setting.
const (
	CollectorAuto   = "auto"
	CollectorPrompt = "prompt"
	CollectorForm   = "form"
)

// Config holds the application configuration loaded from config files,
// environment variables, .env files and flags.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Catalog configuration
	DataDir      string
	RegistryFile string
	Collector    string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. MNEMOSYNE_* environment variables
//  3. .env and .env.local files
//  4. Config file (configFile, or .mnemosyne.yaml in $HOME or the working directory)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", constants.DefaultDataDir)
	v.SetDefault("registry_file", constants.DefaultRegistryFile)
	v.SetDefault("collector", CollectorAuto)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)

		// A missing config file is fine; a broken one is not.
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.NewConfigError("config", "cannot read config file", err)
			}
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		DataDir:      expandHome(v.GetString("data_dir")),
		RegistryFile: v.GetString("registry_file"),
		Collector:    strings.ToLower(v.GetString("collector")),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that have a fixed set of choices.
func (c *Config) Validate() error {
	switch c.Collector {
	case CollectorAuto, CollectorPrompt, CollectorForm:
	default:
		return errors.NewConfigError("collector", "must be one of: auto, prompt, form (got "+c.Collector+")", nil)
	}
	if c.RegistryFile == "" {
		return errors.NewConfigError("registry_file", "must not be empty", nil)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Empty string flags leave the loaded value in place.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, dataDir, collector string) error {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if dataDir != "" {
		c.DataDir = expandHome(dataDir)
	}
	if collector != "" {
		c.Collector = strings.ToLower(collector)
	}
	return c.Validate()
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded last; godotenv never overrides variables already set,
// so the real environment wins over both.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
