// Package config centralizes configuration loading and defaults. All
// default values live here to keep a single source of truth.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/taskboard/taskboard/types"
)

const (
	configName = ".taskboard"
	envPrefix  = "TASKBOARD"
)

// Defaults.
const (
	// DefaultOwner is used when no authenticated owner is supplied;
	// single-user local boards run entirely under it.
	DefaultOwner = "local"

	DefaultRootDir    = ".taskboard"
	DefaultDataFile   = "tasks.json"
	DefaultDataFormat = "json"
	DefaultServerPort = 8177
)

// validate is a single validator instance; it caches struct info.
var validate = validator.New()

// InitConfig reads in the config file and environment variables. It is
// registered with cobra.OnInitialize and must run before Load.
func InitConfig() {
	// Load .env first if present; it is fine for the file to be missing.
	_ = godotenv.Load()

	// Env handling is set up before reading the config file so that
	// TASKBOARD_* variables can influence where the file is found.
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		if _, err := os.Stat(DefaultRootDir); !os.IsNotExist(err) {
			// Project-local config directory exists; prefer it.
			viper.AddConfigPath(DefaultRootDir)
		} else {
			if home, err := os.UserHomeDir(); err == nil {
				viper.AddConfigPath(home)
			}
			viper.AddConfigPath(".")
		}
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		} else if cfgFileFlag != "" {
			fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
		}
	}

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("owner", DefaultOwner)
	viper.SetDefault("project.rootDir", DefaultRootDir)
	viper.SetDefault("data.file", DefaultDataFile)
	viper.SetDefault("data.format", DefaultDataFormat)
	viper.SetDefault("server.port", DefaultServerPort)
	viper.SetDefault("server.allowedOrigins", []string{"http://localhost:5173"})
}

// Load unmarshals the effective configuration and validates it.
func Load() (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// TaskFilePath returns the full path to the task data file.
func TaskFilePath(cfg types.AppConfig) string {
	if filepath.IsAbs(cfg.Data.File) {
		return cfg.Data.File
	}
	return filepath.Join(cfg.Project.RootDir, cfg.Data.File)
}
