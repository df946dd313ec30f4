package types

// AppConfig is the unified application configuration, populated by viper
// from the config file, environment variables and flags.
type AppConfig struct {
	Verbose bool   `mapstructure:"verbose"`
	Owner   string `mapstructure:"owner" validate:"required"`

	Project ProjectConfig `mapstructure:"project"`
	Data    DataConfig    `mapstructure:"data"`
	Server  ServerConfig  `mapstructure:"server"`
}

// ProjectConfig locates the board's working directory.
type ProjectConfig struct {
	// RootDir is the directory holding board data, e.g. ".taskboard".
	RootDir string `mapstructure:"rootDir" validate:"required"`
}

// DataConfig describes the task data file behind the file repository.
type DataConfig struct {
	File   string `mapstructure:"file" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// ServerConfig configures the optional HTTP API.
type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"gt=0,lte=65535"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}
