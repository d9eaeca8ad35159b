package config

// DatabaseConfig holds the local SQLite settings for the order audit log.
type DatabaseConfig struct {
	// Path to the SQLite file, or ":memory:".
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}
