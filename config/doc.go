// Package config loads tool configuration from a YAML file, a .env file and
// the process environment using viper and godotenv.
//
// # Usage
//
//	var cfg struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    Rally restapi.Config `mapstructure:"rally"`
//	}
//	err := config.LoadConfig("rallyctl", &cfg, config.WithEnvFile(".env"))
//
// Environment variables override file values using underscore-separated
// paths (e.g., RALLY_SERVER, RALLY_USERNAME, LOGGING_LEVEL).
package config
