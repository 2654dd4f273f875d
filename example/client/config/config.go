package config

import (
	"os"
	"strings"
)

const (
	// default port for the example http servers
	DefaultPort = "9999"
)

type Config struct {
	Port      string
	Host      string
	AppID     string
	AppSecret string
	Protocol  string
	Scopes    []string

	UserPoolID     string
	UserPoolSecret string
}

// FromEnvVars loads configuration parameters from environment variables.
// If there is no such variable defined, then use default values.
func FromEnvVars(defaults *Config) *Config {
	if defaults == nil {
		defaults = &Config{}
	}
	cfg := *defaults
	lookup := map[string]*string{
		"PORT":             &cfg.Port,
		"APP_HOST":         &cfg.Host,
		"APP_ID":           &cfg.AppID,
		"APP_SECRET":       &cfg.AppSecret,
		"PROTOCOL":         &cfg.Protocol,
		"USER_POOL_ID":     &cfg.UserPoolID,
		"USER_POOL_SECRET": &cfg.UserPoolSecret,
	}
	for key, field := range lookup {
		if value, ok := os.LookupEnv(key); ok {
			*field = value
		}
	}
	if value, ok := os.LookupEnv("SCOPES"); ok {
		cfg.Scopes = strings.Fields(value)
	}
	return &cfg
}
