package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the voting engine.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port    int
	BaseURL string // public base URL used for voting-link QR codes
}

// StorageConfig holds database settings
type StorageConfig struct {
	Path string // SQLite database path; ":memory:" for tests
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string
	HTTP  bool // log every HTTP request
}

// Defaults applied when neither the config file nor the environment sets a key.
const (
	defaultPort    = 8080
	defaultDBPath  = "eventvote.db"
	defaultBaseURL = "http://localhost:8080"
	defaultLevel   = "info"
)

// Load reads configuration from an optional config file plus EVENTVOTE_*
// environment variables. A missing config file is not an error; env vars and
// defaults still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.base_url", defaultBaseURL)
	v.SetDefault("storage.path", defaultDBPath)
	v.SetDefault("logging.level", defaultLevel)
	v.SetDefault("logging.http", false)

	v.SetEnvPrefix("EVENTVOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	return &Config{
		Server: ServerConfig{
			Port:    v.GetInt("server.port"),
			BaseURL: strings.TrimRight(v.GetString("server.base_url"), "/"),
		},
		Storage: StorageConfig{
			Path: v.GetString("storage.path"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("logging.level"),
			HTTP:  v.GetBool("logging.http"),
		},
	}, nil
}
