package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries the runtime configuration shared by the server and the
// CLI.
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Export  ExportConfig
	Logging LoggingConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string
	Port int
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DataConfig points at the two data products.
type DataConfig struct {
	NeoCSV  string
	CadJSON string
}

// ExportConfig bounds export output. MaxRows zero means no cap.
type ExportConfig struct {
	MaxRows int
}

// LoggingConfig selects the log level: debug, info, warn, or error.
type LoggingConfig struct {
	Level string
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Server:  ServerConfig{Host: "0.0.0.0", Port: 8080},
		Data:    DataConfig{NeoCSV: "data/neos.csv", CadJSON: "data/cad.json"},
		Export:  ExportConfig{MaxRows: 0},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads config.yaml from configPath, falling back to ./config, with
// environment overrides.
func Load(configPath string) (Config, error) {
	// Start with default
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AutomaticEnv()        // allow environment overrides
	v.SetEnvPrefix("NEOQL") // map env vars like NEOQL_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("server.host")
	v.BindEnv("server.port")
	v.BindEnv("data.neo_csv")
	v.BindEnv("data.cad_json")
	v.BindEnv("export.max_rows")
	v.BindEnv("logging.level")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	// Override defaults if values exist
	if v.IsSet("server.host") {
		cfg.Server.Host = v.GetString("server.host")
	}
	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetInt("server.port")
	}
	if v.IsSet("data.neo_csv") {
		cfg.Data.NeoCSV = v.GetString("data.neo_csv")
	}
	if v.IsSet("data.cad_json") {
		cfg.Data.CadJSON = v.GetString("data.cad_json")
	}
	if v.IsSet("export.max_rows") {
		cfg.Export.MaxRows = v.GetInt("export.max_rows")
	}
	if v.IsSet("logging.level") {
		cfg.Logging.Level = v.GetString("logging.level")
	}

	return cfg, nil
}
