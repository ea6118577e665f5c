// Package config provides configuration management for the bot.
// It loads environment variables (and an optional .env file) and makes them
// available throughout the application.
package config

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string `env:"botToken"`
	SyncEvents bool   `env:"SYNC_EVENTS" envDefault:"true"`

	// Modules
	Prefix        string `env:"prefix" envDefault:"!"`
	ModulesDir    string `env:"modulesDir" envDefault:"modules"`
	ModulesStrict bool   `env:"modulesStrict" envDefault:"false"`

	// MQTT
	MQTTHost     string   `env:"MQTT_Host" envDefault:"localhost"`
	MQTTPort     string   `env:"MQTT_Port" envDefault:"1883"`
	MQTTUser     string   `env:"MQTT_User"`
	MQTTPassword string   `env:"MQTT_Password"`
	MQTTTopic    string   `env:"MQTT_Topic" envDefault:"discmod"`
	MQTTEvents   []string `env:"MQTT_Events" envSeparator:"," envDefault:"#"`

	// Web Server
	Port         string `env:"PORT" envDefault:"3000"`
	AllowedHosts string `env:"allowedHosts" envDefault:".*"`

	// Environment
	Environment string `env:"enviroment" envDefault:"dev"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`

	// Webhooks
	ErrorWebhook      string `env:"errorWebhook"`
	LogsWebhook       string `env:"logsWebhook"`
	LogsWebServerHook string `env:"logsWebServerHook"`

	// ErrorLimit is the number of handler panics per window that triggers a
	// shutdown. Zero disables the watchdog.
	ErrorLimit int `env:"ERROR_LIMIT" envDefault:"0"`
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgErr  error
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgErr = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	c := &Config{}
	if err := env.Parse(c); err != nil {
		cfgErr = fmt.Errorf("parse environment: %w", err)
	}
	cfg = c
}

// Load initializes the configuration from environment variables.
// A malformed value (e.g. a non-boolean modulesStrict) is reported as an
// error; the returned Config then carries defaults for the remaining keys.
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, cfgErr
}

// Get returns the current configuration
func Get() *Config {
	// Use sync.Once to ensure thread-safe initialization if Load wasn't called
	cfgOnce.Do(loadConfig)
	return cfg
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// MQTTEnabled reports whether an MQTT broker was configured explicitly.
func (c *Config) MQTTEnabled() bool {
	return c.MQTTHost != "" && c.MQTTHost != "none"
}
