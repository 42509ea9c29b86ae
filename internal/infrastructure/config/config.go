package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of the service configuration, loaded from YAML
// with environment overrides on top.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	API      APIConfig      `yaml:"api"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig identifies this instance.
type ServiceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig holds broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig locates the broker.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig carries broker credentials. Prefer setting these via
// environment variables over the config file.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig bounds the reconnect backoff, in seconds.
// MaxAttempts 0 means retry forever.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig holds the HTTP server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig holds HTTP timeouts, in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// ReadTimeout returns the read timeout as a duration.
func (t APITimeoutConfig) ReadTimeout() time.Duration {
	return time.Duration(t.Read) * time.Second
}

// WriteTimeout returns the write timeout as a duration.
func (t APITimeoutConfig) WriteTimeout() time.Duration {
	return time.Duration(t.Write) * time.Second
}

// IdleTimeout returns the idle timeout as a duration.
func (t APITimeoutConfig) IdleTimeout() time.Duration {
	return time.Duration(t.Idle) * time.Second
}

// InfluxDBConfig holds the optional command audit trail settings. When
// disabled, executions are simply not recorded to a time-series store.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig holds log level, format, and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads the YAML file at path and returns the validated config.
//
// Precedence, lowest to highest: built-in defaults, file values,
// HEARTHCLOUD_* environment variables. The environment layer exists so
// secrets (broker password, InfluxDB token) can stay out of the file.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			ID:   "hearthcloud-001",
			Name: "Hearthcloud",
		},
		Database: DatabaseConfig{
			Path:        "./data/hearthcloud.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "hearthcloud-core",
			},
			// Device notifications are at-most-once; QoS 0 is the default
			// for the notification publish path (see internal/notify).
			QoS: 0,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// envOverrides maps HEARTHCLOUD_* variables onto config fields. Only
// the values that differ per deployment or are secret get an override.
var envOverrides = []struct {
	name  string
	apply func(cfg *Config, v string)
}{
	{"HEARTHCLOUD_DATABASE_PATH", func(cfg *Config, v string) { cfg.Database.Path = v }},
	{"HEARTHCLOUD_MQTT_HOST", func(cfg *Config, v string) { cfg.MQTT.Broker.Host = v }},
	{"HEARTHCLOUD_MQTT_USERNAME", func(cfg *Config, v string) { cfg.MQTT.Auth.Username = v }},
	{"HEARTHCLOUD_MQTT_PASSWORD", func(cfg *Config, v string) { cfg.MQTT.Auth.Password = v }},
	{"HEARTHCLOUD_API_HOST", func(cfg *Config, v string) { cfg.API.Host = v }},
	{"HEARTHCLOUD_INFLUXDB_TOKEN", func(cfg *Config, v string) { cfg.InfluxDB.Token = v }},
}

func applyEnvOverrides(cfg *Config) {
	for _, o := range envOverrides {
		if v := os.Getenv(o.name); v != "" {
			o.apply(cfg, v)
		}
	}
}

// Validate collects every problem rather than stopping at the first, so
// a misconfigured deployment surfaces all its errors in one run.
func (c *Config) Validate() error {
	var errs []string

	if c.Service.ID == "" {
		errs = append(errs, "service.id is required")
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb.enabled is true")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb.enabled is true")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
