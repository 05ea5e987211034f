package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Serial SerialConfig `mapstructure:"serial"`
	Modem  ModemConfig  `mapstructure:"modem"`
	Target TargetConfig `mapstructure:"target"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	MQTT   MQTTConfig   `mapstructure:"mqtt"`
	Log    LogConfig    `mapstructure:"log"`
}

// SerialConfig describes the UART the shield is attached to
type SerialConfig struct {
	// Port is the path to the serial device (e.g. "/dev/ttyS0")
	Port     string `mapstructure:"port"`
	BaudRate int    `mapstructure:"baud_rate"`
	// ReadTimeout bounds a single read while draining the port
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

// ModemConfig holds the transaction timing of the driver
type ModemConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	AttachTimeout time.Duration `mapstructure:"attach_timeout"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	StepDelay     time.Duration `mapstructure:"step_delay"`
	// MaxRetries caps retransmissions of one command, 0 retries forever
	MaxRetries      int  `mapstructure:"max_retries"`
	CloseAfterMatch bool `mapstructure:"close_after_match"`
}

// TargetConfig is the UDP destination of uplink datagrams
type TargetConfig struct {
	IPAddress  string `mapstructure:"ip"`
	Port       string `mapstructure:"port"`
	DomainName string `mapstructure:"domain"`
}

type HTTPConfig struct {
	// BindAddress is the address the server listens on (e.g. "0.0.0.0:8080")
	BindAddress     string        `mapstructure:"bind_address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	Topic    string `mapstructure:"topic"`
	QoS      byte   `mapstructure:"qos"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LogConfig selects the log encoder, level and sink
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Format is "json" or "console"
	Format string `mapstructure:"format"`
	// Output is "stdout", "stderr" or a file path rotated by size
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// defaults is the single source of default values, shared by WithDefaults
// and the viper instance.
var defaults = map[string]any{
	"serial.port":             "/dev/ttyS0",
	"serial.baud_rate":        115200,
	"serial.read_timeout":     10 * time.Millisecond,
	"modem.timeout":           3 * time.Second,
	"modem.attach_timeout":    8 * time.Second,
	"modem.poll_interval":     100 * time.Millisecond,
	"modem.step_delay":        500 * time.Millisecond,
	"modem.max_retries":       0,
	"modem.close_after_match": false,
	"target.ip":               "",
	"target.port":             "",
	"target.domain":           "",
	"http.bind_address":       "0.0.0.0:8080",
	"http.shutdown_timeout":   30 * time.Second,
	"mqtt.broker":             "",
	"mqtt.client_id":          "nbiot-bridge",
	"mqtt.topic":              "nbiot/uplink",
	"mqtt.qos":                0,
	"mqtt.username":           "",
	"mqtt.password":           "",
	"log.level":               "info",
	"log.format":              "json",
	"log.output":              "stderr",
	"log.max_size":            10,
	"log.max_backups":         3,
	"log.max_age":             28,
	"log.compress":            false,
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		v := viper.New()
		for key, value := range defaults {
			v.SetDefault(key, value)
		}
		return WithViper(v)(c)
	}
}

// WithViper overlays every setting known to v: defaults, config file,
// NBIOT_* environment variables and bound flags
func WithViper(v *viper.Viper) ConfigOption {
	return func(c *Config) error {
		if err := v.Unmarshal(c); err != nil {
			return fmt.Errorf("unable to decode config: %w", err)
		}
		return nil
	}
}

// flagKeys maps command-line flags to configuration keys
var flagKeys = map[string]string{
	"serial-port":  "serial.port",
	"baud-rate":    "serial.baud_rate",
	"timeout":      "modem.timeout",
	"max-retries":  "modem.max_retries",
	"target-ip":    "target.ip",
	"target-port":  "target.port",
	"bind-address": "http.bind_address",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"log-output":   "log.output",
}

// NewViper creates the viper instance backing the CLI. configFile may be
// empty; flags may be nil.
func NewViper(configFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("NBIOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

func (c *Config) validate() error {
	if c.Serial.Port == "" {
		return errors.New("serial port is required")
	}
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate: %d", c.Serial.BaudRate)
	}
	if c.Modem.Timeout <= 0 {
		return fmt.Errorf("invalid modem timeout: %v", c.Modem.Timeout)
	}
	if c.Modem.MaxRetries < 0 {
		return fmt.Errorf("invalid max retries: %d", c.Modem.MaxRetries)
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("invalid mqtt qos: %d", c.MQTT.QoS)
	}
	return nil
}
