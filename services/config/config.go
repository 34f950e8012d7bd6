// Package config loads the envsense configuration document.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"envsense-go/services/envmon"

	"gopkg.in/yaml.v3"
)

type Config struct {
	EnvMon EnvMonConfig `yaml:"envmon"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
}

// ---- SENSORS ----

type EnvMonConfig struct {
	IntervalMs     int            `yaml:"interval_ms"`
	Retries        int            `yaml:"retries"`
	RetryBackoffMs int            `yaml:"retry_backoff_ms"`
	Sensors        []SensorConfig `yaml:"sensors"`
}

type SensorConfig struct {
	ID    string `yaml:"id"`
	Model string `yaml:"model"` // "dht11", "dht22", "am2302"
	Pin   string `yaml:"pin"`   // periph name on Linux, e.g. "GPIO4"
}

// ---- TRANSPORT ----

type MQTTConfig struct {
	Broker      string `yaml:"broker"` // empty disables publishing
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
}

// Load reads and parses the file at path. It does not validate.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML document. Unknown keys are rejected.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Default returns the embedded configuration for device.
func Default(device string) (*Config, error) {
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("no embedded config for device: %s", device)
	}
	return Parse(raw)
}

// Service converts the envmon section to service settings.
func (c *EnvMonConfig) Service() envmon.Config {
	return envmon.Config{
		Interval:     time.Duration(c.IntervalMs) * time.Millisecond,
		Retries:      c.Retries,
		RetryBackoff: time.Duration(c.RetryBackoffMs) * time.Millisecond,
	}
}
