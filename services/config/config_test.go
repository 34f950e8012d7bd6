package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// helper to build a valid config quickly
func valid() *Config {
	return &Config{
		EnvMon: EnvMonConfig{
			IntervalMs: 2000,
			Retries:    2,
			Sensors: []SensorConfig{
				{ID: "a", Model: "dht22", Pin: "GPIO4"},
				{ID: "b", Model: "dht11", Pin: "GPIO17"},
			},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string]func(c *Config){
		"no sensors":        func(c *Config) { c.EnvMon.Sensors = nil },
		"missing id":        func(c *Config) { c.EnvMon.Sensors[0].ID = "" },
		"duplicate id":      func(c *Config) { c.EnvMon.Sensors[1].ID = "a" },
		"unknown model":     func(c *Config) { c.EnvMon.Sensors[0].Model = "bme280" },
		"missing pin":       func(c *Config) { c.EnvMon.Sensors[1].Pin = "" },
		"shared pin":        func(c *Config) { c.EnvMon.Sensors[1].Pin = "GPIO4" },
		"interval too fast": func(c *Config) { c.EnvMon.IntervalMs = 1000 },
		"negative retries":  func(c *Config) { c.EnvMon.Retries = -1 },
		"too many retries":  func(c *Config) { c.EnvMon.Retries = 11 },
		"negative backoff":  func(c *Config) { c.EnvMon.RetryBackoffMs = -5 },
		"bad qos": func(c *Config) {
			c.MQTT.Broker = "tcp://localhost:1883"
			c.MQTT.QoS = 3
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			if err := Validate(c); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	c := valid()
	c.EnvMon.Sensors[0].Model = "AM2302"
	if err := Validate(c); err != nil {
		t.Fatal(err)
	}
	if c.EnvMon.Sensors[0].Model != "AM2302" {
		t.Fatal("model rewritten")
	}
}

func TestLoad(t *testing.T) {
	doc := `
envmon:
  interval_ms: 3000
  retries: 1
  retry_backoff_ms: 250
  sensors:
    - id: greenhouse
      model: dht22
      pin: GPIO4
mqtt:
  broker: tcp://broker:1883
  client_id: gh
  topic_prefix: farm
  qos: 1
`
	path := filepath.Join(t.TempDir(), "envsense.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(c); err != nil {
		t.Fatal(err)
	}
	if c.EnvMon.Sensors[0] != (SensorConfig{ID: "greenhouse", Model: "dht22", Pin: "GPIO4"}) {
		t.Fatalf("sensor %+v", c.EnvMon.Sensors[0])
	}
	if c.MQTT.Broker != "tcp://broker:1883" || c.MQTT.QoS != 1 || c.MQTT.TopicPrefix != "farm" {
		t.Fatalf("mqtt %+v", c.MQTT)
	}
	sc := c.EnvMon.Service()
	if sc.Interval != 3*time.Second || sc.Retries != 1 || sc.RetryBackoff != 250*time.Millisecond {
		t.Fatalf("service config %+v", sc)
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("envmon:\n  intervl_ms: 10\n"))
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestDefault(t *testing.T) {
	c, err := Default("rpi")
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(c); err != nil {
		t.Fatalf("embedded config invalid: %v", err)
	}
	if _, err := Default("toaster"); err == nil {
		t.Fatal("expected error for unknown device")
	}
}
