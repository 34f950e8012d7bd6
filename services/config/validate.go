package config

import (
	"fmt"
	"time"

	"envsense-go/drivers/dht"
	"envsense-go/x/mathx"
)

const maxRetries = 10

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	em := cfg.EnvMon

	if len(em.Sensors) == 0 {
		return fmt.Errorf("envmon: no sensors configured")
	}
	if !mathx.Between(em.Retries, 0, maxRetries) {
		return fmt.Errorf("envmon: retries must be in 0..%d, got %d", maxRetries, em.Retries)
	}
	if em.RetryBackoffMs < 0 {
		return fmt.Errorf("envmon: retry_backoff_ms must not be negative")
	}

	interval := time.Duration(em.IntervalMs) * time.Millisecond
	ids := make(map[string]bool)
	pins := make(map[string]string)

	for i, s := range em.Sensors {
		if s.ID == "" {
			return fmt.Errorf("sensor #%d: missing id", i)
		}
		if ids[s.ID] {
			return fmt.Errorf("sensor %q: duplicate id", s.ID)
		}
		ids[s.ID] = true

		m, ok := dht.ParseModel(s.Model)
		if !ok {
			return fmt.Errorf("sensor %q: unknown model %q", s.ID, s.Model)
		}

		if s.Pin == "" {
			return fmt.Errorf("sensor %q: missing pin", s.ID)
		}
		if prev, taken := pins[s.Pin]; taken {
			return fmt.Errorf("sensor %q: pin %s already used by %q", s.ID, s.Pin, prev)
		}
		pins[s.Pin] = s.ID

		if interval < m.MinInterval() {
			return fmt.Errorf(
				"sensor %q: interval_ms=%d is below the %s minimum of %v",
				s.ID, em.IntervalMs, m, m.MinInterval(),
			)
		}
	}

	if cfg.MQTT.Broker != "" && cfg.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt: qos must be 0, 1 or 2")
	}
	return nil
}
