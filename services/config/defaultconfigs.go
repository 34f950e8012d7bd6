package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (the -device flag)
// Val: raw YAML for that device
// -----------------------------------------------------------------------------

const cfgRPi = `
envmon:
  interval_ms: 2000
  retries: 2
  retry_backoff_ms: 100
  sensors:
    - id: env0
      model: dht22
      pin: GPIO4
mqtt:
  broker: ""
  client_id: envsense
  topic_prefix: envsense
`

var embeddedConfigs = map[string][]byte{
	"rpi": []byte(cfgRPi),
}

// EmbeddedConfigLookup allows overriding how embedded configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}
