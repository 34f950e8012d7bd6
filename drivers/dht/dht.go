// Package dht provides a driver for the DHT11 and DHT22 (AM2302) single-wire
// temperature/humidity sensors.
//
// Acquisition yields a 4-byte Payload; a reading type decodes it:
//
//	r, err := dht.Read[dht.DHT22Reading](dht.BusyDelay{}, pin)
//
// The reading type selects the sensor model. Acquisition errors are returned
// unchanged; decoding itself never fails.
package dht

import (
	"errors"
	"time"
)

// Errors returned by ReadRaw.
var (
	ErrTimeout  = errors.New("dht: timeout")
	ErrChecksum = errors.New("dht: checksum mismatch")
)

// PinError reports a fault raised by the data pin during acquisition.
type PinError struct {
	Err error
}

func (e *PinError) Error() string { return "dht: pin error: " + e.Err.Error() }
func (e *PinError) Unwrap() error { return e.Err }

// Model identifies the attached sensor variant.
type Model uint8

const (
	DHT11 Model = iota + 1
	DHT22

	// AM2302 is the wired package of the DHT22.
	AM2302 = DHT22
)

func (m Model) String() string {
	switch m {
	case DHT11:
		return "dht11"
	case DHT22:
		return "dht22"
	default:
		return "unknown"
	}
}

// ParseModel accepts the names returned by String, plus "am2302".
func ParseModel(s string) (Model, bool) {
	switch s {
	case "dht11", "DHT11":
		return DHT11, true
	case "dht22", "DHT22", "am2302", "AM2302":
		return DHT22, true
	default:
		return 0, false
	}
}

// MinInterval is the shortest period between two acquisitions the sensor
// tolerates. Faster polling returns stale or corrupted frames.
func (m Model) MinInterval() time.Duration {
	if m == DHT11 {
		return time.Second
	}
	return 2 * time.Second
}
