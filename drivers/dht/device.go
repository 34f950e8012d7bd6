package dht

import (
	"tinygo.org/x/drivers"
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Model defaults to DHT22.
	Model Model
	// Delay defaults to BusyDelay.
	Delay Delayer
	// Raw defaults to ReadRaw. Replaceable for alternative acquisition paths.
	Raw RawReader
}

// Device wraps the data pin of one sensor.
type Device struct {
	pin Pin
	cfg Config

	deciC  int32 // last temperature, tenths of °C
	deciRH int32 // last humidity, tenths of %RH
}

var _ drivers.Sensor = (*Device)(nil)

// New creates a Device. It does not touch the pin.
func New(pin Pin, cfgs ...Config) Device {
	d := Device{pin: pin}
	d.Configure(cfgs...)
	return d
}

// Configure applies cfg, filling defaults.
func (d *Device) Configure(cfgs ...Config) {
	var c Config
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Model == 0 {
		c.Model = DHT22
	}
	if c.Delay == nil {
		c.Delay = BusyDelay{}
	}
	if c.Raw == nil {
		c.Raw = ReadRaw
	}
	d.cfg = c
}

func (d *Device) Model() Model { return d.cfg.Model }

// Update performs one acquisition when temperature or humidity is requested.
// Cached values are kept on error.
func (d *Device) Update(which drivers.Measurement) error {
	if which&(drivers.Temperature|drivers.Humidity) == 0 {
		return nil
	}
	switch d.cfg.Model {
	case DHT11:
		return update[DHT11Reading](d)
	default:
		return update[DHT22Reading](d)
	}
}

func update[R interface {
	Decoder[R]
	FixedPoint
}](d *Device) error {
	r, err := ReadFrom[R](d.cfg.Raw, d.cfg.Delay, d.pin)
	if err != nil {
		return err
	}
	d.deciC = r.DeciCelsius()
	d.deciRH = r.DeciRelHumidity()
	return nil
}

// DeciCelsius returns tenths of °C from the last Update.
func (d *Device) DeciCelsius() int32 { return d.deciC }

// DeciRelHumidity returns tenths of %RH from the last Update.
func (d *Device) DeciRelHumidity() int32 { return d.deciRH }

// Temperature returns milli-°C.
func (d *Device) Temperature() int32 { return d.deciC * 100 }

// Humidity returns hundredths of %RH.
func (d *Device) Humidity() int32 { return d.deciRH * 10 }
