// Package envmon polls temperature/humidity sensors and emits their values as
// capability events.
package envmon

import (
	"context"
	"time"

	"envsense-go/drivers/dht"
	"envsense-go/errcode"
	"envsense-go/types"
	"envsense-go/x/mathx"

	"tinygo.org/x/drivers"
)

const domain = "env"

// Sensor is satisfied by *dht.Device.
type Sensor interface {
	Update(which drivers.Measurement) error
	DeciCelsius() int32
	DeciRelHumidity() int32
}

// CapAddr identifies one published capability: <domain>/<kind>/<name>.
type CapAddr struct {
	Domain string
	Kind   string
	Name   string
}

type CapabilitySpec struct {
	Addr CapAddr
	Info types.Info
}

// Event is a value update for a capability. Err, when non-empty, marks the
// capability degraded instead.
type Event struct {
	Addr    CapAddr
	Payload any   // types.TemperatureValue or types.HumidityValue
	TS      int64 // unix ns
	Err     string
}

// EventEmitter must not block; false indicates a drop.
type EventEmitter interface {
	Emit(ev Event) bool
}

type Config struct {
	// Interval between polling rounds. Raised to the slowest sensor's
	// minimum interval.
	Interval time.Duration
	// Retries after a failed acquisition within one round.
	Retries int
	// RetryBackoff between attempts. Default 100 ms.
	RetryBackoff time.Duration
}

type entry struct {
	id    string
	model dht.Model
	pin   string
	s     Sensor

	addrTemp CapAddr
	addrHum  CapAddr
}

type Service struct {
	cfg     Config
	pub     EventEmitter
	sensors []*entry

	sleep func(time.Duration)
	now   func() time.Time
}

func New(cfg Config, pub EventEmitter) *Service {
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	return &Service{cfg: cfg, pub: pub, sleep: time.Sleep, now: time.Now}
}

// Add registers a sensor under id. pin is informational.
func (s *Service) Add(id string, model dht.Model, pin string, sen Sensor) {
	s.sensors = append(s.sensors, &entry{
		id:       id,
		model:    model,
		pin:      pin,
		s:        sen,
		addrTemp: CapAddr{Domain: domain, Kind: string(types.KindTemperature), Name: id},
		addrHum:  CapAddr{Domain: domain, Kind: string(types.KindHumidity), Name: id},
	})
}

func (s *Service) Capabilities() []CapabilitySpec {
	out := make([]CapabilitySpec, 0, 2*len(s.sensors))
	for _, e := range s.sensors {
		drv := e.model.String()
		out = append(out,
			CapabilitySpec{
				Addr: e.addrTemp,
				Info: types.Info{
					SchemaVersion: 1, Driver: drv,
					Detail: types.TemperatureInfo{Sensor: drv, Pin: e.pin},
				},
			},
			CapabilitySpec{
				Addr: e.addrHum,
				Info: types.Info{
					SchemaVersion: 1, Driver: drv,
					Detail: types.HumidityInfo{Sensor: drv, Pin: e.pin},
				},
			},
		)
	}
	return out
}

// Interval returns the effective polling interval.
func (s *Service) Interval() time.Duration {
	iv := s.cfg.Interval
	if iv <= 0 {
		iv = dht.DHT22.MinInterval()
	}
	for _, e := range s.sensors {
		if m := e.model.MinInterval(); iv < m {
			iv = m
		}
	}
	return iv
}

// Poll runs one measurement round over all sensors.
func (s *Service) Poll() {
	for _, e := range s.sensors {
		s.measure(e)
	}
}

func (s *Service) measure(e *entry) {
	t0 := s.now().UnixNano()
	var err error
	for attempt := 0; attempt <= s.cfg.Retries; attempt++ {
		if attempt > 0 {
			s.sleep(s.cfg.RetryBackoff)
		}
		if err = e.s.Update(drivers.Temperature | drivers.Humidity); err == nil {
			break
		}
	}
	if err != nil {
		println("[envmon]", e.id, "read failed:", err.Error())
		s.emitErr(e, string(errcode.MapDriverErr(err)), t0)
		return
	}

	decic := mathx.Clamp(e.s.DeciCelsius(), -32768, 32767)
	rhx100 := mathx.Clamp(e.s.DeciRelHumidity()*10, 0, 10000)

	ts := s.now().UnixNano()
	s.pub.Emit(Event{
		Addr:    e.addrTemp,
		Payload: types.TemperatureValue{DeciC: int16(decic)},
		TS:      ts,
	})
	s.pub.Emit(Event{
		Addr:    e.addrHum,
		Payload: types.HumidityValue{RHx100: uint16(rhx100)},
		TS:      ts,
	})
}

func (s *Service) emitErr(e *entry, code string, t0 int64) {
	s.pub.Emit(Event{Addr: e.addrTemp, Err: code, TS: t0})
	s.pub.Emit(Event{Addr: e.addrHum, Err: code, TS: t0})
}

// Run polls immediately and then every Interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	iv := s.Interval()
	println("[envmon] polling", len(s.sensors), "sensor(s) every", iv.String())

	tick := time.NewTicker(iv)
	defer tick.Stop()

	s.Poll()
	for {
		select {
		case <-ctx.Done():
			println("[envmon] stopping")
			return
		case <-tick.C:
			s.Poll()
		}
	}
}
