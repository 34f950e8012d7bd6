// Package dhtperiph connects the dht driver to periph.io GPIO on Linux hosts.
package dhtperiph

import (
	"fmt"

	"envsense-go/drivers/dht"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// Pin emulates an open-drain line on a periph GPIO: low is driven, high is
// released to the input pull-up.
type Pin struct {
	p   gpio.PinIO
	err error // first GPIO error seen
}

var _ dht.Pin = (*Pin)(nil)

// New wraps p and releases the line.
func New(p gpio.PinIO) (*Pin, error) {
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("%s: release: %w", p.Name(), err)
	}
	return &Pin{p: p}, nil
}

// Open resolves name through the periph registry. host.Init must have run.
func Open(name string) (*Pin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("dht pin %q not found", name)
	}
	return New(p)
}

func (p *Pin) Set(high bool) {
	var err error
	if high {
		err = p.p.In(gpio.PullUp, gpio.NoEdge)
	} else {
		err = p.p.Out(gpio.Low)
	}
	if err != nil && p.err == nil {
		p.err = err
	}
}

func (p *Pin) Get() bool { return p.p.Read() == gpio.High }

// Err returns and clears the first GPIO error since the last call.
func (p *Pin) Err() error {
	err := p.err
	p.err = nil
	return err
}

func (p *Pin) String() string { return p.p.Name() }

// Env converts fixed-point readings (tenths of °C and %RH) to physical units.
func Env(deciC, deciRH int32) physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(deciC)*100*physic.MilliKelvin,
		Humidity:    physic.RelativeHumidity(deciRH) * physic.PercentRH / 10,
	}
}
