//go:build rp2040

package main

import (
	"context"
	"time"

	"envsense-go/drivers/dht"
	"envsense-go/services/envmon"
	"envsense-go/types"

	"machine"
)

const dataPin = machine.GP15

// openDrain drives the line low as an output and releases it as a pulled-up
// input; the RP2040 has no native open-drain mode.
type openDrain struct{ p machine.Pin }

func (o openDrain) Set(high bool) {
	if high {
		o.p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		return
	}
	o.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	o.p.Low()
}

func (o openDrain) Get() bool { return o.p.Get() }

// printEmitter writes values to the USB console without fmt.
type printEmitter struct{}

func (printEmitter) Emit(ev envmon.Event) bool {
	if ev.Err != "" {
		println("[env]", ev.Addr.Name, ev.Addr.Kind, "error:", ev.Err)
		return true
	}
	switch v := ev.Payload.(type) {
	case types.TemperatureValue:
		println("[env]", ev.Addr.Name, "temperature deci_c:", v.DeciC)
	case types.HumidityValue:
		println("[env]", ev.Addr.Name, "humidity rh_x100:", v.RHx100)
	}
	return true
}

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot")

	pin := openDrain{p: dataPin}
	pin.Set(true)

	d := dht.New(pin, dht.Config{Model: dht.DHT22})

	svc := envmon.New(envmon.Config{
		Interval:     2 * time.Second,
		Retries:      2,
		RetryBackoff: 100 * time.Millisecond,
	}, printEmitter{})
	svc.Add("env0", dht.DHT22, "GP15", &d)

	println("[main] starting envmon …")
	svc.Run(context.Background())
}
