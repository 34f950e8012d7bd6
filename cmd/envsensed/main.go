// Command envsensed polls DHT sensors wired to a Linux host's GPIO and
// publishes their readings to MQTT.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"envsense-go/drivers/dht"
	"envsense-go/drivers/dht/dhtperiph"
	"envsense-go/services/config"
	"envsense-go/services/envmon"
	"envsense-go/services/mqttpub"
	"envsense-go/types"

	"periph.io/x/host/v3"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	device := flag.String("device", "rpi", "embedded configuration used when -config is empty")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *device)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	if _, err := host.Init(); err != nil {
		log.Fatalf("periph host init: %v", err)
	}

	var pub envmon.EventEmitter = logEmitter{}
	if cfg.MQTT.Broker != "" {
		p, err := mqttpub.Dial(mqttpub.Config{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			QoS:         cfg.MQTT.QoS,
		})
		if err != nil {
			log.Fatalf("mqtt: %v", err)
		}
		defer p.Close()
		pub = p
	}

	svc := envmon.New(cfg.EnvMon.Service(), pub)
	for _, sc := range cfg.EnvMon.Sensors {
		model, _ := dht.ParseModel(sc.Model) // validated
		pin, err := dhtperiph.Open(sc.Pin)
		if err != nil {
			log.Fatalf("sensor %s: %v", sc.ID, err)
		}
		d := dht.New(pin, dht.Config{Model: model})
		svc.Add(sc.ID, model, sc.Pin, &d)
		log.Printf("sensor %s: %s on %s", sc.ID, model, pin)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc.Run(ctx)
	log.Println("envsensed: shutting down")
}

func loadConfig(path, device string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Default(device)
}

// logEmitter prints readings when no broker is configured.
type logEmitter struct{}

func (logEmitter) Emit(ev envmon.Event) bool {
	if ev.Err != "" {
		log.Printf("%s/%s: %s", ev.Addr.Name, ev.Addr.Kind, ev.Err)
		return true
	}
	switch v := ev.Payload.(type) {
	case types.TemperatureValue:
		log.Printf("%s: temperature %s", ev.Addr.Name, dhtperiph.Env(int32(v.DeciC), 0).Temperature)
	case types.HumidityValue:
		log.Printf("%s: humidity %s", ev.Addr.Name, dhtperiph.Env(0, int32(v.RHx100)/10).Humidity)
	}
	return true
}
