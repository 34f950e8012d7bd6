// Package mqttpub publishes envmon capability events to an MQTT broker.
package mqttpub

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"envsense-go/services/envmon"
	"envsense-go/types"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type Config struct {
	Broker      string // e.g. "tcp://localhost:1883"
	ClientID    string
	TopicPrefix string // default "envsense"
	QoS         byte
}

// client is the subset of mqtt.Client used here.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Publisher maps events to retained topics:
//
//	<prefix>/<domain>/<kind>/<name>/value   JSON value payload
//	<prefix>/<domain>/<kind>/<name>/status  types.CapabilityStatus on link changes
type Publisher struct {
	c      client
	prefix string
	qos    byte

	mu    sync.Mutex
	links map[envmon.CapAddr]types.Link
}

var _ envmon.EventEmitter = (*Publisher)(nil)

// Dial connects to the broker and waits for the first connection.
func Dial(cfg Config) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, token.Error())
	}
	log.Printf("mqttpub: connected to %s", cfg.Broker)
	return newPublisher(c, cfg), nil
}

func newPublisher(c client, cfg Config) *Publisher {
	prefix := strings.TrimSuffix(cfg.TopicPrefix, "/")
	if prefix == "" {
		prefix = "envsense"
	}
	return &Publisher{c: c, prefix: prefix, qos: cfg.QoS, links: map[envmon.CapAddr]types.Link{}}
}

func (p *Publisher) topic(a envmon.CapAddr, leaf string) string {
	return p.prefix + "/" + a.Domain + "/" + a.Kind + "/" + a.Name + "/" + leaf
}

// Emit publishes without waiting for broker acknowledgement. It returns false
// when the payload cannot be encoded or the client rejects it immediately.
func (p *Publisher) Emit(ev envmon.Event) bool {
	if ev.Err != "" {
		return p.setLink(ev.Addr, types.LinkDegraded, ev.Err, ev.TS)
	}
	b, err := json.Marshal(ev.Payload)
	if err != nil {
		log.Printf("mqttpub: encode %s: %v", p.topic(ev.Addr, "value"), err)
		return false
	}
	if !p.publish(p.topic(ev.Addr, "value"), b) {
		return false
	}
	return p.setLink(ev.Addr, types.LinkUp, "", ev.TS)
}

func (p *Publisher) setLink(a envmon.CapAddr, link types.Link, code string, tsNs int64) bool {
	p.mu.Lock()
	prev, seen := p.links[a]
	p.links[a] = link
	p.mu.Unlock()

	// Degraded is republished so each failure code is visible.
	if seen && prev == link && link == types.LinkUp {
		return true
	}
	st := types.CapabilityStatus{Link: link, TS: tsNs / int64(time.Millisecond), Error: code}
	b, _ := json.Marshal(st)
	return p.publish(p.topic(a, "status"), b)
}

func (p *Publisher) publish(topic string, payload []byte) bool {
	tok := p.c.Publish(topic, p.qos, true, payload)
	select {
	case <-tok.Done():
		if err := tok.Error(); err != nil {
			log.Printf("mqttpub: publish %s: %v", topic, err)
			return false
		}
	default:
	}
	return true
}

// Close disconnects, allowing 250 ms for in-flight messages.
func (p *Publisher) Close() {
	p.c.Disconnect(250)
}
