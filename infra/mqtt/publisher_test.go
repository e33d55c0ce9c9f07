package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/quentinv/taxitrace/core/model"
	"github.com/quentinv/taxitrace/infra/logger"
)

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool { return true }

func (t fakeToken) WaitTimeout(time.Duration) bool { return true }

func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t fakeToken) Error() error { return t.err }

type fakeClient struct {
	topic   string
	payload []byte
}

func (f *fakeClient) IsConnected() bool { return true }

func (f *fakeClient) Connect() paho.Token { return fakeToken{} }

func (f *fakeClient) Disconnect(uint) {}

func (f *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	f.topic = topic
	f.payload = payload.([]byte)
	return fakeToken{}
}

func TestPublishSample(t *testing.T) {
	fc := &fakeClient{}
	c := &Client{cli: fc, topicRoot: "taxitrace/fleet", log: logger.NopLogger{}}
	s := model.Sample{Lat: 37.75, Lon: -122.39, Occupied: true, Time: time.Unix(1213084659, 0)}
	if err := c.PublishSample("cab1", s); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if fc.topic != "taxitrace/fleet/cab1/position" {
		t.Fatalf("unexpected topic %s", fc.topic)
	}
	var msg positionMessage
	if err := json.Unmarshal(fc.payload, &msg); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if msg.VehicleID != "cab1" || !msg.Occupied || msg.Timestamp != 1213084659 {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Broker: "tcp://localhost:1883"}
	cfg.SetDefaults()
	if cfg.TopicRoot != "taxitrace/fleet" || cfg.ClientID == "" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadTLSConfigMissingFiles(t *testing.T) {
	if _, err := (Config{UseTLS: true}).LoadTLSConfig(); err == nil {
		t.Fatalf("expected error for missing tls material")
	}
}
