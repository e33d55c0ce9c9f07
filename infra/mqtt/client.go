// Package mqtt streams trace samples to an MQTT broker. It backs the replay
// command, which feeds recorded traces to live dashboards in real time.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/quentinv/taxitrace/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker     string `json:"broker"`
	ClientID   string `json:"client_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	TopicRoot  string `json:"topic_root"`
	QoS        byte   `json:"qos"`
	UseTLS     bool   `json:"use_tls"`
	ClientCert string `json:"client_cert"`
	ClientKey  string `json:"client_key"`
	CABundle   string `json:"ca_bundle"`

	TLSConfig *tls.Config `json:"-"`
}

// SetDefaults applies the default topic root.
func (c *Config) SetDefaults() {
	if c.TopicRoot == "" {
		c.TopicRoot = "taxitrace/fleet"
	}
	if c.ClientID == "" {
		c.ClientID = "taxitrace-replay"
	}
}

// LoadTLSConfig loads the TLS configuration from the file paths in the
// config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// NewClientOptions builds Paho client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Client wraps a connected Paho client for sample publishing.
type Client struct {
	cli       pahoClient
	topicRoot string
	qos       byte
	log       logger.Logger
}

// NewClient connects to the broker.
func NewClient(cfg Config) (*Client, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_client")
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected") }
	opts.OnConnectionLost = func(_ paho.Client, err error) { log.Errorf("connection lost: %v", err) }
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Client{cli: c, topicRoot: cfg.TopicRoot, qos: cfg.QoS, log: log}, nil
}

// Close disconnects from the broker.
func (c *Client) Close() {
	c.cli.Disconnect(250)
}
