// Package mqtt publishes air quality metrics to an MQTT broker.
package mqtt

import (
	"net"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultPort    = "1883"
	connectTimeout = 10 * time.Second
	quiesceMillis  = 250
)

// Publisher delivers values in the background via the paho client.
type Publisher struct {
	client paho.Client
	log    logrus.FieldLogger
}

// Connect opens a connection to broker, which may be a host, host:port or
// a full URL. The connection is not retried.
func Connect(broker string, log logrus.FieldLogger) (*Publisher, error) {
	url := BrokerURL(broker)
	opts := paho.NewClientOptions().
		AddBroker(url).
		SetClientID("bme680-mqtt-" + uuid.NewString()).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Errorf("lost connection to MQTT broker: %s", err)
		})
	c := paho.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "unable to connect to MQTT broker at %s", url)
	}
	log.Infof("connected to MQTT broker at %s", url)
	return New(c, log), nil
}

// New wraps an already connected client.
func New(c paho.Client, log logrus.FieldLogger) *Publisher {
	return &Publisher{client: c, log: log}
}

// Publish sends value with QoS 0 and returns without waiting for delivery.
func (p *Publisher) Publish(topic, value string) {
	token := p.client.Publish(topic, 0, false, value)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			p.log.Errorf("failed to publish to %s: %s", topic, err)
		}
	}()
}

func (p *Publisher) Close() {
	p.client.Disconnect(quiesceMillis)
}

// BrokerURL completes a bare broker host into a tcp URL on the default port.
func BrokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	if _, _, err := net.SplitHostPort(broker); err != nil {
		broker = net.JoinHostPort(broker, defaultPort)
	}
	return "tcp://" + broker
}
