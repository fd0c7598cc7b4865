package mqtt

import (
	"io"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.Wait() }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  interface{}
}

// fakeClient records publishes; methods not overridden panic.
type fakeClient struct {
	paho.Client

	mu           sync.Mutex
	messages     []message
	tokens       []*fakeToken
	publishErr   error
	disconnected uint
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message{topic, qos, retained, payload})
	t := &fakeToken{done: make(chan struct{}), err: c.publishErr}
	c.tokens = append(c.tokens, t)
	return t
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.disconnected = quiesce
}

func TestPublishDoesNotWait(t *testing.T) {
	c := new(fakeClient)
	l := logrus.New()
	l.SetOutput(io.Discard)
	p := New(c, l)

	// tokens are never completed, Publish must still return
	p.Publish("hass_bme680/bme680-0x76-humidity", "40.0")
	p.Publish("hass_bme680/bme680-0x76-air_qual", "91.67")

	require.Len(t, c.messages, 2)
	assert.Equal(t, message{"hass_bme680/bme680-0x76-humidity", 0, false, "40.0"}, c.messages[0])
	assert.Equal(t, "91.67", c.messages[1].payload)
}

func TestPublishLogsDeliveryFailure(t *testing.T) {
	c := &fakeClient{publishErr: errors.New("not connected")}
	l, hook := test.NewNullLogger()
	p := New(c, l)
	p.Publish("t", "1.0")
	close(c.tokens[0].done)

	assert.Eventually(t, func() bool {
		e := hook.LastEntry()
		return e != nil && e.Level == logrus.ErrorLevel
	}, time.Second, 5*time.Millisecond)
}

func TestClose(t *testing.T) {
	c := new(fakeClient)
	New(c, logrus.New()).Close()
	assert.Equal(t, uint(quiesceMillis), c.disconnected)
}

func TestBrokerURL(t *testing.T) {
	tests := map[string]string{
		"127.0.0.1":               "tcp://127.0.0.1:1883",
		"broker.lan:1884":         "tcp://broker.lan:1884",
		"ssl://broker.lan:8883":   "ssl://broker.lan:8883",
		"::1":                     "tcp://[::1]:1883",
		"ws://broker.lan:80/mqtt": "ws://broker.lan:80/mqtt",
	}
	for in, want := range tests {
		assert.Equal(t, want, BrokerURL(in), in)
	}
}
