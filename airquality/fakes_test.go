package airquality

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// fakeClock advances only when slept on.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
	// cancels the context once this many sleeps happened, 0 = never
	stopAfter int
	cancel    context.CancelFunc
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2020, time.December, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	if c.stopAfter > 0 && len(c.sleeps) >= c.stopAfter && c.cancel != nil {
		c.cancel()
	}
	return ctx.Err()
}

// scriptedSource replays readings, repeating the last one forever.
type scriptedSource struct {
	readings []Reading
	errs     []error
	calls    int
}

func (s *scriptedSource) Read() (Reading, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return Reading{}, s.errs[i]
	}
	if i >= len(s.readings) {
		i = len(s.readings) - 1
	}
	return s.readings[i], nil
}

func constantSource(r Reading) *scriptedSource {
	return &scriptedSource{readings: []Reading{r}}
}

type published struct {
	topic string
	value string
}

type recordingPublisher struct {
	messages []published
}

func (p *recordingPublisher) Publish(topic, value string) {
	p.messages = append(p.messages, published{topic, value})
}

type recordingObserver struct {
	baselines []Baseline
	samples   []Metrics
	skipped   []SkipReason
}

func (o *recordingObserver) Calibrated(b Baseline) { o.baselines = append(o.baselines, b) }
func (o *recordingObserver) Sampled(m Metrics)     { o.samples = append(o.samples, m) }
func (o *recordingObserver) Skipped(r SkipReason)  { o.skipped = append(o.skipped, r) }

var errBus = errors.New("i2c bus error")

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
