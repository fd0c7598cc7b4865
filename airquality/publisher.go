package airquality

// Publisher hands a value to the message bus without waiting for delivery.
type Publisher interface {
	Publish(topic, value string)
}

// Observer is notified about pipeline progress. Used for metrics export.
type Observer interface {
	Calibrated(b Baseline)
	Sampled(m Metrics)
	Skipped(reason SkipReason)
}

type SkipReason string

const (
	SkipUnstable SkipReason = "unstable"
	SkipError    SkipReason = "error"
)

type nopObserver struct{}

func (nopObserver) Calibrated(Baseline) {}
func (nopObserver) Sampled(Metrics)     {}
func (nopObserver) Skipped(SkipReason)  {}
