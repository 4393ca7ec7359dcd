// Package notify delivers fire-and-forget alerts. Delivery failures are
// logged and swallowed; they never block or fail trading logic.
package notify

// Alerter sends a human-readable alert.
type Alerter interface {
	SendAlert(subject, body string)
}

// Logger is the diagnostics sink alert failures are reported to.
type Logger interface {
	Printf(format string, v ...any)
}

// LogAlerter writes alerts to the diagnostics sink.
type LogAlerter struct {
	Log Logger
}

func (a LogAlerter) SendAlert(subject, body string) {
	if a.Log != nil {
		a.Log.Printf("ALERT %s: %s", subject, body)
	}
}

// Multi fans an alert out to several sinks.
type Multi []Alerter

func (m Multi) SendAlert(subject, body string) {
	for _, a := range m {
		a.SendAlert(subject, body)
	}
}

// Nop discards alerts.
type Nop struct{}

func (Nop) SendAlert(subject, body string) {}
