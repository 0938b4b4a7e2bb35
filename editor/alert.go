package editor

import "time"

type (
	// Alert is a transient message shown to the user. Alerts with a name
	// replace an existing alert of the same name instead of stacking, so
	// repeating operations (for example, spamming paste with an empty
	// clipboard) do not flood the UI.
	Alert struct {
		Name     string
		Message  string
		Priority AlertPriority
		ttl      time.Duration
	}

	AlertPriority int

	Alerts struct {
		alerts []Alert
	}
)

const (
	Info AlertPriority = iota
	Warning
	Error
)

const defaultAlertTTL = 3 * time.Second

// Add pushes an anonymous alert.
func (a *Alerts) Add(message string, priority AlertPriority) {
	a.AddNamed("", message, priority)
}

// AddNamed pushes an alert, replacing any live alert with the same non-empty
// name.
func (a *Alerts) AddNamed(name, message string, priority AlertPriority) {
	alert := Alert{Name: name, Message: message, Priority: priority, ttl: defaultAlertTTL}
	if name != "" {
		for i := range a.alerts {
			if a.alerts[i].Name == name {
				a.alerts[i] = alert
				return
			}
		}
	}
	a.alerts = append(a.alerts, alert)
}

// Update ages the alerts by the elapsed time and drops the expired ones.
func (a *Alerts) Update(elapsed time.Duration) {
	live := a.alerts[:0]
	for _, alert := range a.alerts {
		alert.ttl -= elapsed
		if alert.ttl > 0 {
			live = append(live, alert)
		}
	}
	a.alerts = live
}

// Iterate calls yield for each live alert, oldest first, stopping early if
// yield returns false.
func (a *Alerts) Iterate(yield func(Alert) bool) {
	for _, alert := range a.alerts {
		if !yield(alert) {
			return
		}
	}
}
