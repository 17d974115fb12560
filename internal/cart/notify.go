package cart

// Severity levels for store notifications.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a user-facing message carried by a store event. MessageKey is an
// i18n key resolved at the presentation layer. Persistent notices stay
// visible until the condition that raised them clears.
type Notice struct {
	Severity   Severity `json:"severity"`
	MessageKey string   `json:"message_key"`
	Persistent bool     `json:"persistent"`
}

// Event is delivered to every observer after each committed mutation (and on
// a failed persist, with the unchanged prior state). Warnings holds the
// standing conditions, currently only the over-quantity warning.
type Event struct {
	Owner    string   `json:"owner"`
	Lines    []Line   `json:"lines"`
	Summary  Summary  `json:"summary"`
	Notice   *Notice  `json:"notice,omitempty"`
	Warnings []Notice `json:"warnings,omitempty"`
}

// Observer receives store events synchronously, in subscription order.
type Observer func(Event)
