package types

import "fmt"

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns a string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic codes reported by this subsystem. The analyzer defines its own
// parse-error codes; these cover the indexing layer.
const (
	CodeUnresolvedImport = "unresolved-import"
)

// Diagnostic is a single reportable condition attached to a source span.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Span     Span
}

// String returns a compact single-line rendering for logs and CLI output.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%s] at %s: %s", d.Severity, d.Code, d.Span, d.Message)
}
