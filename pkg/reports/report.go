package reports

import (
	"fmt"
	"strings"
)

// Kind classifies a report by the failure taxonomy it belongs to
type Kind int

const (
	// KindValidation is domain-invalid input: bad enum value, missing field,
	// duplicate interval
	KindValidation Kind = iota
	// KindResourceState is a reference to something missing from the live
	// cluster or an unexpected cluster state
	KindResourceState
	// KindTransport is a node communication outcome
	KindTransport
	// KindIO is a failure reading or writing a persisted document
	KindIO
	// KindPrecondition is an operation attempted in an environment that
	// cannot support it
	KindPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindResourceState:
		return "resource-state"
	case KindTransport:
		return "transport"
	case KindIO:
		return "io"
	case KindPrecondition:
		return "precondition"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Severity of a report
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityDebug   Severity = "debug"
)

// ForceCode names the override a caller supplies to downgrade a forceable
// error to a warning
type ForceCode string

const (
	ForceOptions     ForceCode = "FORCE_OPTIONS"
	SkipOfflineNodes ForceCode = "SKIP_OFFLINE_NODES"
)

// Item is a single report. Payload holds the structured data of the code and
// is one of the payload types of this package.
type Item struct {
	Kind      Kind
	Code      Code
	Severity  Severity
	Forceable bool
	ForceCode ForceCode
	Payload   Payload
}

// Payload is the structured body of a report
type Payload interface {
	message() string
}

// Message renders a human readable description of the report
func (i Item) Message() string {
	if i.Payload == nil {
		return string(i.Code)
	}
	return i.Payload.message()
}

// String renders the report with its severity prefix the way the CLI prints it
func (i Item) String() string {
	msg := i.Message()
	if i.Severity == SeverityError && i.Forceable {
		msg += forceHint(i.ForceCode)
	}
	sev := string(i.Severity)
	return fmt.Sprintf("%s%s: %s", strings.ToUpper(sev[:1]), sev[1:], msg)
}

func forceHint(code ForceCode) string {
	switch code {
	case SkipOfflineNodes:
		return ", use --skip-offline to override"
	default:
		return ", use --force to override"
	}
}

// SeverityFor returns the severity of a forceable condition: a warning when the
// caller already forced it, otherwise a forceable error.
func SeverityFor(code ForceCode, forced bool) (Severity, bool) {
	if forced {
		return SeverityWarning, false
	}
	return SeverityError, code != ""
}

func newItem(kind Kind, code Code, severity Severity, payload Payload) Item {
	return Item{Kind: kind, Code: code, Severity: severity, Payload: payload}
}

func withForce(item Item, forceable bool, force ForceCode) Item {
	if forceable && force != "" {
		item.Forceable = true
		item.ForceCode = force
	}
	return item
}

// LibraryError carries the reports that aborted an operation
type LibraryError struct {
	Items []Item
}

// NewLibraryError creates an error from one or more reports
func NewLibraryError(items ...Item) *LibraryError {
	return &LibraryError{Items: items}
}

func (e *LibraryError) Error() string {
	messages := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		messages = append(messages, item.Message())
	}
	return strings.Join(messages, "; ")
}

// HasCode reports whether any item carries the code
func (e *LibraryError) HasCode(code Code) bool {
	for _, item := range e.Items {
		if item.Code == code {
			return true
		}
	}
	return false
}

// Codes lists the codes of all items in order
func (e *LibraryError) Codes() []Code {
	codes := make([]Code, 0, len(e.Items))
	for _, item := range e.Items {
		codes = append(codes, item.Code)
	}
	return codes
}
