package validator

import "fmt"

// Severity represents the severity level of a validation message
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Detail carries optional structured context for a message (item codes,
// offending values, and similar).
type Detail map[string]string

// Message is a single validation finding produced by a rule.
type Message struct {
	RuleID   string   `json:"rule_id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Path     string   `json:"path,omitempty"`
	Detail   Detail   `json:"detail,omitempty"`
}

// String renders the message in the canonical "[ruleId] message at path" form.
func (m Message) String() string {
	if m.Path != "" {
		return fmt.Sprintf("[%s] %s at %s", m.RuleID, m.Message, m.Path)
	}
	return fmt.Sprintf("[%s] %s", m.RuleID, m.Message)
}

// Result is the aggregate outcome of one validation pass. Valid is true
// exactly when the error list is empty.
type Result struct {
	Valid    bool      `json:"valid"`
	Errors   []Message `json:"errors"`
	Warnings []Message `json:"warnings"`
	Info     []Message `json:"info"`
}

// NewResult returns an empty, valid result.
func NewResult() *Result {
	return &Result{Valid: true}
}

// AddError appends an error message and marks the result invalid.
func (r *Result) AddError(ruleID, message, path string, detail ...Detail) {
	r.Errors = append(r.Errors, newMessage(ruleID, SeverityError, message, path, detail))
	r.Valid = false
}

// AddWarning appends a warning message. Warnings never affect Valid.
func (r *Result) AddWarning(ruleID, message, path string, detail ...Detail) {
	r.Warnings = append(r.Warnings, newMessage(ruleID, SeverityWarning, message, path, detail))
}

// AddInfo appends an informational message.
func (r *Result) AddInfo(ruleID, message, path string, detail ...Detail) {
	r.Info = append(r.Info, newMessage(ruleID, SeverityInfo, message, path, detail))
}

// Merge appends the other result's messages, preserving each side's order,
// and ANDs validity. Merge is associative; message lists are concatenated,
// never interleaved, so repeated runs produce identical output.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
}

func newMessage(ruleID string, sev Severity, message, path string, detail []Detail) Message {
	m := Message{RuleID: ruleID, Severity: sev, Message: message, Path: path}
	if len(detail) > 0 {
		m.Detail = detail[len(detail)-1]
	}
	return m
}
