package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"assembler-generator/internal/common"
)

// Diagnostics holds the notes a scan produced besides its findings, one
// slice per severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic is one note about a call site or the scan itself.
type Diagnostic struct {
	Severity DiagnosticSeverity
	// Code is a verdict name or one of the Code* constants.
	Code    string
	Message string
	// TypePair is "source -> target" when the note concerns a type pair.
	TypePair string
	// Location is the call site as path#site.
	Location string
	// Suggestions are the labels of the fixes offered for the site.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

func (d *Diagnostics) add(severity DiagnosticSeverity, code, message, typePair, location string, suggestions []string) {
	diag := Diagnostic{
		Severity:    severity,
		Code:        code,
		Message:     message,
		TypePair:    typePair,
		Location:    location,
		Suggestions: suggestions,
	}

	switch severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError records a failure of the scan itself.
func (d *Diagnostics) AddError(code, message, typePair, location string) {
	d.add(DiagnosticError, code, message, typePair, location, nil)
}

// AddWarning records a site that needs a conversion, with the labels of the
// fixes offered for it.
func (d *Diagnostics) AddWarning(code, message, typePair, location string, suggestions ...string) {
	d.add(DiagnosticWarning, code, message, typePair, location, suggestions)
}

// AddInfo records a site that was classified but needs nothing.
func (d *Diagnostics) AddInfo(code, message, typePair, location string) {
	d.add(DiagnosticInfo, code, message, typePair, location, nil)
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Len returns the number of diagnostics of every severity.
func (d *Diagnostics) Len() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// Merge appends other to d, keeping the order within each severity.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// Error joins the error diagnostics, or returns nil when there are none.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String formats the diagnostic as "[pair] location: [code] message", with
// suggestions appended after " fixes: ".
func (d Diagnostic) String() string {
	var prefix []string
	if d.TypePair != "" {
		prefix = append(prefix, "["+d.TypePair+"]")
	}

	if d.Location != "" {
		prefix = append(prefix, d.Location)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " fixes: " + strings.Join(d.Suggestions, "; ")
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
