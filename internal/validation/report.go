// Package validation holds the load-time gates: structural checks over a
// loaded world and hook checks over a finalised behavior registry. All
// offences are accumulated and surfaced together; the engine never starts
// in partial validity.
package validation

import (
	"fmt"
	"strings"
)

// Report aggregates validation errors and advisory warnings. It implements
// error; Err returns nil when no hard errors were recorded.
type Report struct {
	Errors   []string
	Warnings []string
}

// Errorf records a hard error.
func (r *Report) Errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Warnf records an advisory warning. Warnings never block a load.
func (r *Report) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge folds another report's findings into this one.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// OK reports whether no hard errors were recorded.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

func (r *Report) Error() string {
	if r.OK() {
		return "validation passed"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "validation failed with %d error(s):", len(r.Errors))
	for _, e := range r.Errors {
		b.WriteString("\n  - ")
		b.WriteString(e)
	}
	return b.String()
}

// Err returns the report as an error, or nil when it is clean.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return r
}
