package diag

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Severity classifies a Diagnostic. Errors block emission, warnings do not.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText lets severities appear by name in JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is a single structured finding about a document.
type Diagnostic struct {
	Severity Severity   `json:"severity" yaml:"severity"`
	Code     string     `json:"code" yaml:"code"`
	Summary  string     `json:"summary" yaml:"summary"`
	Detail   string     `json:"detail,omitempty" yaml:"detail,omitempty"`
	Subjects []string   `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	Range    *hcl.Range `json:"-" yaml:"-"`
}

// Line returns the 1-based source line of the diagnostic, or 0 if unknown.
func (d Diagnostic) Line() int {
	if d.Range == nil {
		return 0
	}
	return d.Range.Start.Line
}

// String renders the diagnostic on one line, e.g.
// "main.sub:7: error E.VOLT.MISMATCH: voltage mismatch [a b]".
func (d Diagnostic) String() string {
	var sb strings.Builder
	if d.Range != nil {
		if d.Range.Filename != "" {
			sb.WriteString(d.Range.Filename)
			sb.WriteRune(':')
		}
		fmt.Fprintf(&sb, "%d: ", d.Range.Start.Line)
	}
	fmt.Fprintf(&sb, "%s %s: %s", d.Severity, d.Code, d.Summary)
	if len(d.Subjects) > 0 {
		fmt.Fprintf(&sb, " %v", d.Subjects)
	}
	return sb.String()
}

// HCL converts the diagnostic into its hcl equivalent for rendering.
func (d Diagnostic) HCL() *hcl.Diagnostic {
	sev := hcl.DiagError
	if d.Severity == SeverityWarning {
		sev = hcl.DiagWarning
	}
	detail := d.Detail
	if len(d.Subjects) > 0 {
		ids := "Identifiers: " + strings.Join(d.Subjects, ", ")
		if detail == "" {
			detail = ids
		} else {
			detail = detail + "\n" + ids
		}
	}
	return &hcl.Diagnostic{
		Severity: sev,
		Summary:  fmt.Sprintf("[%s] %s", d.Code, d.Summary),
		Detail:   detail,
		Subject:  d.Range,
	}
}

// Diagnostics is an ordered list of findings.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics.
func (ds Diagnostics) Errors() Diagnostics {
	return ds.filter(SeverityError)
}

// Warnings returns only the warning-severity diagnostics.
func (ds Diagnostics) Warnings() Diagnostics {
	return ds.filter(SeverityWarning)
}

func (ds Diagnostics) filter(sev Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// WithCode returns the diagnostics carrying the given code.
func (ds Diagnostics) WithCode(code string) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// HCL converts the list for use with hcl diagnostic writers.
func (ds Diagnostics) HCL() hcl.Diagnostics {
	out := make(hcl.Diagnostics, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.HCL())
	}
	return out
}

// Report is the outcome of one validation pass.
type Report struct {
	Diagnostics Diagnostics
}

// HasErrors reports whether the validation pass found errors. A nil report
// means validation never ran and is treated as failing.
func (r *Report) HasErrors() bool {
	if r == nil {
		return true
	}
	return r.Diagnostics.HasErrors()
}
