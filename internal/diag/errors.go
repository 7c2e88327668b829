package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Codes for the fatal structural errors.
const (
	CodeParse             = "E.PARSE"
	CodeUnknownIdentifier = "E.REF.UNKNOWN"
	CodeForwardReference  = "E.REF.FORWARD"
	CodeDuplicateID       = "E.ID.DUP"
	CodeInvalidBay        = "E.BAY.ASSIGN"
	CodeInvalidAttribute  = "E.ATTR.INVALID"
	CodeEmitUnvalidated   = "E.EMIT.UNVALIDATED"
)

// Fatal is implemented by every error that aborts a compilation. It exposes
// the error as a Diagnostic so callers can report it with the rest.
type Fatal interface {
	error
	Diagnostic() Diagnostic
}

// AsDiagnostic converts any error into a Diagnostic. Errors that do not
// implement Fatal become a generic error diagnostic.
func AsDiagnostic(err error) Diagnostic {
	var f Fatal
	if errors.As(err, &f) {
		return f.Diagnostic()
	}
	return Diagnostic{Severity: SeverityError, Code: "E.INTERNAL", Summary: err.Error()}
}

func rangePtr(r hcl.Range) *hcl.Range {
	if r.Start.Line == 0 && r.Filename == "" {
		return nil
	}
	return &r
}

// ParseError reports malformed command syntax or attribute values.
type ParseError struct {
	Filename string
	Line     int
	Column   int
	Text     string
	Message  string
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.Filename != "" {
		loc = fmt.Sprintf("%s:%d", e.Filename, e.Line)
	}
	if e.Text == "" {
		return fmt.Sprintf("parse error at %s: %s", loc, e.Message)
	}
	return fmt.Sprintf("parse error at %s: %s: %q", loc, e.Message, e.Text)
}

// Range returns the source position of the offending text.
func (e *ParseError) Range() hcl.Range {
	col := e.Column
	if col < 1 {
		col = 1
	}
	return hcl.Range{
		Filename: e.Filename,
		Start:    hcl.Pos{Line: e.Line, Column: col},
		End:      hcl.Pos{Line: e.Line, Column: col + len(e.Text)},
	}
}

func (e *ParseError) Diagnostic() Diagnostic {
	r := e.Range()
	return Diagnostic{
		Severity: SeverityError,
		Code:     CodeParse,
		Summary:  e.Message,
		Detail:   e.Text,
		Range:    &r,
	}
}

// UnknownIdentifierError reports a reference to an identifier that is not
// defined in the registry.
type UnknownIdentifierError struct {
	ID    string
	Range hcl.Range
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown identifier %q", e.ID)
}

func (e *UnknownIdentifierError) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     CodeUnknownIdentifier,
		Summary:  e.Error(),
		Subjects: []string{e.ID},
		Range:    rangePtr(e.Range),
	}
}

// ForwardReferenceError reports an entity attribute referring to an
// identifier that has not been declared yet.
type ForwardReferenceError struct {
	From      string
	Attribute string
	ID        string
	Range     hcl.Range
}

func (e *ForwardReferenceError) Error() string {
	return fmt.Sprintf("%s of %q refers to %q, which is not declared before it", e.Attribute, e.From, e.ID)
}

func (e *ForwardReferenceError) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     CodeForwardReference,
		Summary:  e.Error(),
		Subjects: []string{e.ID, e.From},
		Range:    rangePtr(e.Range),
	}
}

// DuplicateIdentifierError reports a second definition of an identifier.
type DuplicateIdentifierError struct {
	ID       string
	Kind     string
	Previous hcl.Range
	Range    hcl.Range
}

func (e *DuplicateIdentifierError) Error() string {
	if e.Previous.Start.Line > 0 {
		return fmt.Sprintf("identifier %q is already defined as %s at line %d", e.ID, e.Kind, e.Previous.Start.Line)
	}
	return fmt.Sprintf("identifier %q is already defined as %s", e.ID, e.Kind)
}

func (e *DuplicateIdentifierError) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     CodeDuplicateID,
		Summary:  e.Error(),
		Subjects: []string{e.ID},
		Range:    rangePtr(e.Range),
	}
}

// InvalidBayAssignmentError reports an APPEND_TO_BAY that cannot be applied.
type InvalidBayAssignmentError struct {
	BayID    string
	ObjectID string
	Reason   string
	Range    hcl.Range
}

func (e *InvalidBayAssignmentError) Error() string {
	return fmt.Sprintf("cannot assign %q to bay %q: %s", e.ObjectID, e.BayID, e.Reason)
}

func (e *InvalidBayAssignmentError) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     CodeInvalidBay,
		Summary:  e.Error(),
		Subjects: []string{e.BayID, e.ObjectID},
		Range:    rangePtr(e.Range),
	}
}

// InvalidAttributeError reports an entity whose attribute values violate
// their declared constraints.
type InvalidAttributeError struct {
	ID       string
	Problems []string
	Range    hcl.Range
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("entity %q has invalid attributes: %s", e.ID, strings.Join(e.Problems, "; "))
}

func (e *InvalidAttributeError) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     CodeInvalidAttribute,
		Summary:  e.Error(),
		Subjects: []string{e.ID},
		Range:    rangePtr(e.Range),
	}
}

// EmitWithoutValidationError reports an EMIT_SPEC that is not preceded by a
// successful, current VALIDATE.
type EmitWithoutValidationError struct {
	// Errors is the number of outstanding validation errors; zero means
	// validation never ran or went stale.
	Errors int
	// StaleAt is the line of the build command that made an earlier
	// successful validation stale, or zero.
	StaleAt int
	Range   hcl.Range
}

func (e *EmitWithoutValidationError) Error() string {
	if e.Errors > 0 {
		return fmt.Sprintf("cannot emit document: last validation reported %d error(s)", e.Errors)
	}
	if e.StaleAt > 0 {
		return fmt.Sprintf("cannot emit document: validation went stale at line %d; VALIDATE again before EMIT_SPEC", e.StaleAt)
	}
	return "cannot emit document: no current successful VALIDATE"
}

func (e *EmitWithoutValidationError) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     CodeEmitUnvalidated,
		Summary:  e.Error(),
		Range:    rangePtr(e.Range),
	}
}
