// Package diag defines the diagnostics produced while compiling a substation
// document: the Diagnostic/Report types collected by the validator, and the
// fatal error types that abort a compilation at the failing command.
//
// Every fatal error implements Fatal, so a caller can fold the error that
// stopped a compilation into the same diagnostics list as the validator's
// findings. Source positions use hcl.Range, which lets the list be rendered
// through the hcl diagnostic writer with source snippets.
package diag
