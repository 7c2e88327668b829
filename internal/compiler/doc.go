// Package compiler folds a parsed command sequence into a substation
// document.
//
// A Compiler owns the registry, the connection graph and the bay map of one
// document. Definition, CONNECT and APPEND_TO_BAY commands extend the build
// and make any earlier validation stale; VALIDATE runs every rule over the
// build as it stands; EMIT_SPEC projects the build into an emit.Document,
// which requires a current validation without errors.
//
// Structural errors stop compilation at the failing command. Validation
// findings never do: they are collected and returned with the Result.
package compiler
