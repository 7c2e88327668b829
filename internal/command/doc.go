// Package command defines the format-agnostic command model shared by the
// source front-ends and the compiler.
//
// A document is an ordered list of Commands. Front-ends (the line syntax in
// package dsl, the block syntax in package hcl) read raw attribute values as
// cty values and hand them to Bind, which checks them against the fixed
// schema of each command Kind and produces typed attributes. The compiler
// never sees untyped input.
package command
