// Package hcl provides the HCL block syntax for substation documents, the
// second implementation of the config.Loader interface next to package dsl.
//
// Each command is one block. Definition blocks take the entity identifier as
// their label; the remaining commands take no label:
//
//	bus "main-138" { kv = 138 }
//	bay "line-bay-1" {
//	  kind = "LINE"
//	  kv   = 138
//	  bus  = "main-138"
//	}
//	connect { series = ["main-138", "line-iso-1"] }
//	validate {}
//
// Attribute values must be constants. They are bound with command.Bind, so
// both syntaxes share one set of typing rules. Write renders commands back
// to this form with hclwrite.
package hcl
