// Package dsl reads the line syntax of substation documents:
//
//	# comment
//	ADD_BUS id=main-138, kv=138
//	ADD_TRANSFORMER id=t1, type=AUTO, rated_MVA=300, vector_group="YNa0d11", percentZ=12
//	CONNECT series=[main-138, line-iso-1, line-brk-1]
//	VALIDATE
//
// One command per line. Attributes are comma-separated key=value pairs whose
// values are bare tokens, double-quoted strings or bracketed lists. Typing
// of the values is left to command.Bind.
package dsl
