// Package entity defines the typed equipment model of a substation
// document: buses, bays, breakers, disconnectors, transformers, lines and
// couplers.
//
// Each variant is a struct embedding Base and implementing Entity. Optional
// capability interfaces (Voltaged, Switching, Referrer) let the validator
// treat variants uniformly without type switches. Attribute constraints are
// declared as struct tags and enforced by Check.
package entity
