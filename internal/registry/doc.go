// Package registry stores the entities declared by a document.
//
// Identifiers are unique across all entity kinds. Define enforces, in order:
// uniqueness, the attribute constraints declared on the entity types, and
// that every identifier an entity refers to (a bay's bus, a coupler's buses)
// is already defined. Because commands are applied in document order, the
// last rule turns any reference to a later declaration into a
// diag.ForwardReferenceError.
//
// Whether a referenced entity has the right kind is a validation concern and
// is left to package validate.
package registry
