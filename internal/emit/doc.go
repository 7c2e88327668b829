// Package emit turns a validated build into the canonical substation
// Document and serialises it as JSON or YAML.
//
// A Document has three sections: entities in creation order, connections in
// declaration order with duplicates preserved, and bay assignments in the
// order bays first received a member.
package emit
