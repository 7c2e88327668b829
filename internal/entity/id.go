package entity

import (
	"fmt"
	"regexp"
)

// idRegex matches entity identifiers such as `main-138` or `lv-13p8`.
var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// isValidIDName rejects names that match the regex but read as punctuation.
func isValidIDName(name string) bool {
	if name == "." || name == ".." || name == "-" {
		return false
	}
	return true
}

// ValidID reports whether id is an acceptable entity identifier.
func ValidID(id string) bool {
	return idRegex.MatchString(id) && isValidIDName(id)
}

// CheckID returns a descriptive error if id is not a valid identifier.
func CheckID(id string) error {
	if id == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if !ValidID(id) {
		return fmt.Errorf("invalid identifier %q: use letters, digits, '_', '-' or '.'", id)
	}
	return nil
}
