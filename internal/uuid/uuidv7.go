package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a time-ordered UUIDv7 string.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return googleuuid.NewString()
	}
	return id.String()
}

// IsValid reports whether s is a canonical UUID string of any version.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil && len(s) == 36
}
