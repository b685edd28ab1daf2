package id

import (
	"strings"

	"github.com/google/uuid"
)

// GetUUID generates a new random UUID.
func GetUUID() string {
	return uuid.NewString()
}

// GetUUIDWithoutDashes generates a new UUID in its 32-character hex form.
func GetUUIDWithoutDashes() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
