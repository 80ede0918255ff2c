package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a unique 32-character hex document ID.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
