package uuidx

import "github.com/google/uuid"

// New generates a new UUID using the version 7 format and returns it.
// It panics if the UUID generation fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString generates a new UUID using the version 7 format and returns it as a string.
func NewString() string {
	return New().String()
}

// Name returns prefix joined to a fresh version 7 UUID, e.g. "add-0192…".
// It is used for agents that were not given an explicit name.
func Name(prefix string) string {
	if prefix == "" {
		return NewString()
	}
	return prefix + "-" + NewString()
}
