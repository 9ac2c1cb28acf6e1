package util

import (
	"crypto/rand"
	"strings"

	"github.com/google/uuid"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ShortIDLength is the number of characters shown for task ids in listings.
const ShortIDLength = 8

// GenerateShortID returns a 6-character alphanumeric string using cryptographic randomness.
func GenerateShortID() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	for i := range bytes {
		bytes[i] = alphanumeric[int(bytes[i])%len(alphanumeric)]
	}

	return string(bytes), nil
}

// NewTaskID returns a random UUID for a task instance.
func NewTaskID() string {
	return uuid.NewString()
}

// NewSeriesID returns a short id shared by the instances of one recurring
// submission. Falls back to a UUID prefix if the random source fails.
func NewSeriesID() string {
	id, err := GenerateShortID()
	if err != nil {
		return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	}
	return id
}

// ShortTaskID truncates a task id for display.
func ShortTaskID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}
