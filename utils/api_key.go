package utils

import (
	"strings"

	"github.com/google/uuid"
)

const APIKeyPrefix = "barn_"

// GenerateAPIKey returns barn_ followed by two random UUIDs as 64 hex chars.
func GenerateAPIKey() string {
	first, second := uuid.New(), uuid.New()
	body := strings.ReplaceAll(first.String()+second.String(), "-", "")
	return APIKeyPrefix + body
}

// IsAPIKey reports whether key has the service key shape.
func IsAPIKey(key string) bool {
	return strings.HasPrefix(key, APIKeyPrefix) && len(key) > len(APIKeyPrefix)
}
