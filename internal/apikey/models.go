// Package apikey provides per-station ingestion credentials.
package apikey

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository errors.
var (
	// ErrKeyNotFound covers both unknown and deactivated keys; callers
	// must not be able to distinguish the two.
	ErrKeyNotFound = errors.New("api key not found or inactive")
)

// Key is a credential that authenticates a citizen station's uploads.
type Key struct {
	ID        int64
	Key       string
	StationID int64
	IsActive  bool
	CreatedAt time.Time
}

// Generate produces a new random key string: "sk_" followed by a UUID
// without dashes and a short random suffix.
func Generate() string {
	body := strings.ReplaceAll(uuid.New().String(), "-", "")
	suffix := uuid.New().String()[:10]
	return "sk_" + body + suffix
}
