package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// GetUlid returns a lexically sortable ULID for the current time.
func GetUlid() string {
	return GetUlidAt(time.Now())
}

// GetUlidAt returns a ULID whose timestamp part is t. IDs minted within the
// same millisecond keep increasing.
func GetUlidAt(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
