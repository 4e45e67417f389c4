package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// At generates a ULID whose timestamp component is t, so IDs created
// by the same clock sort in creation order.
func At(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}
