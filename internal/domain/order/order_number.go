package order

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateOrderNumber produces a human-readable, effectively unique order
// number: ORD-<nanosecond timestamp>-<random suffix>. Uniqueness is
// ultimately enforced by the database constraint; callers retry on
// collision.
func GenerateOrderNumber() string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// the timestamp alone rather than aborting checkout.
		return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixNano(), hex.EncodeToString(buf[:]))
}
