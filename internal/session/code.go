package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBookingCode generates the human-presentable booking identifier the
// driver shows (or the lot QR encodes) at check-in, e.g.
// EPK-1756444800000-3F2A910B. The millisecond timestamp plus a random
// suffix keeps codes unique per session.
func NewBookingCode(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("EPK-%d-%s", now.UnixMilli(), strings.ToUpper(suffix))
}
