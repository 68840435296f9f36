package booking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewTrackingCode builds a patient-facing code like CLINIC-2026-4F9A. The
// random suffix is short on purpose: patients read these over the phone.
// Uniqueness is enforced by the appointments.tracking_code constraint, not
// here.
func NewTrackingCode(prefix string, now time.Time) string {
	buf := make([]byte, 2)
	_, _ = rand.Read(buf)
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return fmt.Sprintf("%s-%d-%s", prefix, now.Year(), suffix)
}
