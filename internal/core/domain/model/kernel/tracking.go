package kernel

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// trackingCodePrefix identifies codes issued by this system on waybills and
// in customer-facing messages.
const trackingCodePrefix = "POD"

// NewTrackingCode generates a short human-readable shipment code such as
// "POD-9F2C41AB". Uniqueness is enforced by the storage layer; the four
// random bytes keep accidental collisions negligible at this system's scale.
func NewTrackingCode() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%s-%s", trackingCodePrefix, strings.ToUpper(hex.EncodeToString(buf)))
}

// NewPublicTrackingToken generates the opaque URL-safe token that grants
// unauthenticated read access to a shipment's tracking page.
func NewPublicTrackingToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}
