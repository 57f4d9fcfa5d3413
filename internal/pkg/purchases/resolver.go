package purchases

import (
	"strings"
	"time"
)

// Resolve maps a canonical provider snapshot to the domain entitlement
// shape. Policy:
//   - no snapshot, or entitlement absent from it: inactive
//   - entitlement present without expiry: active, lifetime
//   - expiry in the past: inactive (never active with a past expiry)
//   - unparseable expiry: active, with the raw value preserved — the
//     provider asserted the entitlement exists, so a parsing bug must not
//     lock out a paying user
func Resolve(snap *Snapshot, entitlementID string, now time.Time) Resolution {
	if snap == nil {
		return Resolution{Active: false}
	}
	ent, ok := snap.Entitlements[strings.TrimSpace(entitlementID)]
	if !ok {
		return Resolution{Active: false}
	}
	if ent.ExpiresRaw == "" {
		return Resolution{Active: true}
	}

	expiresAt, err := parseExpiry(ent.ExpiresRaw)
	if err != nil {
		return Resolution{Active: true, RawExpiry: ent.ExpiresRaw}
	}
	if !expiresAt.After(now) {
		return Resolution{Active: false, ExpiresAt: &expiresAt}
	}
	return Resolution{Active: true, ExpiresAt: &expiresAt}
}

func parseExpiry(value string) (time.Time, error) {
	// RFC3339Nano also accepts plain RFC3339 and millisecond precision.
	return time.Parse(time.RFC3339Nano, value)
}
