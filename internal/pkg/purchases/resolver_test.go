package purchases

import (
	"testing"
	"time"
)

func snapshotWith(ent map[string]SnapshotEntitlement) *Snapshot {
	return &Snapshot{SubscriberID: "u123", Entitlements: ent}
}

func TestResolve_NoSnapshot(t *testing.T) {
	res := Resolve(nil, "pro", time.Now())
	if res.Active {
		t.Fatalf("expected missing snapshot to resolve inactive")
	}
}

func TestResolve_EntitlementAbsent(t *testing.T) {
	snap := snapshotWith(map[string]SnapshotEntitlement{"other": {}})
	res := Resolve(snap, "pro", time.Now())
	if res.Active {
		t.Fatalf("expected absent entitlement to resolve inactive")
	}
}

func TestResolve_NoExpiryIsLifetime(t *testing.T) {
	snap := snapshotWith(map[string]SnapshotEntitlement{"pro": {}})
	res := Resolve(snap, "pro", time.Now())
	if !res.Active {
		t.Fatalf("expected lifetime entitlement to be active")
	}
	if res.ExpiresAt != nil {
		t.Fatalf("expected nil expiry, got %v", res.ExpiresAt)
	}
}

func TestResolve_ExpiryOneSecondInPast(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-1 * time.Second).Format(time.RFC3339)
	snap := snapshotWith(map[string]SnapshotEntitlement{"pro": {ExpiresRaw: expired}})

	res := Resolve(snap, "pro", now)
	if res.Active {
		t.Fatalf("expected past expiry to resolve inactive")
	}
	if res.ExpiresAt == nil {
		t.Fatalf("expected parsed expiry to be kept")
	}
}

func TestResolve_FutureExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(30 * 24 * time.Hour).Format(time.RFC3339)
	snap := snapshotWith(map[string]SnapshotEntitlement{"pro": {ExpiresRaw: future}})

	res := Resolve(snap, "pro", now)
	if !res.Active {
		t.Fatalf("expected future expiry to be active")
	}
	if res.ExpiresAt == nil || !res.ExpiresAt.After(now) {
		t.Fatalf("expected future ExpiresAt, got %v", res.ExpiresAt)
	}
}

func TestResolve_MillisecondPrecisionExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	snap := snapshotWith(map[string]SnapshotEntitlement{"pro": {ExpiresRaw: "2025-07-01T00:00:00.000Z"}})

	res := Resolve(snap, "pro", now)
	if !res.Active || res.ExpiresAt == nil {
		t.Fatalf("expected millisecond-precision expiry to parse and be active")
	}
}

func TestResolve_UnparseableExpiryFailsOpen(t *testing.T) {
	snap := snapshotWith(map[string]SnapshotEntitlement{"pro": {ExpiresRaw: "next tuesday"}})

	res := Resolve(snap, "pro", time.Now())
	if !res.Active {
		t.Fatalf("expected unparseable expiry to fail open")
	}
	if res.ExpiresAt != nil {
		t.Fatalf("expected no parsed expiry")
	}
	if res.RawExpiry != "next tuesday" {
		t.Fatalf("expected raw expiry to be preserved, got %q", res.RawExpiry)
	}
}
