package domain

import "testing"

func TestPlatformMappingRoundTrip(t *testing.T) {
	for _, uiKey := range UIPlatforms() {
		backend := ToBackendPlatform(uiKey)
		if got := ToUIPlatform(backend); got != uiKey {
			t.Fatalf("round trip for %q: backend %q mapped back to %q", uiKey, backend, got)
		}
	}
}

func TestPlatformMappingTwitterDivergence(t *testing.T) {
	if got := ToBackendPlatform(PlatformTwitter); got != "x" {
		t.Fatalf("ToBackendPlatform(twitter) = %q, want x", got)
	}
	if got := ToUIPlatform("x"); got != PlatformTwitter {
		t.Fatalf("ToUIPlatform(x) = %q, want twitter", got)
	}
}

func TestPlatformMappingIdentityDefault(t *testing.T) {
	for _, key := range []string{"facebook", "instagram", "linkedin", "threads"} {
		if got := ToBackendPlatform(key); got != key {
			t.Fatalf("ToBackendPlatform(%q) = %q, want identity", key, got)
		}
		if got := ToUIPlatform(key); got != key {
			t.Fatalf("ToUIPlatform(%q) = %q, want identity", key, got)
		}
	}
}
