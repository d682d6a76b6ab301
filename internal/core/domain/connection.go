package domain

// PlatformConnection records whether a platform holds a valid OAuth grant for
// the current user, and under which external handle. The key is always a
// UI-space platform identifier; translation happens at the gateway boundary.
type PlatformConnection struct {
	Platform  string `json:"platform"`
	Connected bool   `json:"connected"`
	Handle    string `json:"handle,omitempty"`
}
