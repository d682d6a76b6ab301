package domain

import "time"

// User models the account the console is operating on behalf of.
// It mirrors the backend's user resource and is persisted verbatim by the
// session repository so a restart can render it before revalidation.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// AuthToken is the opaque bearer credential returned by the login endpoint.
// The client never inspects its contents; it is only attached to outgoing
// requests and persisted across restarts.
type AuthToken struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Zero reports whether the token is absent.
func (t AuthToken) Zero() bool {
	return t.Value == ""
}
