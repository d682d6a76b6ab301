package api

import "time"

// Typed wire records for every backend endpoint. Responses are validated at
// the boundary so a malformed body fails fast instead of propagating empty
// fields into the coordinator.

// errorEnvelope covers both error shapes the backend emits: the console's
// own {"error": "..."} convention and FastAPI-style {"detail": "..."}.
type errorEnvelope struct {
	Error  string `json:"error"`
	Detail any    `json:"detail"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type userResponse struct {
	ID        int64     `json:"id" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	FullName  *string   `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token" validate:"required"`
	TokenType   string       `json:"token_type" validate:"required"`
	User        userResponse `json:"user" validate:"required"`
}

type platformStatusResponse struct {
	Connected bool    `json:"connected"`
	Handle    *string `json:"handle"`
}

type authorizeResponse struct {
	AuthorizationURL string `json:"authorization_url" validate:"required,url"`
}

type disconnectResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type createPostRequest struct {
	BusinessID   int64     `json:"business_id" validate:"required"`
	Platform     string    `json:"platform" validate:"required"`
	Content      string    `json:"content" validate:"required,max=2000"`
	ScheduledAt  time.Time `json:"scheduled_at" validate:"required"`
	CampaignID   *int64    `json:"campaign_id,omitempty"`
	MediaAssetID *int64    `json:"media_asset_id,omitempty"`
}

type postResponse struct {
	ID             int64     `json:"id" validate:"required"`
	BusinessID     int64     `json:"business_id"`
	CampaignID     *int64    `json:"campaign_id"`
	Platform       string    `json:"platform" validate:"required"`
	Content        string    `json:"content"`
	MediaAssetID   *int64    `json:"media_asset_id"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Status         string    `json:"status"`
	ExternalPostID *string   `json:"external_post_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type socialProfileResponse struct {
	ID         int64     `json:"id" validate:"required"`
	UserID     int64     `json:"user_id"`
	BusinessID int64     `json:"business_id"`
	Platform   string    `json:"platform" validate:"required"`
	Handle     string    `json:"handle"`
	ExternalID *string   `json:"external_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type createSocialProfileRequest struct {
	UserID     int64  `json:"user_id"`
	BusinessID int64  `json:"business_id"`
	Platform   string `json:"platform"`
	Handle     string `json:"handle"`
	ExternalID string `json:"external_id,omitempty"`
}
