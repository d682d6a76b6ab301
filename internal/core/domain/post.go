package domain

import "time"

// Post tones offered by the composer.
const (
	ToneProfessional  = "professional"
	ToneCasual        = "casual"
	TonePlayful       = "playful"
	ToneInspirational = "inspirational"
)

// PostDraft is the ephemeral compose-form state. Platform is a UI-space key.
// ScheduledAt, when set, carries the user's local wall-clock choice; the
// composer converts it to an absolute instant at submit time. MediaURL is
// display-only and never transmitted.
type PostDraft struct {
	Platform        string
	Tone            string
	MediaURL        string
	Content         string
	ScheduleEnabled bool
	ScheduledAt     time.Time
	CampaignID      *int64
	MediaAssetID    *int64
}

// Post is the display-only record mapped back from a backend response.
// Platform has been translated to UI space, and Scheduled is derived from the
// presence of a scheduled instant in the response, not echoed from the draft.
type Post struct {
	ID          int64     `json:"id"`
	Platform    string    `json:"platform"`
	Content     string    `json:"content"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Scheduled   bool      `json:"scheduled"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
