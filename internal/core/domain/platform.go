package domain

// UI-facing platform keys. These are the only identifiers the presentation
// layer and the services above the gateway ever see.
const (
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformLinkedIn  = "linkedin"
	PlatformYouTube   = "youtube"
	PlatformTikTok    = "tiktok"
)

// uiToBackend holds the divergent pairs only. Every other key is identical in
// both vocabularies and passes through unchanged, so a platform the backend
// introduces before the client learns about it still round-trips.
var uiToBackend = map[string]string{
	PlatformTwitter: "x",
}

var backendToUI = func() map[string]string {
	m := make(map[string]string, len(uiToBackend))
	for ui, be := range uiToBackend {
		m[be] = ui
	}
	return m
}()

// ToBackendPlatform translates a UI-space platform key into the backend enum
// value. Unknown keys are returned unchanged.
func ToBackendPlatform(uiKey string) string {
	if be, ok := uiToBackend[uiKey]; ok {
		return be
	}
	return uiKey
}

// ToUIPlatform translates a backend enum value into the UI-space key.
// Unknown keys are returned unchanged.
func ToUIPlatform(backendKey string) string {
	if ui, ok := backendToUI[backendKey]; ok {
		return ui
	}
	return backendKey
}

// UIPlatforms lists every platform key the console offers for selection,
// in display order.
func UIPlatforms() []string {
	return []string{
		PlatformTwitter,
		PlatformFacebook,
		PlatformInstagram,
		PlatformLinkedIn,
		PlatformYouTube,
		PlatformTikTok,
	}
}
