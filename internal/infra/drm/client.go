package drm

import "context"

// PlaybackSession is the short-lived credential the player embeds to start a
// protected stream.
type PlaybackSession struct {
	OTP          string `json:"otp"`
	PlaybackInfo string `json:"playbackInfo"`
}

// Client is the opaque video-DRM capability: issue a playback session for a
// vendor-side asset id. Handlers call the package-level Default so tests can
// swap in a fake.
type Client interface {
	IssuePlaybackSession(ctx context.Context, videoID string) (*PlaybackSession, error)
}
