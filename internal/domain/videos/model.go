package videos

import "time"

type WorkoutVideo struct {
	ID           uint   `gorm:"primaryKey"`
	Title        string `gorm:"not null"`
	Code         string `gorm:"not null;uniqueIndex:idx_workout_videos_code"`
	ThumbnailURL string `gorm:"column:thumbnail_url"`

	// Asset id at the DRM vendor; playback sessions are issued against it.
	DRMVideoID string `gorm:"column:drm_video_id;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
