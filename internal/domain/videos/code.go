package videos

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

// MakeCode generates a URL-safe base code from a video title.
// Example: "Full Body HIIT #3" -> "full-body-hiit-3"
func MakeCode(title string) string {
	base := strings.ToLower(strings.TrimSpace(title))
	base = strings.ReplaceAll(base, " ", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "video"
	}
	return base
}

// EnsureCode persists a unique watch code for the video. Must be called after
// the video has an ID; pass db in to avoid an import cycle with the database
// package.
func EnsureCode(db *gorm.DB, video *WorkoutVideo) (string, error) {
	if video == nil {
		return "", fmt.Errorf("video is nil")
	}
	if db == nil {
		return "", fmt.Errorf("db is nil")
	}

	if strings.TrimSpace(video.Code) != "" {
		return strings.TrimSpace(video.Code), nil
	}

	if video.ID == 0 {
		return "", fmt.Errorf("video ID missing (call EnsureCode after Create)")
	}

	code := fmt.Sprintf("%s-%d", MakeCode(video.Title), video.ID)
	video.Code = code

	if err := db.
		Model(&WorkoutVideo{}).
		Where("id = ?", video.ID).
		Update("code", code).Error; err != nil {
		return "", err
	}

	return code, nil
}
