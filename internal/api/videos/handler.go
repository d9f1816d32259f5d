package videosapi

import (
	"net/http"

	"coaching-app/database"
	"coaching-app/internal/domain/videos"
	"coaching-app/internal/infra/drm"

	"github.com/gin-gonic/gin"
)

// Player issues DRM playback sessions; swapped in tests.
var Player = drm.Default

type VideoPreview struct {
	ID           uint   `json:"id"`
	Code         string `json:"code"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailURL"`
}

type VideoPlayback struct {
	Title        string `json:"title"`
	OTP          string `json:"otp"`
	PlaybackInfo string `json:"playbackInfo"`
}

func ListVideos(c *gin.Context) {
	var list []videos.WorkoutVideo
	if err := database.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load videos"})
		return
	}

	previews := make([]VideoPreview, 0, len(list))
	for _, v := range list {
		previews = append(previews, VideoPreview{
			ID:           v.ID,
			Code:         v.Code,
			Title:        v.Title,
			ThumbnailURL: v.ThumbnailURL,
		})
	}

	c.JSON(http.StatusOK, previews)
}

func GetVideoByCode(c *gin.Context) {
	code := c.Param("code")

	var video videos.WorkoutVideo
	if err := database.DB.Where("code = ?", code).First(&video).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	session, err := Player.IssuePlaybackSession(c.Request.Context(), video.DRMVideoID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to issue playback session"})
		return
	}

	c.JSON(http.StatusOK, VideoPlayback{
		Title:        video.Title,
		OTP:          session.OTP,
		PlaybackInfo: session.PlaybackInfo,
	})
}

// CreateVideo adds a catalogue entry (admin only); the watch code is derived
// from the title once the row has an id.
func CreateVideo(c *gin.Context) {
	var input struct {
		Title        string `json:"title" binding:"required"`
		ThumbnailURL string `json:"thumbnailURL"`
		DRMVideoID   string `json:"drmVideoId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video := videos.WorkoutVideo{
		Title:        input.Title,
		ThumbnailURL: input.ThumbnailURL,
		DRMVideoID:   input.DRMVideoID,
	}
	if err := database.DB.Create(&video).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create video"})
		return
	}

	if _, err := videos.EnsureCode(database.DB, &video); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign video code"})
		return
	}

	c.JSON(http.StatusOK, video)
}
