package drm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"coaching-app/config"
)

var Default Client = &VdoCipherClient{}

// VdoCipherClient issues playback OTPs from the VdoCipher API.
type VdoCipherClient struct {
	// BaseURL overrides the API host (tests); empty means production.
	BaseURL string

	httpClient *http.Client
}

const vdoCipherAPI = "https://dev.vdocipher.com/api"

func (v *VdoCipherClient) IssuePlaybackSession(ctx context.Context, videoID string) (*PlaybackSession, error) {
	base := v.BaseURL
	if base == "" {
		base = vdoCipherAPI
	}

	body, err := json.Marshal(map[string]interface{}{"ttl": 300})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/videos/%s/otp", base, videoID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Apisecret "+config.VDOCIPHER_API_SECRET)

	client := v.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vdocipher otp request failed: %s", resp.Status)
	}

	var session PlaybackSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}
