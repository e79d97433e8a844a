package anytype

import (
	"context"
	"net/http"
)

// ChallengeResponse identifies a pairing challenge shown in the desktop app.
type ChallengeResponse struct {
	ChallengeID string `json:"challenge_id"`
}

// APIKeyResponse carries the long-lived key issued for a solved challenge.
type APIKeyResponse struct {
	APIKey string `json:"api_key"`
}

// CreateChallenge asks the app to display a 4-digit code for appName.
func (c *Client) CreateChallenge(ctx context.Context, appName string) (string, error) {
	var resp ChallengeResponse
	body := map[string]string{"app_name": appName}
	if _, err := c.Do(ctx, http.MethodPost, "/auth/challenges", body, &resp); err != nil {
		return "", err
	}
	return resp.ChallengeID, nil
}

// CreateAPIKey exchanges a solved challenge for an API key.
func (c *Client) CreateAPIKey(ctx context.Context, challengeID, code string) (string, error) {
	var resp APIKeyResponse
	body := map[string]string{"challenge_id": challengeID, "code": code}
	if _, err := c.Do(ctx, http.MethodPost, "/auth/api_keys", body, &resp); err != nil {
		return "", err
	}
	return resp.APIKey, nil
}
