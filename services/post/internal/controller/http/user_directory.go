package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UserDirectory resolves the display name cached onto new posts.
type UserDirectory interface {
	DisplayName(ctx context.Context, userID, authHeader string) (string, error)
}

// AuthServiceDirectory asks the auth service for the user's profile.
type AuthServiceDirectory struct {
	baseURL string
	client  *http.Client
}

func NewAuthServiceDirectory(baseURL string) *AuthServiceDirectory {
	return &AuthServiceDirectory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (d *AuthServiceDirectory) DisplayName(ctx context.Context, userID, authHeader string) (string, error) {
	url := fmt.Sprintf("%s/api/v1/users/%s", d.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", authHeader)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var payload struct {
		User struct {
			DisplayName string `json:"display_name"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode auth service response: %w", err)
	}

	return payload.User.DisplayName, nil
}
