package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPPositionProvider resolves the caller's position through a hosted
// geolocation endpoint.
type HTTPPositionProvider struct {
	endpoint string
	client   *http.Client
}

func NewHTTPPositionProvider(endpoint string) *HTTPPositionProvider {
	return &HTTPPositionProvider{
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

func (p *HTTPPositionProvider) CurrentPosition(ctx context.Context) (Fix, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return Fix{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Fix{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Fix{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Fix{}, err
	}

	var payload struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Accuracy  float64 `json:"accuracy"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Fix{}, fmt.Errorf("failed to decode position: %w", err)
	}

	return Fix{
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		Accuracy:  payload.Accuracy,
		TakenAt:   time.Now(),
	}, nil
}
