package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sahara/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	// FixTimeout bounds the wait for a high-accuracy position request.
	FixTimeout = 10 * time.Second
	// FixMaxAge is how long a cached fix may be reused.
	FixMaxAge = 60 * time.Second
)

var ErrUnavailable = fmt.Errorf("location service unavailable")

// Fix is a single resolved coordinate reading. Stored precision is whatever
// the provider returns; the display layer truncates to six decimals.
type Fix struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	TakenAt   time.Time `json:"taken_at"`
}

// DisplayCoordinates renders the fix at six-decimal precision.
func (f Fix) DisplayCoordinates() string {
	return fmt.Sprintf("%.6f, %.6f", f.Latitude, f.Longitude)
}

// PositionProvider resolves the device's current position. Implementations
// should honor the context deadline.
type PositionProvider interface {
	CurrentPosition(ctx context.Context) (Fix, error)
}

// Probe obtains one on-demand fix per request, reusing a recent cached fix
// and bounding the wait for a fresh one. A failed probe leaves any prior
// coordinate state with the caller untouched.
type Probe struct {
	provider PositionProvider
	cache    *redis.Client
	logger   *logger.Logger
	timeout  time.Duration
	maxAge   time.Duration
}

func NewProbe(provider PositionProvider, cache *redis.Client, log *logger.Logger) *Probe {
	return &Probe{
		provider: provider,
		cache:    cache,
		logger:   log,
		timeout:  FixTimeout,
		maxAge:   FixMaxAge,
	}
}

func (p *Probe) Locate(ctx context.Context, userID string) (Fix, error) {
	if cached, ok := p.cachedFix(ctx, userID); ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	fix, err := p.provider.CurrentPosition(ctx)
	if err != nil {
		return Fix{}, fmt.Errorf("failed to resolve position: %w", err)
	}
	if fix.TakenAt.IsZero() {
		fix.TakenAt = time.Now()
	}

	p.storeFix(ctx, userID, fix)
	return fix, nil
}

func (p *Probe) cachedFix(ctx context.Context, userID string) (Fix, bool) {
	if p.cache == nil {
		return Fix{}, false
	}

	raw, err := p.cache.Get(ctx, fixKey(userID)).Result()
	if err != nil {
		return Fix{}, false
	}

	var fix Fix
	if err := json.Unmarshal([]byte(raw), &fix); err != nil {
		return Fix{}, false
	}
	if time.Since(fix.TakenAt) > p.maxAge {
		return Fix{}, false
	}
	return fix, true
}

func (p *Probe) storeFix(ctx context.Context, userID string, fix Fix) {
	if p.cache == nil {
		return
	}

	raw, err := json.Marshal(fix)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, fixKey(userID), raw, p.maxAge).Err(); err != nil {
		p.logger.Warn("Failed to cache fix for user %s: %v", userID, err)
	}
}

func fixKey(userID string) string {
	return fmt.Sprintf("geo_fix:%s", userID)
}
