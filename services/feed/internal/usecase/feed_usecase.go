package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"sahara/pkg/logger"
	"sahara/services/feed/internal/entity"
	"sahara/services/feed/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

type FeedUseCase interface {
	GetFeed(ctx context.Context, limit, offset int) ([]entity.FeedItem, error)
}

type feedUseCase struct {
	feedRepo    persistent.FeedRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewFeedUseCase(feedRepo persistent.FeedRepository, redisClient *redis.Client, logger *logger.Logger) FeedUseCase {
	return &feedUseCase{
		feedRepo:    feedRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

// GetFeed returns recent posts newest-first, at most entity.MaxFeedSize per
// read. The Redis feed index is tried first; any cache miss falls through to
// the database.
func (uc *feedUseCase) GetFeed(ctx context.Context, limit, offset int) ([]entity.FeedItem, error) {
	if limit <= 0 || limit > entity.MaxFeedSize {
		limit = entity.MaxFeedSize
	}
	if offset < 0 {
		offset = 0
	}

	if items, ok := uc.feedFromCache(ctx, limit, offset); ok {
		return items, nil
	}

	items, err := uc.feedRepo.ListRecent(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	return items, nil
}

func (uc *feedUseCase) feedFromCache(ctx context.Context, limit, offset int) ([]entity.FeedItem, bool) {
	if uc.redisClient == nil {
		return nil, false
	}

	end := int64(offset + limit - 1)
	postIDs, err := uc.redisClient.LRange(ctx, "feed:global", int64(offset), end).Result()
	if err != nil || len(postIDs) == 0 {
		return nil, false
	}

	items := make([]entity.FeedItem, 0, len(postIDs))
	for _, postID := range postIDs {
		postData, err := uc.redisClient.HGetAll(ctx, fmt.Sprintf("post:%s", postID)).Result()
		if err != nil || len(postData) == 0 {
			// One evicted post hash invalidates the whole cached page.
			return nil, false
		}
		if postData["status"] != "active" {
			continue
		}
		items = append(items, uc.itemFromHash(postData))
	}

	return items, true
}

func (uc *feedUseCase) itemFromHash(postData map[string]string) entity.FeedItem {
	latitude, _ := strconv.ParseFloat(postData["latitude"], 64)
	longitude, _ := strconv.ParseFloat(postData["longitude"], 64)
	isAnonymous, _ := strconv.ParseBool(postData["is_anonymous"])
	createdAt, _ := time.Parse(time.RFC3339Nano, postData["created_at"])

	return entity.FeedItem{
		ID:          postData["id"],
		DisplayName: postData["display_name"],
		ImageURL:    postData["image_url"],
		Latitude:    latitude,
		Longitude:   longitude,
		Description: postData["description"],
		IsAnonymous: isAnonymous,
		CreatedAt:   createdAt,
	}
}
