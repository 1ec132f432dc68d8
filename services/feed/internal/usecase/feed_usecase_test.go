package usecase

import (
	"context"
	"errors"
	"testing"

	"sahara/pkg/logger"
	"sahara/services/feed/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFeedRepository is a mock implementation of persistent.FeedRepository
type MockFeedRepository struct {
	mock.Mock
}

func (m *MockFeedRepository) ListRecent(limit, offset int) ([]entity.FeedItem, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.FeedItem), args.Error(1)
}

func TestGetFeed_UsesRepositoryWithoutCache(t *testing.T) {
	repo := new(MockFeedRepository)
	repo.On("ListRecent", 10, 0).Return([]entity.FeedItem{
		{ID: "p2", DisplayName: "Asha"},
		{ID: "p1", DisplayName: "Anonymous", IsAnonymous: true},
	}, nil)

	uc := NewFeedUseCase(repo, nil, logger.New())

	items, err := uc.GetFeed(context.Background(), 10, 0)

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "p2", items[0].ID)
	repo.AssertExpectations(t)
}

func TestGetFeed_CapsPageSize(t *testing.T) {
	repo := new(MockFeedRepository)
	repo.On("ListRecent", entity.MaxFeedSize, 0).Return([]entity.FeedItem{}, nil)

	uc := NewFeedUseCase(repo, nil, logger.New())

	_, err := uc.GetFeed(context.Background(), 500, 0)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetFeed_DefaultsInvalidPaging(t *testing.T) {
	repo := new(MockFeedRepository)
	repo.On("ListRecent", entity.MaxFeedSize, 0).Return([]entity.FeedItem{}, nil)

	uc := NewFeedUseCase(repo, nil, logger.New())

	_, err := uc.GetFeed(context.Background(), -1, -10)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetFeed_RepositoryFailure(t *testing.T) {
	repo := new(MockFeedRepository)
	repo.On("ListRecent", 10, 0).Return(nil, errors.New("connection refused"))

	uc := NewFeedUseCase(repo, nil, logger.New())

	_, err := uc.GetFeed(context.Background(), 10, 0)

	assert.Error(t, err)
}
