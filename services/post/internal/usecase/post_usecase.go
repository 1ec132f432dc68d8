package usecase

import (
	"fmt"
	"unicode/utf8"

	"sahara/pkg/logger"
	"sahara/services/post/internal/entity"
	"sahara/services/post/internal/repo/persistent"
)

// FeedPageSize caps how many posts a single read returns.
const FeedPageSize = 50

type PostUseCase interface {
	GetPost(postID string) (*entity.Post, error)
	ListPosts(limit, offset int) ([]*entity.Post, error)
	UpdatePost(postID, userID string, description *string, isAnonymous *bool) (*entity.Post, error)
	DeletePost(postID, userID string) error
	GetOwnerPosts(ownerID string, limit, offset int) ([]*entity.Post, error)
}

type postUseCase struct {
	postRepo  persistent.PostRepository
	blobStore BlobStore
	logger    *logger.Logger
}

func NewPostUseCase(postRepo persistent.PostRepository, blobStore BlobStore, logger *logger.Logger) PostUseCase {
	return &postUseCase{
		postRepo:  postRepo,
		blobStore: blobStore,
		logger:    logger,
	}
}

func (uc *postUseCase) GetPost(postID string) (*entity.Post, error) {
	return uc.postRepo.GetByID(postID)
}

func (uc *postUseCase) ListPosts(limit, offset int) ([]*entity.Post, error) {
	if limit <= 0 || limit > FeedPageSize {
		limit = FeedPageSize
	}
	return uc.postRepo.List(limit, offset)
}

// UpdatePost is owner-gated: authorization is an explicit backend check, not
// a provider rule the client is trusted to honor.
func (uc *postUseCase) UpdatePost(postID, userID string, description *string, isAnonymous *bool) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}

	if post.OwnerID != userID {
		return nil, fmt.Errorf("you can only update your own posts")
	}

	if description != nil {
		if utf8.RuneCountInString(*description) > entity.MaxDescriptionLength {
			return nil, fmt.Errorf("description must be %d characters or fewer", entity.MaxDescriptionLength)
		}
		post.Description = *description
	}
	if isAnonymous != nil {
		post.IsAnonymous = *isAnonymous
	}

	if err := uc.postRepo.Update(post); err != nil {
		return nil, err
	}

	return post, nil
}

func (uc *postUseCase) DeletePost(postID, userID string) error {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return err
	}

	if post.OwnerID != userID {
		return fmt.Errorf("you can only delete your own posts")
	}

	if err := uc.postRepo.Delete(postID); err != nil {
		return err
	}

	// Best effort; the record is already gone so a leaked blob is harmless.
	if uc.blobStore != nil && post.ImagePath != "" {
		if err := uc.blobStore.DeleteFile(post.ImagePath); err != nil {
			uc.logger.Warn("Failed to delete blob %s: %v", post.ImagePath, err)
		}
	}

	return nil
}

func (uc *postUseCase) GetOwnerPosts(ownerID string, limit, offset int) ([]*entity.Post, error) {
	if limit <= 0 || limit > FeedPageSize {
		limit = FeedPageSize
	}
	return uc.postRepo.GetByOwnerID(ownerID, limit, offset)
}
