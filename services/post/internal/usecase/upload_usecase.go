package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"sahara/pkg/logger"
	"sahara/pkg/queue"
	"sahara/services/post/internal/capture"
	"sahara/services/post/internal/entity"
	"sahara/services/post/internal/geo"
	"sahara/services/post/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SubmissionWarning is the mandatory acknowledgement shown before any write.
// The flow cannot reach the upload step without the user confirming it.
const SubmissionWarning = "Sahara raises awareness; it does not guarantee direct aid to the person photographed. " +
	"Photograph with dignity: seek consent where possible and never post content that demeans its subject."

// ErrSubmitBlocked is returned while the submit guard fails: both an image
// and a location fix must be held.
var ErrSubmitBlocked = fmt.Errorf("an image and a location fix are both required before submitting")

var ErrNoConfirmPending = fmt.Errorf("no submission is awaiting confirmation")

// BlobStore is the blob side of the capability surface. pkg/s3 satisfies it.
type BlobStore interface {
	UploadFile(key string, file io.Reader, contentType string) (string, error)
	DeleteFile(key string) error
}

// Locator yields one coordinate fix on demand. *geo.Probe satisfies it.
type Locator interface {
	Locate(ctx context.Context, userID string) (geo.Fix, error)
}

// EventPublisher announces committed posts to the live feed.
type EventPublisher interface {
	PublishPostEvent(event queue.PostEvent) error
}

type UploadUseCase interface {
	Session(userID string) *entity.UploadSession
	AttachImage(userID string, payload *capture.Payload) (*entity.UploadSession, error)
	DiscardPreview(userID string) *entity.UploadSession
	RequestLocation(ctx context.Context, userID string) (*entity.UploadSession, error)
	SetDetails(userID, description string, isAnonymous bool) (*entity.UploadSession, error)
	Submit(userID string) (string, *entity.UploadSession, error)
	CancelConfirm(userID string) *entity.UploadSession
	Confirm(ctx context.Context, userID, displayName string) (*entity.Post, error)
	Dismiss(userID string)
}

// session holds one user's in-flight upload. Everything here is local and
// reversible until Confirm commits the writes.
type session struct {
	state       entity.SessionState
	image       *capture.Payload
	fix         *geo.Fix
	description string
	isAnonymous bool
}

type uploadUseCase struct {
	mu          sync.Mutex
	sessions    map[string]*session
	postRepo    persistent.PostRepository
	blobStore   BlobStore
	locator     Locator
	publisher   EventPublisher
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewUploadUseCase(
	postRepo persistent.PostRepository,
	blobStore BlobStore,
	locator Locator,
	publisher EventPublisher,
	redisClient *redis.Client,
	logger *logger.Logger,
) UploadUseCase {
	return &uploadUseCase{
		sessions:    make(map[string]*session),
		postRepo:    postRepo,
		blobStore:   blobStore,
		locator:     locator,
		publisher:   publisher,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (uc *uploadUseCase) Session(userID string) *entity.UploadSession {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.snapshot(userID, uc.sessionFor(userID))
}

func (uc *uploadUseCase) AttachImage(userID string, payload *capture.Payload) (*entity.UploadSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	s := uc.sessionFor(userID)
	if s.state == entity.StateConfirmWarning || s.state == entity.StateUploading {
		return nil, fmt.Errorf("cannot change the image while a submission is in progress")
	}

	s.image = payload
	uc.recompute(s)
	return uc.snapshot(userID, s), nil
}

func (uc *uploadUseCase) DiscardPreview(userID string) *entity.UploadSession {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	s := uc.sessionFor(userID)
	if s.state == entity.StatePreviewing || s.state == entity.StateReadyToSubmit {
		s.image = nil
		uc.recompute(s)
	}
	return uc.snapshot(userID, s)
}

// RequestLocation probes for a fix. A held fix makes this a no-op, and a
// probe failure leaves any previous coordinate state untouched.
func (uc *uploadUseCase) RequestLocation(ctx context.Context, userID string) (*entity.UploadSession, error) {
	uc.mu.Lock()
	s := uc.sessionFor(userID)
	if s.fix != nil {
		snap := uc.snapshot(userID, s)
		uc.mu.Unlock()
		return snap, nil
	}
	uc.mu.Unlock()

	fix, err := uc.locator.Locate(ctx, userID)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	s = uc.sessionFor(userID)
	if s.fix == nil {
		s.fix = &fix
	}
	uc.recompute(s)
	return uc.snapshot(userID, s), nil
}

func (uc *uploadUseCase) SetDetails(userID, description string, isAnonymous bool) (*entity.UploadSession, error) {
	if utf8.RuneCountInString(description) > entity.MaxDescriptionLength {
		return nil, fmt.Errorf("description must be %d characters or fewer", entity.MaxDescriptionLength)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	s := uc.sessionFor(userID)
	s.description = description
	s.isAnonymous = isAnonymous
	return uc.snapshot(userID, s), nil
}

// Submit raises the mandatory acknowledgement. No side effect happens here;
// the guard simply gates the transition to ConfirmWarning.
func (uc *uploadUseCase) Submit(userID string) (string, *entity.UploadSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	s := uc.sessionFor(userID)
	if s.image == nil || s.fix == nil {
		return "", nil, ErrSubmitBlocked
	}
	if s.state == entity.StateUploading {
		return "", nil, fmt.Errorf("an upload is already in progress")
	}

	s.state = entity.StateConfirmWarning
	return SubmissionWarning, uc.snapshot(userID, s), nil
}

func (uc *uploadUseCase) CancelConfirm(userID string) *entity.UploadSession {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	s := uc.sessionFor(userID)
	if s.state == entity.StateConfirmWarning {
		s.state = entity.StateReadyToSubmit
	}
	return uc.snapshot(userID, s)
}

// Confirm performs the two writes: blob first, then the post record. The
// record write is the only action that makes the post visible, so a blob
// failure never produces a visible orphan. A record failure after a
// successful blob write leaves an unreferenced blob behind; that storage
// leak is accepted rather than attempting a compensating delete.
func (uc *uploadUseCase) Confirm(ctx context.Context, userID, displayName string) (*entity.Post, error) {
	uc.mu.Lock()
	s := uc.sessionFor(userID)
	if s.state != entity.StateConfirmWarning {
		uc.mu.Unlock()
		return nil, ErrNoConfirmPending
	}
	s.state = entity.StateUploading
	image := s.image
	fix := *s.fix
	description := s.description
	isAnonymous := s.isAnonymous
	uc.mu.Unlock()

	key := fmt.Sprintf("posts/%s/%d-%s%s", userID, time.Now().Unix(), uuid.New().String(), extensionFor(image.ContentType))
	imageURL, err := uc.blobStore.UploadFile(key, bytes.NewReader(image.Data), image.ContentType)
	if err != nil {
		uc.failUpload(userID)
		uc.logger.Error("Blob write failed for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	post := &entity.Post{
		OwnerID:     userID,
		DisplayName: displayName,
		ImageURL:    imageURL,
		ImagePath:   key,
		Latitude:    fix.Latitude,
		Longitude:   fix.Longitude,
		Description: description,
		IsAnonymous: isAnonymous,
		Status:      entity.StatusActive,
	}

	if err := uc.postRepo.Create(post); err != nil {
		uc.failUpload(userID)
		uc.logger.Error("Post record write failed for user %s after blob write (orphaned blob %s): %v", userID, key, err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.cachePost(ctx, post)
	if uc.publisher != nil {
		event := queue.PostEvent{
			PostID:      post.ID,
			OwnerID:     post.OwnerID,
			DisplayName: post.PublicDisplayName(),
			ImageURL:    post.ImageURL,
			Latitude:    post.Latitude,
			Longitude:   post.Longitude,
			Description: post.Description,
			IsAnonymous: post.IsAnonymous,
			CreatedAt:   post.CreatedAt,
		}
		if err := uc.publisher.PublishPostEvent(event); err != nil {
			uc.logger.Warn("Failed to publish post event for %s: %v", post.ID, err)
		}
	}

	// Confirmed success is the only path that resets local state.
	uc.mu.Lock()
	delete(uc.sessions, userID)
	uc.mu.Unlock()

	return post, nil
}

func (uc *uploadUseCase) Dismiss(userID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.sessions, userID)
}

// failUpload returns the session to ReadyToSubmit with all inputs intact so
// the user need not redo capture or location.
func (uc *uploadUseCase) failUpload(userID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if s, ok := uc.sessions[userID]; ok {
		s.state = entity.StateReadyToSubmit
	}
}

func (uc *uploadUseCase) sessionFor(userID string) *session {
	s, ok := uc.sessions[userID]
	if !ok {
		s = &session{state: entity.StateIdle}
		uc.sessions[userID] = s
	}
	return s
}

func (uc *uploadUseCase) recompute(s *session) {
	switch {
	case s.image != nil && s.fix != nil:
		s.state = entity.StateReadyToSubmit
	case s.image != nil:
		s.state = entity.StatePreviewing
	default:
		s.state = entity.StateIdle
	}
}

func (uc *uploadUseCase) snapshot(userID string, s *session) *entity.UploadSession {
	snap := &entity.UploadSession{
		OwnerID:     userID,
		State:       s.state,
		HasImage:    s.image != nil,
		HasFix:      s.fix != nil,
		Description: s.description,
		IsAnonymous: s.isAnonymous,
	}
	if s.fix != nil {
		snap.Latitude = s.fix.Latitude
		snap.Longitude = s.fix.Longitude
	}
	if s.image != nil {
		snap.Preview = s.image.Preview()
	}
	return snap
}

func (uc *uploadUseCase) cachePost(ctx context.Context, post *entity.Post) {
	if uc.redisClient == nil {
		return
	}

	postKey := fmt.Sprintf("post:%s", post.ID)
	postData := map[string]interface{}{
		"id":           post.ID,
		"owner_id":     post.OwnerID,
		"display_name": post.PublicDisplayName(),
		"image_url":    post.ImageURL,
		"latitude":     post.Latitude,
		"longitude":    post.Longitude,
		"description":  post.Description,
		"is_anonymous": post.IsAnonymous,
		"status":       string(post.Status),
		"created_at":   post.CreatedAt.Format(time.RFC3339Nano),
	}

	for k, v := range postData {
		uc.redisClient.HSet(ctx, postKey, k, v)
	}
	uc.redisClient.Expire(ctx, postKey, 24*time.Hour)

	uc.redisClient.LPush(ctx, "feed:global", post.ID)
	uc.redisClient.LTrim(ctx, "feed:global", 0, 9999)
	uc.redisClient.Expire(ctx, "feed:global", 7*24*time.Hour)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
