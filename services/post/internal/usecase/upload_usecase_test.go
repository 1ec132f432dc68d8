package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"sahara/pkg/logger"
	"sahara/services/post/internal/capture"
	"sahara/services/post/internal/entity"
	"sahara/services/post/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock implementation of persistent.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(post *entity.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(id string) (*entity.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostRepository) GetByOwnerID(ownerID string, limit, offset int) ([]*entity.Post, error) {
	args := m.Called(ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostRepository) List(limit, offset int) ([]*entity.Post, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostRepository) Update(post *entity.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type stubBlobStore struct {
	uploads int
	lastKey string
	err     error
}

func (s *stubBlobStore) UploadFile(key string, file io.Reader, contentType string) (string, error) {
	s.uploads++
	s.lastKey = key
	if s.err != nil {
		return "", s.err
	}
	return "https://cdn.example.com/" + key, nil
}

func (s *stubBlobStore) DeleteFile(key string) error { return nil }

type stubLocator struct {
	fix   geo.Fix
	err   error
	calls int
}

func (s *stubLocator) Locate(ctx context.Context, userID string) (geo.Fix, error) {
	s.calls++
	if s.err != nil {
		return geo.Fix{}, s.err
	}
	return s.fix, nil
}

func testPayload() *capture.Payload {
	return &capture.Payload{Data: []byte("png-bytes"), ContentType: "image/png"}
}

func newTestUseCase(repo *MockPostRepository, blob *stubBlobStore, locator *stubLocator) UploadUseCase {
	return NewUploadUseCase(repo, blob, locator, nil, nil, logger.New())
}

func TestSession_StartsIdle(t *testing.T) {
	uc := newTestUseCase(new(MockPostRepository), &stubBlobStore{}, &stubLocator{})

	session := uc.Session("user-1")

	assert.Equal(t, entity.StateIdle, session.State)
	assert.False(t, session.HasImage)
	assert.False(t, session.HasFix)
}

func TestSubmitGuard_TruthTable(t *testing.T) {
	fix := geo.Fix{Latitude: 12.9716, Longitude: 77.5946}

	cases := []struct {
		name     string
		image    bool
		location bool
		allowed  bool
	}{
		{"no image, no location", false, false, false},
		{"image, no location", true, false, false},
		{"no image, location", false, true, false},
		{"image and location", true, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := newTestUseCase(new(MockPostRepository), &stubBlobStore{}, &stubLocator{fix: fix})

			if tc.image {
				_, err := uc.AttachImage("user-1", testPayload())
				assert.NoError(t, err)
			}
			if tc.location {
				_, err := uc.RequestLocation(context.Background(), "user-1")
				assert.NoError(t, err)
			}

			_, session, err := uc.Submit("user-1")
			if tc.allowed {
				assert.NoError(t, err)
				assert.Equal(t, entity.StateConfirmWarning, session.State)
			} else {
				assert.ErrorIs(t, err, ErrSubmitBlocked)
			}
		})
	}
}

func TestRequestLocation_Idempotent(t *testing.T) {
	locator := &stubLocator{fix: geo.Fix{Latitude: 12.9716, Longitude: 77.5946}}
	uc := newTestUseCase(new(MockPostRepository), &stubBlobStore{}, locator)

	first, err := uc.RequestLocation(context.Background(), "user-1")
	assert.NoError(t, err)

	// A held fix makes the second probe a no-op.
	locator.fix = geo.Fix{Latitude: 0, Longitude: 0}
	second, err := uc.RequestLocation(context.Background(), "user-1")
	assert.NoError(t, err)

	assert.Equal(t, 1, locator.calls)
	assert.Equal(t, first.Latitude, second.Latitude)
	assert.Equal(t, first.Longitude, second.Longitude)
}

func TestRequestLocation_FailureLeavesStateUntouched(t *testing.T) {
	locator := &stubLocator{err: geo.ErrUnavailable}
	uc := newTestUseCase(new(MockPostRepository), &stubBlobStore{}, locator)

	_, err := uc.AttachImage("user-1", testPayload())
	assert.NoError(t, err)

	_, err = uc.RequestLocation(context.Background(), "user-1")
	assert.Error(t, err)

	session := uc.Session("user-1")
	assert.True(t, session.HasImage)
	assert.False(t, session.HasFix)
	assert.Equal(t, entity.StatePreviewing, session.State)
}

func TestSetDetails_DescriptionCap(t *testing.T) {
	uc := newTestUseCase(new(MockPostRepository), &stubBlobStore{}, &stubLocator{})

	_, err := uc.SetDetails("user-1", strings.Repeat("a", 501), false)
	assert.Error(t, err)

	session := uc.Session("user-1")
	assert.Empty(t, session.Description)

	_, err = uc.SetDetails("user-1", strings.Repeat("a", 500), true)
	assert.NoError(t, err)

	// The cap counts characters, not bytes: 200 Devanagari characters are
	// 600 bytes and must still be accepted.
	_, err = uc.SetDetails("user-1", strings.Repeat("क", 200), false)
	assert.NoError(t, err)

	_, err = uc.SetDetails("user-1", strings.Repeat("क", 501), false)
	assert.Error(t, err)
}

func TestDiscardPreview_ReturnsToIdle(t *testing.T) {
	uc := newTestUseCase(new(MockPostRepository), &stubBlobStore{}, &stubLocator{})

	_, err := uc.AttachImage("user-1", testPayload())
	assert.NoError(t, err)

	session := uc.DiscardPreview("user-1")
	assert.Equal(t, entity.StateIdle, session.State)
	assert.False(t, session.HasImage)
}

func TestCancelConfirm_NoSideEffect(t *testing.T) {
	repo := new(MockPostRepository)
	blob := &stubBlobStore{}
	uc := newTestUseCase(repo, blob, &stubLocator{fix: geo.Fix{Latitude: 1, Longitude: 2}})

	_, err := uc.AttachImage("user-1", testPayload())
	assert.NoError(t, err)
	_, err = uc.RequestLocation(context.Background(), "user-1")
	assert.NoError(t, err)
	_, _, err = uc.Submit("user-1")
	assert.NoError(t, err)

	session := uc.CancelConfirm("user-1")

	assert.Equal(t, entity.StateReadyToSubmit, session.State)
	assert.Equal(t, 0, blob.uploads)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestConfirm_WithoutPendingWarning(t *testing.T) {
	uc := newTestUseCase(new(MockPostRepository), &stubBlobStore{}, &stubLocator{})

	_, err := uc.Confirm(context.Background(), "user-1", "Asha")

	assert.ErrorIs(t, err, ErrNoConfirmPending)
}

// File-origin success: image + fix held, warning confirmed, both writes
// succeed, session resets to idle.
func TestConfirm_Success(t *testing.T) {
	repo := new(MockPostRepository)
	blob := &stubBlobStore{}
	uc := newTestUseCase(repo, blob, &stubLocator{fix: geo.Fix{Latitude: 12.9716, Longitude: 77.5946}})

	_, err := uc.AttachImage("user-1", testPayload())
	assert.NoError(t, err)
	_, err = uc.RequestLocation(context.Background(), "user-1")
	assert.NoError(t, err)
	_, err = uc.SetDetails("user-1", "Near the market underpass", false)
	assert.NoError(t, err)

	warning, _, err := uc.Submit("user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, warning)

	repo.On("Create", mock.AnythingOfType("*entity.Post")).Run(func(args mock.Arguments) {
		post := args.Get(0).(*entity.Post)
		post.ID = "post-1"
	}).Return(nil)

	post, err := uc.Confirm(context.Background(), "user-1", "Asha")

	assert.NoError(t, err)
	assert.Equal(t, "post-1", post.ID)
	assert.Equal(t, "user-1", post.OwnerID)
	assert.NotEmpty(t, post.ImageURL)
	assert.NotEmpty(t, post.ImagePath)
	assert.Equal(t, 12.9716, post.Latitude)
	assert.Equal(t, 77.5946, post.Longitude)
	assert.LessOrEqual(t, len(post.Description), entity.MaxDescriptionLength)
	assert.Equal(t, 1, blob.uploads)
	assert.Contains(t, blob.lastKey, "posts/user-1/")

	// Confirmed success resets all local state.
	session := uc.Session("user-1")
	assert.Equal(t, entity.StateIdle, session.State)
	assert.False(t, session.HasImage)
	assert.False(t, session.HasFix)
	assert.Empty(t, session.Description)

	repo.AssertExpectations(t)
}

func TestConfirm_BlobFailure_NoRecordWritten(t *testing.T) {
	repo := new(MockPostRepository)
	blob := &stubBlobStore{err: errors.New("storage unreachable")}
	uc := newTestUseCase(repo, blob, &stubLocator{fix: geo.Fix{Latitude: 1, Longitude: 2}})

	_, err := uc.AttachImage("user-1", testPayload())
	assert.NoError(t, err)
	_, err = uc.RequestLocation(context.Background(), "user-1")
	assert.NoError(t, err)
	_, _, err = uc.Submit("user-1")
	assert.NoError(t, err)

	_, err = uc.Confirm(context.Background(), "user-1", "Asha")

	assert.Error(t, err)
	// The record write never happens, so no visible orphan can exist.
	repo.AssertNotCalled(t, "Create", mock.Anything)

	session := uc.Session("user-1")
	assert.Equal(t, entity.StateReadyToSubmit, session.State)
	assert.True(t, session.HasImage)
	assert.True(t, session.HasFix)
}

func TestConfirm_RecordFailure_PreservesInputs(t *testing.T) {
	repo := new(MockPostRepository)
	repo.On("Create", mock.AnythingOfType("*entity.Post")).Return(errors.New("database write failed"))
	blob := &stubBlobStore{}
	uc := newTestUseCase(repo, blob, &stubLocator{fix: geo.Fix{Latitude: 12.9716, Longitude: 77.5946}})

	_, err := uc.AttachImage("user-1", testPayload())
	assert.NoError(t, err)
	_, err = uc.RequestLocation(context.Background(), "user-1")
	assert.NoError(t, err)
	_, err = uc.SetDetails("user-1", "Flyover camp", true)
	assert.NoError(t, err)
	_, _, err = uc.Submit("user-1")
	assert.NoError(t, err)

	_, err = uc.Confirm(context.Background(), "user-1", "Asha")
	assert.Error(t, err)

	// The blob write went through; the orphaned blob is accepted and the
	// user keeps everything they entered.
	assert.Equal(t, 1, blob.uploads)
	session := uc.Session("user-1")
	assert.Equal(t, entity.StateReadyToSubmit, session.State)
	assert.True(t, session.HasImage)
	assert.True(t, session.HasFix)
	assert.Equal(t, "Flyover camp", session.Description)
	assert.True(t, session.IsAnonymous)

	repo.AssertExpectations(t)
}

func TestDismiss_DropsSession(t *testing.T) {
	uc := newTestUseCase(new(MockPostRepository), &stubBlobStore{}, &stubLocator{fix: geo.Fix{Latitude: 1, Longitude: 2}})

	_, err := uc.AttachImage("user-1", testPayload())
	assert.NoError(t, err)

	uc.Dismiss("user-1")

	session := uc.Session("user-1")
	assert.Equal(t, entity.StateIdle, session.State)
	assert.False(t, session.HasImage)
}
