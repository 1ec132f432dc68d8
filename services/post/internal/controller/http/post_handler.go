package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"sahara/pkg/logger"
	"sahara/services/post/internal/capture"
	"sahara/services/post/internal/entity"
	"sahara/services/post/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	uploadUseCase usecase.UploadUseCase
	postUseCase   usecase.PostUseCase
	directory     UserDirectory
	logger        *logger.Logger
}

func NewPostHandler(uploadUseCase usecase.UploadUseCase, postUseCase usecase.PostUseCase, directory UserDirectory, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		uploadUseCase: uploadUseCase,
		postUseCase:   postUseCase,
		directory:     directory,
		logger:        logger,
	}
}

func formatPostResponse(post *entity.Post) map[string]interface{} {
	response := map[string]interface{}{
		"id":           post.ID,
		"display_name": post.PublicDisplayName(),
		"image_url":    post.ImageURL,
		"latitude":     post.Latitude,
		"longitude":    post.Longitude,
		"description":  post.Description,
		"is_anonymous": post.IsAnonymous,
		"status":       post.Status,
		"created_at":   post.CreatedAt,
		"updated_at":   post.UpdatedAt,
	}

	// The owner id is stored for permissioning but not displayed for
	// anonymous posts.
	if !post.IsAnonymous {
		response["owner_id"] = post.OwnerID
	}

	return response
}

// GetSession godoc
// @Summary      Get the current upload session
// @Tags         upload
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.UploadSession
// @Router       /upload/session [get]
func (h *PostHandler) GetSession(c *gin.Context) {
	userID := c.GetString("user_id")
	c.JSON(http.StatusOK, gin.H{"session": h.uploadUseCase.Session(userID)})
}

// AttachImage godoc
// @Summary      Attach a captured image to the upload session
// @Description  Accepts either a live camera frame (origin=camera, re-encoded as JPEG) or a selected file (origin=file, image types only).
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        origin formData string true "Capture origin (camera or file)"
// @Param        image formData file true "Image payload"
// @Success      200  {object}  entity.UploadSession
// @Failure      400  {object}  map[string]string
// @Router       /upload/image [post]
func (h *PostHandler) AttachImage(c *gin.Context) {
	userID := c.GetString("user_id")

	origin := c.PostForm("origin")
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An image is required"})
		return
	}

	var payload *capture.Payload
	switch origin {
	case "camera":
		payload, err = h.captureFrame(fh)
	default:
		payload, err = capture.FromFile(fh)
	}
	if err != nil {
		if errors.Is(err, capture.ErrNotImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files can be uploaded"})
			return
		}
		h.logger.Error("Failed to capture image for user %s: %v", userID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read the provided image"})
		return
	}

	session, err := h.uploadUseCase.AttachImage(userID, payload)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// captureFrame runs the camera origin: the posted frame is sampled through
// the camera source so the stream is released on every path.
func (h *PostHandler) captureFrame(fh *multipart.FileHeader) (*capture.Payload, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	stream, err := capture.NewFrameStream(data)
	if err != nil {
		return nil, err
	}

	camera := capture.Open(stream)
	defer camera.Dismiss()
	return camera.Capture()
}

// DiscardImage godoc
// @Summary      Discard the previewed image
// @Tags         upload
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.UploadSession
// @Router       /upload/image [delete]
func (h *PostHandler) DiscardImage(c *gin.Context) {
	userID := c.GetString("user_id")
	c.JSON(http.StatusOK, gin.H{"session": h.uploadUseCase.DiscardPreview(userID)})
}

// RequestLocation godoc
// @Summary      Capture a location fix for the upload session
// @Description  One high-accuracy fix per session; a held fix makes this a no-op.
// @Tags         upload
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.UploadSession
// @Failure      503  {object}  map[string]string
// @Router       /upload/location [post]
func (h *PostHandler) RequestLocation(c *gin.Context) {
	userID := c.GetString("user_id")

	session, err := h.uploadUseCase.RequestLocation(c.Request.Context(), userID)
	if err != nil {
		h.logger.Warn("Location probe failed for user %s: %v", userID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not determine your location. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

type DetailsRequest struct {
	Description string `json:"description"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// SetDetails godoc
// @Summary      Set description and anonymity for the upload session
// @Tags         upload
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body DetailsRequest true "Details"
// @Success      200  {object}  entity.UploadSession
// @Failure      400  {object}  map[string]string
// @Router       /upload/details [put]
func (h *PostHandler) SetDetails(c *gin.Context) {
	userID := c.GetString("user_id")

	var req DetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.uploadUseCase.SetDetails(userID, req.Description, req.IsAnonymous)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Submit godoc
// @Summary      Request submission of the upload session
// @Description  Succeeds only when both an image and a location fix are held. Returns the mandatory acknowledgement text; no write happens until confirmation.
// @Tags         upload
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /upload/submit [post]
func (h *PostHandler) Submit(c *gin.Context) {
	userID := c.GetString("user_id")

	warning, session, err := h.uploadUseCase.Submit(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"warning": warning, "session": session})
}

// CancelConfirm godoc
// @Summary      Cancel the pending confirmation
// @Tags         upload
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.UploadSession
// @Router       /upload/cancel [post]
func (h *PostHandler) CancelConfirm(c *gin.Context) {
	userID := c.GetString("user_id")
	c.JSON(http.StatusOK, gin.H{"session": h.uploadUseCase.CancelConfirm(userID)})
}

// Confirm godoc
// @Summary      Confirm the acknowledgement and create the post
// @Description  Uploads the image to blob storage, then writes the post record. On failure the session returns to ready_to_submit with inputs preserved.
// @Tags         upload
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /upload/confirm [post]
func (h *PostHandler) Confirm(c *gin.Context) {
	userID := c.GetString("user_id")

	displayName, err := h.directory.DisplayName(c.Request.Context(), userID, c.GetHeader("Authorization"))
	if err != nil {
		h.logger.Warn("Failed to resolve display name for user %s: %v", userID, err)
		displayName = ""
	}

	post, err := h.uploadUseCase.Confirm(c.Request.Context(), userID, displayName)
	if err != nil {
		if errors.Is(err, usecase.ErrNoConfirmPending) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed. Your photo and location are still here - please try again."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": formatPostResponse(post)})
}

// DismissSession godoc
// @Summary      Dismiss the upload session entirely
// @Tags         upload
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /upload/session [delete]
func (h *PostHandler) DismissSession(c *gin.Context) {
	userID := c.GetString("user_id")
	h.uploadUseCase.Dismiss(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Session dismissed"})
}

// GetPost godoc
// @Summary      Get a post by id
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postUseCase.GetPost(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": formatPostResponse(post)})
}

// ListPosts godoc
// @Summary      List posts newest-first
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size (max 50)"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.postUseCase.ListPosts(limit, offset)
	if err != nil {
		h.logger.Error("Failed to list posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
		return
	}

	response := make([]map[string]interface{}, len(posts))
	for i, post := range posts {
		response[i] = formatPostResponse(post)
	}

	c.JSON(http.StatusOK, gin.H{"posts": response, "count": len(response)})
}

type UpdatePostRequest struct {
	Description *string `json:"description"`
	IsAnonymous *bool   `json:"is_anonymous"`
}

// UpdatePost godoc
// @Summary      Update a post (owner only)
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body UpdatePostRequest true "Fields to update"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Router       /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postUseCase.UpdatePost(c.Param("id"), userID, req.Description, req.IsAnonymous)
	if err != nil {
		if err.Error() == "you can only update your own posts" {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": formatPostResponse(post)})
}

// DeletePost godoc
// @Summary      Delete a post (owner only)
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.postUseCase.DeletePost(c.Param("id"), userID); err != nil {
		if err.Error() == "you can only delete your own posts" {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// GetOwnerPosts godoc
// @Summary      List a user's own posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        owner_id path string true "Owner ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /posts/owner/{owner_id} [get]
func (h *PostHandler) GetOwnerPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.postUseCase.GetOwnerPosts(c.Param("owner_id"), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list owner posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
		return
	}

	response := make([]map[string]interface{}, len(posts))
	for i, post := range posts {
		response[i] = formatPostResponse(post)
	}

	c.JSON(http.StatusOK, gin.H{"posts": response, "count": len(response)})
}
