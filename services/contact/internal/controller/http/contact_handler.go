package http

import (
	"net/http"

	"sahara/pkg/logger"
	"sahara/services/contact/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUseCase usecase.ContactUseCase
	logger         *logger.Logger
}

func NewContactHandler(contactUseCase usecase.ContactUseCase, logger *logger.Logger) *ContactHandler {
	return &ContactHandler{
		contactUseCase: contactUseCase,
		logger:         logger,
	}
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,min=2,max=200"`
	Message string `json:"message" binding:"required,min=10,max=2000"`
}

// SendMessage godoc
// @Summary      Send a contact form message
// @Description  Validates the form and relays it to the delivery endpoint
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        request body ContactRequest true "Contact form fields"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /contact [post]
func (h *ContactHandler) SendMessage(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := usecase.Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}

	if err := h.contactUseCase.Send(c.Request.Context(), msg); err != nil {
		h.logger.Error("Failed to relay contact message: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not send your message. Please try again later."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thanks for reaching out. We will get back to you soon."})
}
