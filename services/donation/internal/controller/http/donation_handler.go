package http

import (
	"errors"
	"net/http"
	"strconv"

	"sahara/pkg/logger"
	"sahara/services/donation/internal/usecase"

	"github.com/gin-gonic/gin"
)

type DonationHandler struct {
	donationUseCase usecase.DonationUseCase
	razorpayKeyID   string
	logger          *logger.Logger
}

func NewDonationHandler(donationUseCase usecase.DonationUseCase, razorpayKeyID string, logger *logger.Logger) *DonationHandler {
	return &DonationHandler{
		donationUseCase: donationUseCase,
		razorpayKeyID:   razorpayKeyID,
		logger:          logger,
	}
}

type CreateDonationRequest struct {
	Amount int `json:"amount" binding:"required"`
}

type ConfirmPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// GetPresets godoc
// @Summary      Get donation presets
// @Description  The one-tap amounts plus the custom amount ceiling
// @Tags         donations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /donations/presets [get]
func (h *DonationHandler) GetPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"presets":    h.donationUseCase.PresetAmounts(),
		"max_amount": 100000,
		"currency":   "INR",
	})
}

// CreateDonation godoc
// @Summary      Create a donation order
// @Description  Validates the amount (preset or custom up to 100000) and creates a provider order for checkout
// @Tags         donations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateDonationRequest true "Donation amount in rupees"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /donations [post]
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	donation, err := h.donationUseCase.CreateDonation(userID, req.Amount)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to create donation: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create donation order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"donation": donation,
		"key_id":   h.razorpayKeyID,
	})
}

// ConfirmPayment godoc
// @Summary      Confirm a payment callback
// @Description  Verifies the provider signature and marks the donation paid
// @Tags         donations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ConfirmPaymentRequest true "Provider callback fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /donations/confirm [post]
func (h *DonationHandler) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	donation, err := h.donationUseCase.ConfirmPayment(req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		if errors.Is(err, usecase.ErrSignatureMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err.Error() == "donation not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to confirm payment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Donation received, thank you", "donation": donation})
}

// CancelDonation godoc
// @Summary      Cancel a pending donation
// @Tags         donations
// @Produce      json
// @Security     BearerAuth
// @Param        order_id path string true "Provider order ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /donations/{order_id}/cancel [post]
func (h *DonationHandler) CancelDonation(c *gin.Context) {
	userID := c.GetString("user_id")
	orderID := c.Param("order_id")

	donation, err := h.donationUseCase.CancelDonation(userID, orderID)
	if err != nil {
		if err.Error() == "you can only cancel your own donations" {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"donation": donation})
}

// GetDonations godoc
// @Summary      Get donation history
// @Tags         donations
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of donations"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /donations [get]
func (h *DonationHandler) GetDonations(c *gin.Context) {
	userID := c.GetString("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	donations, err := h.donationUseCase.GetDonations(userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get donations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get donations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"donations": donations, "count": len(donations)})
}
