package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate(t *testing.T) {
	user := &User{
		Email:       "test@example.com",
		DisplayName: "Test User",
		Password:    "password",
		Role:        RoleMember,
		IsActive:    true,
	}

	// BeforeCreate should set ID if empty
	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUser_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-id-123"
	user := &User{
		ID:          existingID,
		Email:       "test@example.com",
		DisplayName: "Test User",
		Password:    "password",
	}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	// ID should remain unchanged if already set
	assert.Equal(t, existingID, user.ID)
}

func TestPost_BeforeCreate(t *testing.T) {
	post := &Post{
		OwnerID:   "owner-123",
		ImageURL:  "https://example.com/img.jpg",
		ImagePath: "posts/owner-123/img.jpg",
		Latitude:  12.9716,
		Longitude: 77.5946,
		Status:    StatusActive,
	}

	err := post.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, post.ID)
}

func TestPost_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-post-id"
	post := &Post{
		ID:      existingID,
		OwnerID: "owner-123",
	}

	err := post.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.Equal(t, existingID, post.ID)
}

func TestDonation_BeforeCreate(t *testing.T) {
	donation := &Donation{
		OrderID:  "order_ABC123",
		Amount:   500,
		Currency: "INR",
		Status:   DonationCreated,
	}

	err := donation.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, donation.ID)
}
