package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sahara/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestSend_RelaysMessage(t *testing.T) {
	var received Message
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer relay.Close()

	uc := NewContactUseCase(relay.URL, logger.New())

	err := uc.Send(context.Background(), Message{
		Name:    "Asha",
		Email:   "asha@example.com",
		Subject: "Partnership",
		Message: "We run a shelter in Indiranagar and would like to help.",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Asha", received.Name)
	assert.Equal(t, "Partnership", received.Subject)
}

func TestSend_RelayFailure(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer relay.Close()

	uc := NewContactUseCase(relay.URL, logger.New())

	err := uc.Send(context.Background(), Message{Name: "Asha", Message: "hello there"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "relay returned status 500")
}

func TestSend_RelayUnreachable(t *testing.T) {
	uc := NewContactUseCase("http://127.0.0.1:1", logger.New())

	err := uc.Send(context.Background(), Message{Name: "Asha", Message: "hello there"})

	assert.Error(t, err)
}

func TestSend_MessageTooLong(t *testing.T) {
	called := false
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer relay.Close()

	uc := NewContactUseCase(relay.URL, logger.New())

	err := uc.Send(context.Background(), Message{Message: strings.Repeat("a", MaxMessageLength+1)})

	assert.Error(t, err)
	assert.False(t, called)
}
