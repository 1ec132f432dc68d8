package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sahara/pkg/logger"
)

const relayTimeout = 10 * time.Second

// MaxMessageLength bounds a single contact message.
const MaxMessageLength = 2000

type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactUseCase interface {
	Send(ctx context.Context, msg Message) error
}

type contactUseCase struct {
	relayURL string
	client   *http.Client
	logger   *logger.Logger
}

func NewContactUseCase(relayURL string, logger *logger.Logger) ContactUseCase {
	return &contactUseCase{
		relayURL: relayURL,
		client:   &http.Client{Timeout: relayTimeout},
		logger:   logger,
	}
}

// Send forwards the message to the configured relay endpoint. The relay
// owns delivery; this service only validates and forwards.
func (uc *contactUseCase) Send(ctx context.Context, msg Message) error {
	if len(msg.Message) > MaxMessageLength {
		return fmt.Errorf("message must be %d characters or fewer", MaxMessageLength)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uc.relayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := uc.client.Do(req)
	if err != nil {
		uc.logger.Error("Contact relay unreachable: %v", err)
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		uc.logger.Error("Contact relay returned %d: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("relay returned status %d", resp.StatusCode)
	}

	return nil
}
