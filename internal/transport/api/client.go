// Package api is the client for the quiz server's HTTP surface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quizo/internal/domain"
)

// Client calls the quiz-creation endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type createQuizResponse struct {
	RoomCode string `json:"room_code"`
}

// CreateQuiz registers a quiz with the server and returns the room code it
// was assigned. The quiz is validated locally first; the call is bounded by
// ctx and the client timeout.
func (c *Client) CreateQuiz(ctx context.Context, quiz domain.Quiz) (string, error) {
	if err := quiz.Validate(); err != nil {
		return "", err
	}

	body, err := json.Marshal(quiz)
	if err != nil {
		return "", fmt.Errorf("encode quiz: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/create_quiz", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create quiz: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create quiz: unexpected status %s", resp.Status)
	}

	var decoded createQuizResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode create quiz response: %w", err)
	}
	code := domain.NormalizeRoomCode(decoded.RoomCode)
	if code == "" {
		return "", fmt.Errorf("create quiz: empty room code in response")
	}
	return code, nil
}
