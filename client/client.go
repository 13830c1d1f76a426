// Package client is a small Go client for the ArteZaar login endpoints,
// plus the two-stage login flow that drives them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx response carrying the server's message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SendOTP asks the server to issue and email a login code.
func (c *Client) SendOTP(ctx context.Context, email string) error {
	_, err := c.post(ctx, "/api/send-otp", map[string]string{"email": email})
	return err
}

// VerifyOTP submits a code and returns the session token on success.
func (c *Client) VerifyOTP(ctx context.Context, email string, code string) (string, error) {
	resp, err := c.post(ctx, "/api/verify-otp", map[string]string{"email": email, "otp": code})
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

type apiResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil && res.StatusCode < 300 {
		return nil, err
	}
	if res.StatusCode >= 300 {
		message := parsed.Message
		if message == "" {
			message = res.Status
		}
		return nil, &APIError{StatusCode: res.StatusCode, Message: message}
	}
	return &parsed, nil
}
