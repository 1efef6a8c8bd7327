package mailgateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway represents an outbound email gateway
type Gateway interface {
	SendEmail(to, subject, body string) (string, error)
}

// HTTPGateway sends mail through the hosted transactional-mail provider
type HTTPGateway struct {
	BaseURL    string
	APIKey     string
	Sender     string
	httpClient *http.Client
}

// MockGateway simulates sends for local development and tests
type MockGateway struct {
	Name string
}

// NewHTTPGateway creates a new HTTPGateway
func NewHTTPGateway(baseURL, apiKey, sender string) Gateway {
	return &HTTPGateway{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Sender:  sender,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewMockGateway creates a new MockGateway
func NewMockGateway(name string) Gateway {
	return &MockGateway{Name: name}
}

// SendEmail sends an email through the provider's HTTP API
func (g *HTTPGateway) SendEmail(to, subject, body string) (string, error) {
	requestBody := map[string]interface{}{
		"from":    g.Sender,
		"to":      to,
		"subject": subject,
		"html":    body,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest("POST", g.BaseURL+"/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var response struct {
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return response.MessageID, nil
}

// SendEmail simulates a send and returns a mock message ID
func (g *MockGateway) SendEmail(to, subject, body string) (string, error) {
	return fmt.Sprintf("%s-MOCK-MSG-%d", g.Name, time.Now().UnixNano()), nil
}
