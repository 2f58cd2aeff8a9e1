package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"voicebridge-backend/pkg/ctxutil"
)

const defaultLibreTranslateURL = "https://libretranslate.com/translate"

// LibreTranslateClient implements Provider against a LibreTranslate server
type LibreTranslateClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewLibreTranslateClient creates a new LibreTranslate provider client
func NewLibreTranslateClient(apiURL, apiKey string) *LibreTranslateClient {
	if apiURL == "" {
		apiURL = defaultLibreTranslateURL
	}
	return &LibreTranslateClient{
		apiURL: apiURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: ctxutil.ProviderTimeout,
		},
	}
}

type libreTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreTranslateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

// TranslateRemote calls the LibreTranslate API. Timeouts, transport failures
// and error payloads all come back as plain errors for the service to
// normalize.
func (c *LibreTranslateClient) TranslateRemote(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	payload, err := json.Marshal(&libreTranslateRequest{
		Q:      text,
		Source: sourceCode,
		Target: targetCode,
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	var result libreTranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode translate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error != "" {
			return "", fmt.Errorf("provider returned %d: %s", resp.StatusCode, result.Error)
		}
		return "", fmt.Errorf("provider returned %d", resp.StatusCode)
	}
	if result.Error != "" {
		return "", fmt.Errorf("provider error: %s", result.Error)
	}
	if result.TranslatedText == "" {
		return "", fmt.Errorf("provider returned empty translation")
	}

	return result.TranslatedText, nil
}
