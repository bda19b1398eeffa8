package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("extraction api key not configured")

// Analyzer extracts structured simcha details from an invitation image.
// The result is a best-effort raw mapping; callers must normalize it.
type Analyzer interface {
	AnalyzeInvitation(ctx context.Context, imageBase64, mimeType string) (map[string]any, error)
}

// Client calls an OpenAI-compatible vision model.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	httpc       *http.Client
	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

// NewClient creates an extraction client. Empty model/baseURL select the
// defaults; a nil http.Client gets a 60s timeout (vision calls are slow).
func NewClient(apiKey, model, baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 60 * time.Second}
	}
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:      strings.TrimSpace(apiKey),
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpc:       httpc,
		minInterval: 100 * time.Millisecond,
	}
}

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []contentPart
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// retryableStatusError marks HTTP statuses worth retrying.
type retryableStatusError struct {
	status int
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("extraction request failed: status %d", e.status)
}

func systemPrompt(today string) string {
	return fmt.Sprintf(`You are a helpful assistant for an Orthodox Jewish user.
Today's date is: %s.

RULES:
1. Extract Event Type, Celebrant Name, Location.
2. Extract Date & Time.
   - CRITICAL: Convert Hebrew dates (e.g., "3rd of Kislev") to the correct Gregorian Date (YYYY-MM-DD) for the upcoming occurrence.
3. Determine if it is a "Shabbos Event" (Sholom Zochor, Kiddush, Aufruf). Set "is_shabbos_event": true if yes.

Return ONLY valid JSON:
{
    "event_type": "String",
    "celebrant": "String",
    "location": "String",
    "date": "YYYY-MM-DD",
    "time": "HH:MM",
    "is_shabbos_event": boolean,
    "summary": "Short 1 sentence summary"
}`, today)
}

// AnalyzeInvitation sends the invitation image to the vision model and
// returns the raw extracted mapping.
func (c *Client) AnalyzeInvitation(ctx context.Context, imageBase64, mimeType string) (map[string]any, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(imageBase64) == "" {
		return nil, errors.New("no image data provided")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	// Rate limiting
	c.throttleMu.Lock()
	since := time.Since(c.lastRequest)
	if since < c.minInterval {
		time.Sleep(c.minInterval - since)
	}
	c.lastRequest = time.Now()
	c.throttleMu.Unlock()

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(time.Now().Format("2006-01-02"))},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: "Please analyze this invitation."},
				{Type: "image_url", ImageURL: &imageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", mimeType, imageBase64),
				}},
			}},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal extraction request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"

	var result map[string]any
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("create extraction request: %w", err))
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+c.apiKey)

			resp, err := c.httpc.Do(req)
			if err != nil {
				log.Printf("[extraction] http error: %v", err)
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				log.Printf("[extraction] rate limited or server error: status %d", resp.StatusCode)
				return &retryableStatusError{status: resp.StatusCode}
			}
			if resp.StatusCode >= 400 {
				body, _ := io.ReadAll(resp.Body)
				return retry.Unrecoverable(fmt.Errorf("extraction API error %d: %s", resp.StatusCode, string(body)))
			}

			var chatResp chatResponse
			if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode extraction response: %w", err))
			}
			if chatResp.Error != nil {
				return retry.Unrecoverable(fmt.Errorf("extraction API error: %s", chatResp.Error.Message))
			}
			if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
				return retry.Unrecoverable(errors.New("extraction model returned empty response"))
			}

			parsed, err := parseModelJSON(chatResp.Choices[0].Message.Content)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			result = parsed
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// parseModelJSON unmarshals the model output, tolerating a markdown code
// fence around the JSON object.
func parseModelJSON(text string) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		cleaned := strings.TrimSpace(text)
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
		if err2 := json.Unmarshal([]byte(cleaned), &raw); err2 != nil {
			return nil, fmt.Errorf("parse extraction result: %w (raw: %s)", err, text[:min(200, len(text))])
		}
	}
	return raw, nil
}
