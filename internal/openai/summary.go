package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/theopenlane/httpsling"
)

const (
	// chatCompletionsPath is the API path for chat completions
	chatCompletionsPath = "chat/completions"
	// MaxPolicyChars bounds the policy text sent for summarization
	MaxPolicyChars = 6000
	// truncationMarker is appended when the policy text was cut
	truncationMarker = "...[truncated]"
	// systemPrompt frames the assistant role
	systemPrompt = "You are a helpful assistant that summarizes legal documents."
)

// policyPromptTemplate is the fixed instruction prompt for policy summaries
const policyPromptTemplate = `You are a legal expert assistant. Summarize the following Terms of Service text in 3-5 clear, simple sentences for a regular user.

Specific Focus Areas:
1. Highlight any recent policy changes.
2. Highlight AI training clauses (how user data is used for models).
3. Highlight data-sharing clauses with third parties.
4. Explain the risk level for regular users.

Keep the tone objective and helpful. Do NOT start with "Here is a summary" or similar filler.

Policy Text:
"%s"`

// Message is a single chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for the chat completions API
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// chatResponse is the subset of the chat completions response used here
type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// TruncatePolicy cuts text to MaxPolicyChars characters and marks the cut
func TruncatePolicy(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxPolicyChars {
		return text
	}

	return string(runes[:MaxPolicyChars]) + truncationMarker
}

// SummarizePolicy asks the model for a plain-language summary of the policy text
func (c *Client) SummarizePolicy(ctx context.Context, text string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(policyPromptTemplate, TruncatePolicy(text))},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	requester := httpsling.MustNew(
		httpsling.URL(fmt.Sprintf("%s/%s", c.baseURL, chatCompletionsPath)),
		httpsling.Post(),
		httpsling.BearerAuth(c.apiKey),
		httpsling.JSONBody(body),
		httpsling.WithHTTPClient(c.httpClient),
	)

	var out chatResponse

	resp, err := requester.ReceiveWithContext(ctx, &out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if len(out.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	summary := strings.TrimSpace(out.Choices[0].Message.Content)
	if summary == "" {
		return "", ErrEmptyCompletion
	}

	return summary, nil
}
