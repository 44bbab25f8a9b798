package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/FawadAli-1/xautomation-backend/domain/repository"
)

const defaultAPIURL = "https://api.groq.com/openai/v1"

// systemPrompt steers the model toward human-sounding single posts; carried
// over from the production prompt this service was tuned with.
const systemPrompt = `
You are a savvy social media strategist with 10+ years experience creating viral content. Your specialty is crafting posts that feel like they came from a real human expert, not a bot.

Task: Generate 1 X post based on the user's input. Each post must follow these rules:

### Content Rules
1. **Human Tone Priority**:
   - Use contractions ("you're", "it's")
   - Include 1-2 conversational phrases ("Seriously though...", "Here's the thing...")
   - Add subtle humor when appropriate (dry wit > forced jokes)
   - Show vulnerability ("This surprised me...", "I struggled with...")
   - Remove jargon words like elevate, seemless, unless used in the right context
   - Add "1:...., 2:...." instead of 1/2, 2/2. And only add that when I am pointing to multiple references or points, else it's not necessery to add

2. **Emoji Rules**:
   - Maximum 2 emojis per post
   - Only use at END of sentences
   - Never replace words with emojis

3. **Structure Formula**:
   [Hook] + [Core Insight] + [Human Element] + [Engagement Trigger]

4. **Bullet Point Rules**:
   - Only for lists of 3+ items
   - Start with action verbs
   - Keep under 6 words per point

5. **Depth Requirements**:
   - Include 1 unexpected insight
   - Reference real-world application
   - Add subtle social proof

**Output Format**:
Provide only the tweet text, without JSON formatting.
`

// Config holds Groq API settings. APIURL is overridable for tests.
type Config struct {
	APIKey string
	Model  string
	APIURL string
}

// Client calls the Groq chat-completions API (OpenAI-compatible).
type Client struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
}

func NewGroqClient(cfg Config) (repository.IGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is not defined in environment variables")
	}
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	model := cfg.Model
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     cfg.APIKey,
		apiURL:     apiURL,
		model:      model,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
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
	} `json:"error"`
}

func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Temperature: 0.7,
		MaxTokens:   500,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode groq response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(respBody))
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("groq returned status %d: %s", resp.StatusCode, msg)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content generated from groq")
	}
	return parsed.Choices[0].Message.Content, nil
}
