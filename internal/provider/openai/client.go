package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider"
)

// noAdvertiser is the answer the extraction prompt asks for when nothing matches
const noAdvertiser = "NONE"

var ErrMissingAPIKey = errors.New("openai provider requires an API key")

// Config holds settings for an OpenAI-compatible endpoint
type Config struct {
	BaseURL        string
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	// Advertisers bounds the names ExtractAdvertiser may return
	Advertisers []provider.KnownAdvertiser
}

// Client talks to an OpenAI-compatible API for chat completions and embeddings.
// It implements every provider interface.
type Client struct {
	config     Config
	httpClient *http.Client
	log        *zap.Logger
}

var (
	_ provider.Classifier          = (*Client)(nil)
	_ provider.AdvertiserExtractor = (*Client)(nil)
	_ provider.Embedder            = (*Client)(nil)
	_ provider.AdWriter            = (*Client)(nil)
)

// New creates a new client with the given configuration
func New(config Config, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.ChatModel == "" {
		config.ChatModel = "gpt-4o-mini"
	}
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = "text-embedding-3-small"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Advertisers == nil {
		config.Advertisers = provider.DefaultKnownAdvertisers
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        log,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type embeddingRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Classify asks the model for exactly one intent label
func (c *Client) Classify(ctx context.Context, text string) (string, error) {
	labels := make([]string, 0, len(domain.ClassifiableIntents))
	for _, intent := range domain.ClassifiableIntents {
		labels = append(labels, string(intent))
	}

	system := "You classify the intent of a user's question. Answer with exactly one of these labels and nothing else: " +
		strings.Join(labels, ", ")

	return c.complete(ctx, system, text, 16)
}

// ExtractAdvertiser asks the model to pick a company from the known set.
// Answers outside the set are treated as no match.
func (c *Client) ExtractAdvertiser(ctx context.Context, text string) (string, bool, error) {
	names := provider.Names(c.config.Advertisers)
	system := fmt.Sprintf(
		"Identify which company the user's question is about. Answer with exactly one of: %s. If none of them is mentioned answer %s.",
		strings.Join(names, ", "), noAdvertiser,
	)

	answer, err := c.complete(ctx, system, text, 16)
	if err != nil {
		return "", false, err
	}

	answer = strings.Trim(strings.TrimSpace(answer), `"'.`)
	for _, name := range names {
		if strings.EqualFold(answer, name) {
			return name, true, nil
		}
	}

	if !strings.EqualFold(answer, noAdvertiser) {
		c.log.Debug("Discarding advertiser outside known set", zap.String("answer", answer))
	}
	return "", false, nil
}

// WriteAd asks the model for a short ad tailored to the query
func (c *Client) WriteAd(ctx context.Context, entry domain.CatalogEntry, query string) (string, error) {
	system := fmt.Sprintf(
		"You write one or two sentence ads in the language of the user's question. Advertiser: %s. About: %s. Style reference: %s",
		entry.Name, entry.Description, entry.AdTemplate,
	)
	return c.complete(ctx, system, query, 200)
}

// Embed returns the embedding vector for text
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	var out embeddingResponse
	if err := c.post(ctx, "/embeddings", embeddingRequest{Input: text, Model: c.config.EmbeddingModel}, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, errors.New("no embedding returned")
	}
	return out.Data[0].Embedding, nil
}

func (c *Client) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	req := chatRequest{
		Model: c.config.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens: maxTokens,
	}

	var out chatResponse
	if err := c.post(ctx, "/chat/completions", req, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
