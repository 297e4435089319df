// Package llm generates article keywords with an OpenAI-compatible chat completion api.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/pulsefeed/pkg/config"
	"github.com/umputun/pulsefeed/pkg/domain"
)

// generation errors, both are terminal for the triggering message
var (
	ErrJSONParse     = errors.New("failed to parse json response")
	ErrEmptyResponse = errors.New("empty response")
)

var jsonBlockRe = regexp.MustCompile("(?s)```json(.*?)```")

// Generator extracts keywords from article titles
type Generator struct {
	client *openai.Client
	config config.LLMConfig
}

// NewGenerator creates a new keyword generator
func NewGenerator(cfg config.LLMConfig) *Generator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT3Dot5Turbo
	}

	return &Generator{client: openai.NewClientWithConfig(clientConfig), config: cfg}
}

// Generate returns keywords of a single article
func (g *Generator) Generate(ctx context.Context, article domain.Article) (domain.ArticleKeywords, error) {
	content, err := g.complete(ctx, articleSystemPrompt, articlePrompt(article.Title))
	if err != nil {
		return domain.ArticleKeywords{}, err
	}

	var keywords []string
	if err := json.Unmarshal([]byte(extractJSON(content)), &keywords); err != nil {
		return domain.ArticleKeywords{}, fmt.Errorf("%w: %q: %v", ErrJSONParse, content, err)
	}
	log.Printf("[DEBUG] article %q, keywords %v", article.Title, keywords)
	return domain.ArticleKeywords{ArticleID: article.ID, Keywords: cleanupKeywords(keywords)}, nil
}

// GenerateBatch returns keywords of all articles in one request, results are aligned with articles
func (g *Generator) GenerateBatch(ctx context.Context, articles []domain.Article) ([]domain.ArticleKeywords, error) {
	if len(articles) == 0 {
		return []domain.ArticleKeywords{}, nil
	}

	titles := make([]string, len(articles))
	for i, a := range articles {
		titles[i] = a.Title
	}
	content, err := g.complete(ctx, batchSystemPrompt, batchPrompt(titles))
	if err != nil {
		return nil, err
	}

	var lists [][]string
	if err := json.Unmarshal([]byte(extractJSON(content)), &lists); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrJSONParse, content, err)
	}
	if len(lists) != len(articles) {
		return nil, fmt.Errorf("%w: keywords array length does not match with articles length, keywords: %d, articles: %d",
			ErrEmptyResponse, len(lists), len(articles))
	}

	res := make([]domain.ArticleKeywords, len(articles))
	for i, a := range articles {
		log.Printf("[DEBUG] article %q, keywords %v", a.Title, lists[i])
		res[i] = domain.ArticleKeywords{ArticleID: a.ID, Keywords: cleanupKeywords(lists[i])}
	}
	return res, nil
}

func (g *Generator) complete(ctx context.Context, system, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.config.Model,
		Temperature: float32(g.config.Temperature),
		MaxTokens:   g.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: response content is null", ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// IsRateLimit reports whether err is an http 429 from the llm provider
func IsRateLimit(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	return errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests
}

// extractJSON returns content of a ```json fenced block, or the whole response without it
func extractJSON(response string) string {
	if m := jsonBlockRe.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(response)
}

// cleanupKeywords drops single keyword results as too low signal
func cleanupKeywords(keywords []string) []string {
	if len(keywords) <= 1 {
		return []string{}
	}
	return keywords
}
