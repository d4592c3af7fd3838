package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/devpilot-dev/devpilot/internal/config"
	"github.com/sashabaranov/go-openai"
)

// OpenAIGenerator asks an OpenAI-compatible endpoint for user stories.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator returns nil when no API key is configured, which
// selects the heuristic-only path in StoryService.
func NewOpenAIGenerator(cfg config.OpenAIConfig) *OpenAIGenerator {
	if cfg.APIKey == "" {
		return nil
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, description string, max int) ([]string, error) {
	prompt := fmt.Sprintf(
		"Generate %d concise user stories in the format: As a [role], I want to [action], so that [benefit]. One per line, no numbering.\nProject description: %s",
		max, description)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.6,
	})

	if err != nil {
		return nil, fmt.Errorf("story completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty choices in completion response")
	}

	var stories []string

	for _, line := range strings.Split(resp.Choices[0].Message.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		stories = append(stories, line)
		if len(stories) == max {
			break
		}
	}

	return stories, nil
}
