package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return newLister(apiKey, "")
}

func newLister(apiKey, baseURL string) *Lister {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(cfg),
	}
}

// TranslationModels returns the sorted ids of chat models usable for
// translation
func (l *Lister) TranslationModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .wikifreq.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var chatModels []string
	for _, model := range models.Models {
		if isTranslationModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		}
	}
	sort.Strings(chatModels)
	return chatModels, nil
}

// isTranslationModel keeps chat models and drops audio, image, embedding
// and moderation variants
func isTranslationModel(id string) bool {
	for _, skip := range []string{"tts", "audio", "realtime", "transcribe", "image", "dall-e", "embedding", "moderation", "search"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return strings.HasPrefix(id, "gpt") || strings.HasPrefix(id, "chatgpt") ||
		strings.HasPrefix(id, "o1") || strings.HasPrefix(id, "o3") || strings.HasPrefix(id, "o4")
}

// ListAvailableModels prints the translation models to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	chatModels, err := l.TranslationModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Chat/Translation Models (use with --translate-model):")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}
	for _, model := range chatModels {
		fmt.Fprintf(w, "  %s\n", model)
	}
	return nil
}
