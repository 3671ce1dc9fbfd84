package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned by translators created without a key
var ErrMissingAPIKey = errors.New("API key not found")

// Translator translates a single word between two languages
type Translator interface {
	Translate(ctx context.Context, word, from, to string) (string, error)
	Name() string
}

// Provider names accepted by New
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config selects and configures a translation provider
type Config struct {
	Provider string
	APIKey   string
	Model    string // Provider default when empty
	BaseURL  string // Overrides the API endpoint, used by tests
}

// New creates the translator named by cfg.Provider
func New(ctx context.Context, cfg Config) (Translator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		return NewOpenAITranslator(cfg), nil
	case ProviderGemini:
		t, err := NewGeminiTranslator(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", cfg.Provider)
	}
}

func prompt(word, from, to string) string {
	return fmt.Sprintf("Translate the %s word '%s' to %s. Respond with only the translation, nothing else.",
		LanguageName(from), word, LanguageName(to))
}

// cleanTranslation strips whitespace and the quotes models like to add
func cleanTranslation(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// OpenAITranslator translates with an OpenAI chat model
type OpenAITranslator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAITranslator creates a new translator instance
func NewOpenAITranslator(cfg Config) *OpenAITranslator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAITranslator{
		apiKey: cfg.APIKey,
		model:  model,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

// Name returns the provider name
func (t *OpenAITranslator) Name() string {
	return ProviderOpenAI
}

// Translate translates word from one language code to another
func (t *OpenAITranslator) Translate(ctx context.Context, word, from, to string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("OpenAI %w", ErrMissingAPIKey)
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt(word, from, to),
			},
		},
		MaxTokens:   50,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return cleanTranslation(resp.Choices[0].Message.Content), nil
}

// GeminiTranslator translates with a Gemini model
type GeminiTranslator struct {
	model  string
	client *genai.Client
}

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// NewGeminiTranslator creates a Gemini API client
func NewGeminiTranslator(ctx context.Context, cfg Config) (*GeminiTranslator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini %w", ErrMissingAPIKey)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiTranslator{
		model:  model,
		client: client,
	}, nil
}

// Name returns the provider name
func (t *GeminiTranslator) Name() string {
	return ProviderGemini
}

// Translate translates word from one language code to another
func (t *GeminiTranslator) Translate(ctx context.Context, word, from, to string) (string, error) {
	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(prompt(word, from, to)), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: 50,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := cleanTranslation(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return text, nil
}

// TranslationCache stores translations keyed by target language and word.
// It is safe for concurrent use.
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

func cacheKey(lang, word string) string {
	return lang + "\x00" + word
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(lang, word, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[cacheKey(lang, word)] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(lang, word string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[cacheKey(lang, word)]
	return translation, ok
}

// Len returns the number of cached translations
func (tc *TranslationCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.translations)
}

// CachedTranslator answers repeated lookups from a cache
type CachedTranslator struct {
	Translator
	cache *TranslationCache
}

// NewCachedTranslator wraps t with cache. A nil cache creates a new one.
func NewCachedTranslator(t Translator, cache *TranslationCache) *CachedTranslator {
	if cache == nil {
		cache = NewTranslationCache()
	}
	return &CachedTranslator{Translator: t, cache: cache}
}

// Translate returns the cached translation or asks the wrapped translator
func (c *CachedTranslator) Translate(ctx context.Context, word, from, to string) (string, error) {
	if tr, ok := c.cache.Get(to, word); ok {
		return tr, nil
	}
	tr, err := c.Translator.Translate(ctx, word, from, to)
	if err != nil {
		return "", err
	}
	c.cache.Add(to, word, tr)
	return tr, nil
}

var languageNames = map[string]string{
	"ar": "Arabic",
	"bg": "Bulgarian",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"it": "Italian",
	"ja": "Japanese",
	"nl": "Dutch",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"zh": "Chinese",
}

// LanguageName returns the English name of a language code, or the code
// itself when it is not known
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}
