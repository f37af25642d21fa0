package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openheartlab/openheart-backend/internal/config"
	"github.com/openheartlab/openheart-backend/internal/models"
)

// ErrAIUnavailable is returned when no provider is configured or a provider
// response cannot be parsed into a valid classification. The store never
// retries classification; the HTTP layer maps this to 503.
var ErrAIUnavailable = errors.New("no AI provider available")

// Classification is the label/confidence pair produced by a provider.
type Classification struct {
	Label      models.Label `json:"label"`
	Confidence float64      `json:"confidence"`
}

// Classifier obtains an emotion label for free text and a best-effort summary
// for vents.
type Classifier interface {
	Configured() bool
	Classify(ctx context.Context, text string) (Classification, error)
	Summarize(ctx context.Context, text string) (string, error)
}

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

	// Providers must answer within this window; a slow classifier must never
	// hold up the write queue, so classification always resolves before the
	// store mutation is enqueued.
	aiRequestTimeout = 12 * time.Second

	maxClassifyInput  = 2000
	maxSummarizeInput = 6000
)

// AIClassifier speaks the OpenAI chat-completions and Gemini generateContent
// APIs with a strict-JSON prompt contract.
type AIClassifier struct {
	provider   string
	httpClient *http.Client

	openAIKey     string
	openAIModel   string
	openAIBaseURL string

	geminiKey     string
	geminiModel   string
	geminiBaseURL string
}

// NewAIClassifier builds a classifier from configuration. Provider selection:
// AI_PROVIDER=openai uses OpenAI; gemini (or unset) uses Gemini when its key
// is present.
func NewAIClassifier(cfg *config.Config) *AIClassifier {
	return &AIClassifier{
		provider:      cfg.AIProvider,
		httpClient:    &http.Client{Timeout: aiRequestTimeout},
		openAIKey:     cfg.OpenAIKey,
		openAIModel:   cfg.OpenAIModel,
		openAIBaseURL: defaultOpenAIBaseURL,
		geminiKey:     cfg.GeminiKey,
		geminiModel:   cfg.GeminiModel,
		geminiBaseURL: defaultGeminiBaseURL,
	}
}

// Configured reports whether any provider key is present. When false, the
// create path stores the documented default label (Calm, 0.0) instead of
// calling out.
func (c *AIClassifier) Configured() bool {
	return c.openAIKey != "" || c.geminiKey != ""
}

// Diag returns provider diagnostics for the health endpoint. Never includes
// key material.
func (c *AIClassifier) Diag() map[string]interface{} {
	provider := c.provider
	if provider == "" {
		provider = "(unset)"
	}
	return map[string]interface{}{
		"provider":    provider,
		"hasOpenAI":   c.openAIKey != "",
		"hasGemini":   c.geminiKey != "",
		"openaiModel": c.openAIModel,
		"geminiModel": c.geminiModel,
	}
}

// Classify returns one of the six canonical labels with a clamped confidence.
func (c *AIClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return Classification{Label: models.LabelCalm, Confidence: 0}, nil
	}
	if len(t) > maxClassifyInput {
		t = t[:maxClassifyInput]
	}

	prompt := strings.Join([]string{
		"You are an expert emotion classifier. Return STRICT JSON ONLY, no preface, no code fences.",
		"Allowed labels: " + labelList() + ".",
		`Respond in this schema: {"label":"<OneOfLabels>","confidence":0..1}.`,
		"Confidence reflects how clearly the text expresses the emotion; most casual text sits in 0.60-0.80.",
		"Text to classify: <<<",
		t,
		">>>",
	}, "\n")

	raw, err := c.complete(ctx, prompt, 128, 0.1)
	if err != nil {
		return Classification{}, err
	}

	var parsed struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Classification{}, fmt.Errorf("%w: unparseable provider response", ErrAIUnavailable)
	}
	label, err := models.ParseLabel(parsed.Label)
	if err != nil {
		return Classification{}, fmt.Errorf("%w: invalid label %q from provider", ErrAIUnavailable, parsed.Label)
	}
	return Classification{Label: label, Confidence: models.ClampConfidence(parsed.Confidence)}, nil
}

// Summarize produces a short neutral summary of a vent. Callers treat failures
// as best-effort and store an empty summary.
func (c *AIClassifier) Summarize(ctx context.Context, text string) (string, error) {
	t := strings.TrimSpace(text)
	if len(t) > maxSummarizeInput {
		t = t[:maxSummarizeInput]
	}

	prompt := strings.Join([]string{
		"Summarize the user's story in a neutral, nonjudgmental tone.",
		"Do NOT give advice. Do NOT evaluate. Refer to the author as \"they\".",
		`Be concise (2-4 sentences). Output STRICT JSON ONLY like: {"summary":"..."}.`,
		"Story: <<<",
		t,
		">>>",
	}, "\n")

	raw, err := c.complete(ctx, prompt, 256, 0.2)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", nil
	}
	return parsed.Summary, nil
}

// complete routes the prompt to the configured provider and returns the raw
// model output.
func (c *AIClassifier) complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	if c.provider == "openai" && c.openAIKey != "" {
		return c.completeOpenAI(ctx, prompt, temperature)
	}
	if (c.provider == "gemini" || c.provider == "") && c.geminiKey != "" {
		return c.completeGemini(ctx, prompt, maxTokens, temperature)
	}
	return "", ErrAIUnavailable
}

func (c *AIClassifier) completeOpenAI(ctx context.Context, prompt string, temperature float64) (string, error) {
	body := map[string]interface{}{
		"model":       c.openAIModel,
		"temperature": temperature,
		"messages": []map[string]string{
			{"role": "system", "content": "You are a precise assistant. Output STRICT JSON only."},
			{"role": "user", "content": prompt},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.openAIBaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.openAIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: OpenAI HTTP %d: %s", ErrAIUnavailable, resp.StatusCode, msg)
	}

	var data struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	if len(data.Choices) == 0 {
		return "", fmt.Errorf("%w: empty OpenAI response", ErrAIUnavailable)
	}
	return data.Choices[0].Message.Content, nil
}

func (c *AIClassifier) completeGemini(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"role": "user", "parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     temperature,
			"maxOutputTokens": maxTokens,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.geminiBaseURL, c.geminiModel, url.QueryEscape(c.geminiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: Gemini HTTP %d: %s", ErrAIUnavailable, resp.StatusCode, msg)
	}

	var data struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	if len(data.Candidates) == 0 || len(data.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty Gemini response", ErrAIUnavailable)
	}
	return data.Candidates[0].Content.Parts[0].Text, nil
}

func labelList() string {
	parts := make([]string, len(models.Labels))
	for i, l := range models.Labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}
