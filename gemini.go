package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash-image"
	geminiTextModel    = "gemini-2.5-flash"
)

var errMissingAPIKey = errors.New("API key is missing; set api_key in ~/.thumbgenrc or GEMINI_API_KEY")

// geminiClient serves the studio operations through the Gemini API. The SDK
// client is built on first use.
type geminiClient struct {
	apiKey     string
	imageModel string
	textModel  string

	// baseURL and httpClient override the SDK defaults when set.
	baseURL    string
	httpClient *http.Client

	mu     sync.Mutex
	client *genai.Client
}

func newGeminiClient(apiKey, model string) *geminiClient {
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiClient{
		apiKey:     apiKey,
		imageModel: model,
		textModel:  geminiTextModel,
	}
}

func (g *geminiClient) models(ctx context.Context) (*genai.Models, error) {
	if g.apiKey == "" {
		return nil, errMissingAPIKey
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		config := &genai.ClientConfig{
			APIKey:     g.apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: g.httpClient,
		}
		if g.baseURL != "" {
			config.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL, APIVersion: "v1beta"}
		}
		client, err := genai.NewClient(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		g.client = client
	}
	return g.client.Models, nil
}

func (g *geminiClient) generate(ctx context.Context, model string, parts []*genai.Part, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	models, err := g.models(ctx)
	if err != nil {
		return nil, err
	}
	Logger().Debug("gemini request", "model", model, "parts", len(parts))
	return models.GenerateContent(ctx, model, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, config)
}

func imagePart(p *Payload) *genai.Part {
	return genai.NewPartFromBytes(p.Data, p.MIME)
}

func (g *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*Payload, error) {
	var parts []*genai.Part
	if req.Reference != nil {
		parts = append(parts, imagePart(req.Reference))
	}
	parts = append(parts, genai.NewPartFromText(buildPrompt(req)))
	resp, err := g.generate(ctx, g.imageModel, parts, &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: "16:9"},
	})
	if err != nil {
		return nil, fmt.Errorf("generate thumbnail: %w", err)
	}
	return firstImage(resp)
}

func (g *geminiClient) Enhance(ctx context.Context, prompt string) (string, error) {
	resp, err := g.generate(ctx, g.textModel, []*genai.Part{genai.NewPartFromText(enhancePromptInstruction(prompt))}, nil)
	if err != nil {
		return prompt, fmt.Errorf("enhance prompt: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return prompt, fmt.Errorf("enhance prompt: empty response")
	}
	return text, nil
}

func (g *geminiClient) RemoveBackground(ctx context.Context, src *Payload) (*Payload, error) {
	if src == nil {
		return nil, errEmptyPayload
	}
	parts := []*genai.Part{imagePart(src), genai.NewPartFromText(removeBackgroundInstruction)}
	resp, err := g.generate(ctx, g.imageModel, parts, nil)
	if err != nil {
		return nil, fmt.Errorf("remove background: %w", err)
	}
	return firstImage(resp)
}

// firstImage returns the first inline image among the candidate parts.
func firstImage(resp *genai.GenerateContentResponse) (*Payload, error) {
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return &Payload{MIME: mime, Data: part.InlineData.Data}, nil
		}
	}
	return nil, errNoImageData
}
