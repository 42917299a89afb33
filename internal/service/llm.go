package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("no content found in the response")

// GeminiGenerator calls the Gemini API through the genai SDK.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator for model.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	return newGeminiGenerator(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

func newGeminiGenerator(ctx context.Context, cc *genai.ClientConfig, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends prompt and returns the first candidate's text.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

const shoppingListPrompt = `Extract and aggregate ingredients from the recipes below. Translate to Swedish if
needed. Use metric system only. Group by: Meat/Fish, Vegetables/Fruits, Dairy,
Grains, Spices/Herbs, and Other.

Format:
<div>
<h3>Meat/Fish</h3>
<ul><li>500 g Sej</li></ul>
<h3>Vegetables/Fruits</h3>
<ul><li>2 st Lime</li></ul>
<h3>Pantry Items</h3>
<ul><li>100 g Majonnäs</li></ul>
</div>
`

// BuildShoppingListPrompt builds the aggregation prompt. Items the household
// already has are listed so the model leaves them out.
func BuildShoppingListPrompt(ingredients, haveAtHome string) string {
	var sb strings.Builder
	sb.WriteString(shoppingListPrompt)
	if exclude := strings.TrimSpace(haveAtHome); exclude != "" {
		sb.WriteString("\nDo not include these items, they are already at home:\n")
		sb.WriteString(exclude)
		sb.WriteString("\n")
	}
	sb.WriteString("\nRecipes:\n")
	sb.WriteString(ingredients)
	return sb.String()
}

// StripCodeFences removes a surrounding markdown code block from model output.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "```html"):
		s = strings.TrimPrefix(s, "```html")
	case strings.HasPrefix(s, "```"):
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
