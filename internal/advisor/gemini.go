// Package advisor generates remediation advice for findings through a
// generative model. Advice is decorative: any failure degrades to a
// placeholder string and never affects scores or audit flow.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-1.5-flash"

// Placeholder is returned whenever advice generation fails.
const Placeholder = "Advice unavailable."

const systemPrompt = "You are a WCAG accessibility expert. Describe the issue briefly: " +
	"1. What does it mean for the user? 2. How to fix it (technically)? No filler."

// GeminiAdvisor generates advice through the Gemini API.
type GeminiAdvisor struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

var _ contract.Advisor = &GeminiAdvisor{}

// NewGeminiAdvisor builds an advisor for the given API key and model name.
func NewGeminiAdvisor(ctx context.Context, apiKey, modelName string) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create advisor client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	return &GeminiAdvisor{client: client, model: model}, nil
}

// Advise generates remediation text for one finding. Only the rule id and
// description go into the prompt, to keep token usage bounded.
func (a *GeminiAdvisor) Advise(ctx context.Context, finding schema.Finding, pageContext string) string {
	prompt := fmt.Sprintf("Issue: %s, Description: %s", finding.RuleID, finding.Description)
	if pageContext != "" {
		prompt += fmt.Sprintf(" (page: %s)", pageContext)
	}

	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		contract.LogWarn("advice generation", err)
		return Placeholder
	}

	text := extractText(resp)
	if text == "" {
		return Placeholder
	}
	return text
}

// Close releases the underlying API client.
func (a *GeminiAdvisor) Close() error {
	return a.client.Close()
}

// extractText flattens the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}
