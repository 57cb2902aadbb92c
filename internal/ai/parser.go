// Package ai parses free-text transaction descriptions into structured
// fields using Google's Gemini models.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// Generator produces a text completion for a prompt. The production
// implementation wraps a Gemini model; tests substitute a fake.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ParsedTransaction is the model's reading of a free-text entry like
// "coffee 3.50 yesterday". CategoryTitle is a suggestion against the
// caller's category list and may be empty when nothing fits.
type ParsedTransaction struct {
	Type          models.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	Description   string                 `json:"description"`
	CategoryTitle string                 `json:"category_title,omitempty"`
	Date          *time.Time             `json:"date,omitempty"`
	WithPerson    string                 `json:"with_person,omitempty"`
}

// Parser turns free text into transaction fields.
type Parser struct {
	generator Generator
}

// NewParser creates a Parser on top of the given generator.
func NewParser(generator Generator) *Parser {
	return &Parser{generator: generator}
}

// ParseTransaction asks the model to extract transaction fields from input.
// categoryTitles constrains the category suggestion to titles the user
// actually has.
func (p *Parser) ParseTransaction(ctx context.Context, input string, categoryTitles []string) (*ParsedTransaction, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "input text is required")
	}

	prompt := buildPrompt(input, categoryTitles)
	raw, err := p.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrParserUnavailable, err)
	}

	parsed, err := decodeResponse(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnparsableInput, err)
	}
	return parsed, nil
}

func buildPrompt(input string, categoryTitles []string) string {
	categories := "none"
	if len(categoryTitles) > 0 {
		categories = strings.Join(categoryTitles, ", ")
	}
	return fmt.Sprintf(`Extract the transaction described by the following text.

Text: %q
Today: %s
Known categories: %s

Respond with a single JSON object and nothing else, using these keys:
  "type": "inflow" or "outflow"
  "amount": the monetary amount as a number
  "description": a short cleaned-up description
  "category_title": one of the known categories, or "" if none fits
  "date": ISO 8601 date if the text implies one, otherwise omit
  "with_person": the counterparty's name if the text names one, otherwise omit`,
		input, time.Now().Format("2006-01-02"), categories)
}

// decodeResponse parses the model output, tolerating a markdown code fence
// around the JSON.
func decodeResponse(raw string) (*ParsedTransaction, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var payload struct {
		Type          string          `json:"type"`
		Amount        decimal.Decimal `json:"amount"`
		Description   string          `json:"description"`
		CategoryTitle string          `json:"category_title"`
		Date          string          `json:"date"`
		WithPerson    string          `json:"with_person"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("model output is not valid JSON: %w", err)
	}

	transactionType := models.TransactionType(payload.Type)
	if transactionType != models.TransactionTypeInflow && transactionType != models.TransactionTypeOutflow {
		return nil, fmt.Errorf("model output has unknown type %q", payload.Type)
	}
	if payload.Amount.IsNegative() {
		return nil, fmt.Errorf("model output has negative amount %s", payload.Amount)
	}

	parsed := &ParsedTransaction{
		Type:          transactionType,
		Amount:        payload.Amount,
		Description:   payload.Description,
		CategoryTitle: payload.CategoryTitle,
		WithPerson:    payload.WithPerson,
	}
	if payload.Date != "" {
		date, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			date, err = time.Parse(time.RFC3339, payload.Date)
		}
		if err == nil {
			parsed.Date = &date
		}
	}
	return parsed, nil
}

// geminiGenerator is the production Generator backed by the Gemini API.
type geminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiGenerator connects to the Gemini API. An empty API key means the
// feature is not configured and the endpoint should report unavailable.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return nil, apperrors.ErrParserUnavailable
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrParserUnavailable, err)
	}
	return &geminiGenerator{client: client, model: client.GenerativeModel(model)}, nil
}

func (g *geminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}
