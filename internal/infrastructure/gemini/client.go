// Package gemini wraps the Google generative-language API for expense
// analysis and time-range extraction.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/budget-bot/internal/domain"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultTimeout = 10 * time.Second

const analyzePrompt = `You are a smart expense tracking assistant for Indian users. Analyze the user's expense message and:

1. Extract numerical amount in any format (₹500, 5k, 1.5L, 4L, 1Cr etc.) - where k = thousand (1000), L = Lakh (100,000) and Cr = Crore (10,000,000)
2. Determine the most appropriate category from this list: Food, Groceries, Transport, Vehicle, Bills, Health, Fashion, Electronics, Personal Care, Education, Entertainment, Shopping, Home, Miscellaneous
3. Generate a friendly response message in English (20-30 words) with emojis.
4. Return JSON format: {"amount": number, "category": string, "message": string}

IMPORTANT: Be extremely flexible in understanding expense formats. Extract any number and make a reasonable guess at the category.
Always return a valid numerical amount and category even if you have to guess based on limited information.`

const queryRangePrompt = `You are an expense tracking assistant. Analyze the user's query about their expenses and extract the time range and limit.

Return a JSON with the following format:
{"days": number, "description": "human readable description of the time period", "limit": number or null}

Examples:
- "show my last expense" -> {"days": 30, "description": "last expense", "limit": 1}
- "what did I spend today" -> {"days": 1, "description": "today", "limit": null}
- "show my expenses from last week" -> {"days": 7, "description": "last week", "limit": null}
- "show all my expenses" -> {"days": 90, "description": "all expenses", "limit": null}
- "show my recent 5 expenses" -> {"days": 30, "description": "recent expenses", "limit": 5}

Be very attentive to phrases like "last expense" or "recent expense" which indicate the user wants to see only the most recent expense.`

const deletionRangePrompt = `You are an expense tracking assistant. Analyze the user's request to delete their expense history and extract either a time range or a count of recent expenses.

Return a JSON with the following format:
{"days": number or null, "description": "human readable description of what to delete", "count": number or null, "position": "first" or "last" or null}

Examples:
- "delete all my expenses" -> {"days": null, "description": "all expenses", "count": null, "position": null}
- "erase my expenses from last week" -> {"days": 7, "description": "last week", "count": null, "position": null}
- "delete my last 2 expenses" -> {"days": null, "description": "last 2 expenses", "count": 2, "position": "last"}
- "delete first 2 expenses" -> {"days": null, "description": "first 2 expenses", "count": 2, "position": "first"}

IMPORTANT: "first N expenses" means the oldest N, "last N expenses" means the most recent N. If no position is specified, assume "last".`

// Client wraps a configured generative model.
type Client struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewClient creates a Gemini client for the given model name.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is empty")
	}
	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{
		client:  gc,
		model:   gc.GenerativeModel(model),
		timeout: defaultTimeout,
	}, nil
}

func (c *Client) Close() error { return c.client.Close() }

// AnalyzeExpense extracts amount, category and a confirmation message from
// a free-form expense message.
func (c *Client) AnalyzeExpense(ctx context.Context, text string) (*domain.ExpenseAnalysis, error) {
	raw, err := c.generateJSON(ctx, analyzePrompt, "User Input: "+text)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Amount   any    `json:"amount"`
		Category string `json:"category"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("gemini: decode analysis: %w", err)
	}
	amount, ok := coerceAmount(payload.Amount)
	if !ok {
		return nil, fmt.Errorf("gemini: analysis has no usable amount")
	}
	msg := payload.Message
	if msg == "" {
		msg = "Added to expenses! 💰"
	}
	return &domain.ExpenseAnalysis{
		Amount:   amount,
		Category: normalizeCategory(payload.Category),
		Message:  msg,
	}, nil
}

// ExtractQueryRange extracts the time window an expense query asks about.
func (c *Client) ExtractQueryRange(ctx context.Context, text string) (*domain.QueryRange, error) {
	raw, err := c.generateJSON(ctx, queryRangePrompt, "User query: "+text)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Days        *int   `json:"days"`
		Description string `json:"description"`
		Limit       *int   `json:"limit"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("gemini: decode query range: %w", err)
	}
	r := &domain.QueryRange{Days: 30, Description: "recent expenses"}
	if payload.Days != nil && *payload.Days > 0 {
		r.Days = *payload.Days
	}
	if payload.Description != "" {
		r.Description = payload.Description
	}
	if payload.Limit != nil && *payload.Limit > 0 {
		r.Limit = *payload.Limit
	}
	return r, nil
}

// ExtractDeletionRange extracts which expenses a deletion request targets.
func (c *Client) ExtractDeletionRange(ctx context.Context, text string) (*domain.DeletionRange, error) {
	raw, err := c.generateJSON(ctx, deletionRangePrompt, "User request: "+text)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Days        *int   `json:"days"`
		Description string `json:"description"`
		Count       *int   `json:"count"`
		Position    string `json:"position"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("gemini: decode deletion range: %w", err)
	}
	r := &domain.DeletionRange{
		Days:        payload.Days,
		Count:       payload.Count,
		Position:    payload.Position,
		Description: payload.Description,
	}
	if r.Description == "" {
		r.Description = "specified expenses"
	}
	if r.Count != nil && r.Position == "" {
		r.Position = "last"
	}
	return r, nil
}

// generateJSON sends a prompt and returns the first JSON object found in
// the model's text response.
func (c *Client) generateJSON(ctx context.Context, system, input string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(system+"\n\n"+input))
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}
	text := firstText(resp)
	if text == "" {
		return nil, fmt.Errorf("gemini: empty response")
	}
	return extractJSON(text)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
