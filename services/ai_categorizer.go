package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/triptally/triptally-api/models"
)

const anthropicAPIURL = "https://api.anthropic.com/v1/messages"

type AICategorizer struct {
	apiKey string
	client *http.Client
}

func NewAICategorizer() *AICategorizer {
	return &AICategorizer{
		apiKey: os.Getenv("ANTHROPIC_API_KEY"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Anthropic Messages API payloads
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const categorizeSystemPrompt = `You are a travel expense classifier.
Classify the user's expense description into exactly ONE of these categories:
flight, accommodation, food, transport, insurance, activity, misc.

Rules:
1. Airfare, airline names, boarding passes: flight.
2. Hotels, hostels, Airbnb, resorts: accommodation.
3. Restaurants, cafes, groceries, drinks: food.
4. Taxis, trains, buses, fuel, parking, car rental: transport.
5. Travel or health insurance: insurance.
6. Tickets, museums, tours, shopping, souvenirs: activity.
7. Anything unclear: misc.

IMPORTANT: Return ONLY the category name (lowercase). No other text.`

// PredictCategory asks the model to classify a free-text expense description.
// Any failure degrades to misc so expense creation is never blocked on the AI.
func (s *AICategorizer) PredictCategory(ctx context.Context, description string) (models.ExpenseCategory, error) {
	if s.apiKey == "" {
		return models.CategoryMisc, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	reqBody := anthropicRequest{
		Model:     "claude-3-haiku-20240307",
		MaxTokens: 10,
		System:    categorizeSystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: fmt.Sprintf("Expense: %s", description)},
		},
	}

	text, err := s.call(ctx, reqBody)
	if err != nil {
		return models.CategoryMisc, err
	}

	category := models.ExpenseCategory(strings.ToLower(strings.TrimSpace(text)))
	if !category.Valid() {
		return models.CategoryMisc, nil
	}
	return category, nil
}

// PredictCountry asks the model to resolve a destination to a country and
// flag emoji, as JSON.
func (s *AICategorizer) PredictCountry(ctx context.Context, destination string) (string, string, error) {
	if s.apiKey == "" {
		return "", "", fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	reqBody := anthropicRequest{
		Model:     "claude-3-haiku-20240307",
		MaxTokens: 60,
		Messages: []anthropicMessage{
			{Role: "user", Content: fmt.Sprintf(
				`Identify the country for the travel destination %q. Respond with JSON only: {"country": "...", "flag": "..."} where flag is the country's flag emoji. If unknown: {"country": null, "flag": null}`,
				destination)},
		},
	}

	text, err := s.call(ctx, reqBody)
	if err != nil {
		return "", "", err
	}

	text = strings.TrimSpace(strings.Trim(text, "`"))
	var parsed struct {
		Country *string `json:"country"`
		Flag    *string `json:"flag"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return "", "", fmt.Errorf("unparseable country response: %q", text)
	}
	if parsed.Country == nil || parsed.Flag == nil {
		return "", "", fmt.Errorf("no country identified for %q", destination)
	}
	return *parsed.Country, *parsed.Flag, nil
}

// PredictRate asks the model for a current exchange rate. Returns the raw
// text; the caller parses and sanity-checks it.
func (s *AICategorizer) PredictRate(ctx context.Context, from, to models.Currency) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	reqBody := anthropicRequest{
		Model:     "claude-3-haiku-20240307",
		MaxTokens: 20,
		System:    "Respond with the numeric exchange rate only. No other text.",
		Messages: []anthropicMessage{
			{Role: "user", Content: fmt.Sprintf("%s to %s rate:", from, to)},
		},
	}

	return s.call(ctx, reqBody)
}

func (s *AICategorizer) call(ctx context.Context, reqBody anthropicRequest) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", anthropicAPIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("anthropic error %d: %s", resp.StatusCode, string(body))
	}

	var result anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("anthropic: %s", result.Error.Message)
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("anthropic: empty response")
	}

	return result.Content[0].Text, nil
}
