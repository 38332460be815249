package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"

	"github.com/pbaille/wastesort/internal/domain"
	"github.com/pbaille/wastesort/internal/upload"
)

const (
	anthropicAPI   = "https://api.anthropic.com/v1/messages"
	anthropicModel = "claude-sonnet-4-20250514"
)

// Anthropic classifies images with a vision-capable Claude model
type Anthropic struct {
	apiKey     string
	model      string
	endpoint   string
	categories []string
	client     *http.Client
}

// AnthropicOptions configures the Anthropic backend. Empty fields take
// defaults; APIKey falls back to ANTHROPIC_API_KEY.
type AnthropicOptions struct {
	APIKey   string
	Model    string
	Endpoint string
	Client   *http.Client
}

// NewAnthropic creates an Anthropic classifier restricted to categories
func NewAnthropic(categories []string, opts AnthropicOptions) (*Anthropic, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("anthropic classifier needs at least one category")
	}

	a := &Anthropic{
		apiKey:     apiKey,
		model:      opts.Model,
		endpoint:   opts.Endpoint,
		categories: categories,
		client:     opts.Client,
	}
	if a.model == "" {
		a.model = anthropicModel
	}
	if a.endpoint == "" {
		a.endpoint = anthropicAPI
	}
	if a.client == nil {
		a.client = http.DefaultClient
	}
	return a, nil
}

// Classify asks the model which category the pictured item belongs to
func (a *Anthropic) Classify(ctx context.Context, img upload.Image) (domain.Candidate, error) {
	text, err := a.callAPI(ctx, img, buildPrompt(a.categories))
	if err != nil {
		return domain.Candidate{}, err
	}

	c, err := parseResponse(text)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	return c, nil
}

// Categories returns the ids the model is instructed to choose from
func (a *Anthropic) Categories() []string {
	return a.categories
}

func buildPrompt(categories []string) string {
	var sb strings.Builder

	sb.WriteString("Identify the waste item in this image and classify it. Return JSON only.\n\n")
	sb.WriteString("Allowed waste types (use exactly one of these ids):\n")
	for _, c := range categories {
		sb.WriteString("- ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}

	sb.WriteString(`
Return a JSON object with this structure:
{"waste_type": "PLASTIC", "confidence": 0.93, "item_name": "Plastic Bottle"}

Rules:
- waste_type must be one of the allowed ids above
- confidence is 0.0-1.0 based on how certain the classification is
- item_name is a short, specific, title-cased name for the item

Return ONLY the JSON, no other text.`)

	return sb.String()
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type   string     `json:"type"`
	Text   string     `json:"text,omitempty"`
	Source *apiSource `json:"source,omitempty"`
}

type apiSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (a *Anthropic) callAPI(ctx context.Context, img upload.Image, prompt string) (string, error) {
	reqBody := apiRequest{
		Model:     a.model,
		MaxTokens: 256,
		Messages: []apiMessage{{
			Role: "user",
			Content: []apiContent{
				{
					Type: "image",
					Source: &apiSource{
						Type:      "base64",
						MediaType: img.MediaType,
						Data:      base64.StdEncoding.EncodeToString(img.Data),
					},
				},
				{Type: "text", Text: prompt},
			},
		}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: http request: %v", ErrClassificationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrClassificationFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: api error (status %d): %s", ErrClassificationFailed, resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", ErrClassificationFailed, err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("%w: api error: %s", ErrClassificationFailed, apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrClassificationFailed)
	}

	return apiResp.Content[0].Text, nil
}

type modelAnswer struct {
	WasteType  string  `json:"waste_type"`
	Confidence float64 `json:"confidence"`
	ItemName   string  `json:"item_name"`
}

func parseResponse(resp string) (domain.Candidate, error) {
	// Models sometimes wrap JSON in markdown code fences
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	var ans modelAnswer
	if err := json.Unmarshal([]byte(resp), &ans); err != nil {
		return domain.Candidate{}, fmt.Errorf("parse json: %w (response: %s)", err, resp)
	}

	return toCandidate(strings.ToUpper(strings.TrimSpace(ans.WasteType)), ans.Confidence, ans.ItemName)
}

// toCandidate converts a model score (0-1 fraction or 0-100 percentage) into
// a candidate with an integer percentage.
func toCandidate(wasteType string, score float64, itemName string) (domain.Candidate, error) {
	if wasteType == "" {
		return domain.Candidate{}, errors.New("missing waste type")
	}
	if score < 0 || score > 100 || math.IsNaN(score) {
		return domain.Candidate{}, fmt.Errorf("confidence out of range: %v", score)
	}
	if score <= 1 {
		score *= 100
	}

	return domain.Candidate{
		WasteType:  wasteType,
		Confidence: int(math.Round(score)),
		ItemName:   strings.TrimSpace(itemName),
	}, nil
}
