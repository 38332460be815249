package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/pbaille/wastesort/internal/domain"
	"github.com/pbaille/wastesort/internal/upload"
)

// Remote calls an HTTP inference service. The image is posted as the
// multipart field "image"; the service answers with
// {"predicted_class": "GLASS", "confidence": 0.91, "item_name": "Glass Jar"}.
type Remote struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewRemote creates a Remote classifier for endpoint. apiKey is optional and
// sent as a bearer token.
func NewRemote(endpoint, apiKey string, client *http.Client) (*Remote, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("remote classifier endpoint not set")
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Remote{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   client,
	}, nil
}

type inferenceResponse struct {
	PredictedClass string  `json:"predicted_class"`
	Confidence     float64 `json:"confidence"`
	ItemName       string  `json:"item_name"`
	Error          string  `json:"error,omitempty"`
}

// Classify posts the image and maps the prediction to a candidate
func (r *Remote) Classify(ctx context.Context, img upload.Image) (domain.Candidate, error) {
	body, contentType, err := encodeImage(img)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, body)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Candidate{}, ctxErr
		}
		return domain.Candidate{}, fmt.Errorf("%w: http request: %v", ErrClassificationFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("%w: read response: %v", ErrClassificationFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.Candidate{}, fmt.Errorf("%w: api error (status %d): %s", ErrClassificationFailed, resp.StatusCode, string(respBody))
	}

	var apiResp inferenceResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return domain.Candidate{}, fmt.Errorf("%w: unmarshal response: %v", ErrClassificationFailed, err)
	}
	if apiResp.Error != "" {
		return domain.Candidate{}, fmt.Errorf("%w: api error: %s", ErrClassificationFailed, apiResp.Error)
	}

	c, err := toCandidate(strings.ToUpper(strings.TrimSpace(apiResp.PredictedClass)), apiResp.Confidence, apiResp.ItemName)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	return c, nil
}

func encodeImage(img upload.Image) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="upload"`)
	if img.MediaType != "" {
		h.Set("Content-Type", img.MediaType)
	}

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}
