package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pbaille/wastesort/internal/config"
	"github.com/pbaille/wastesort/internal/domain"
	"github.com/pbaille/wastesort/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testImage = upload.Image{Data: []byte{0x89, 'P', 'N', 'G'}, Ref: "img://1", MediaType: "image/png"}

func TestRemoteClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, testImage.Data, data)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))

		fmt.Fprint(w, `{"predicted_class": "glass", "confidence": 0.914, "item_name": "Glass Jar"}`)
	}))
	defer srv.Close()

	r, err := NewRemote(srv.URL, "secret", nil)
	require.NoError(t, err)

	c, err := r.Classify(context.Background(), testImage)
	require.NoError(t, err)
	assert.Equal(t, domain.Candidate{WasteType: "GLASS", Confidence: 91, ItemName: "Glass Jar"}, c)
}

func TestRemoteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, "boom", ErrClassificationFailed},
		{"bad json", http.StatusOK, "{", ErrClassificationFailed},
		{"error field", http.StatusOK, `{"error": "model offline"}`, ErrClassificationFailed},
		{"missing class", http.StatusOK, `{"confidence": 0.5}`, ErrClassificationFailed},
		{"confidence out of range", http.StatusOK, `{"predicted_class": "GLASS", "confidence": 140}`, ErrClassificationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			r, err := NewRemote(srv.URL, "", nil)
			require.NoError(t, err)

			_, err = r.Classify(context.Background(), testImage)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRemoteHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r, err := NewRemote(srv.URL, "", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = r.Classify(ctx, testImage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewRemoteRequiresEndpoint(t *testing.T) {
	_, err := NewRemote("", "", nil)
	assert.Error(t, err)
}

func TestAnthropicClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req apiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		require.Len(t, req.Messages[0].Content, 2)
		assert.Equal(t, "image", req.Messages[0].Content[0].Type)
		assert.Equal(t, "image/png", req.Messages[0].Content[0].Source.MediaType)
		assert.Contains(t, req.Messages[0].Content[1].Text, "- METAL\n")

		fmt.Fprint(w, `{"content": [{"type": "text", "text": "`+
			"```json\\n{\\\"waste_type\\\": \\\"metal\\\", \\\"confidence\\\": 0.88, \\\"item_name\\\": \\\"Tin Can\\\"}\\n```"+
			`"}]}`)
	}))
	defer srv.Close()

	a, err := NewAnthropic([]string{"GLASS", "METAL"}, AnthropicOptions{APIKey: "test-key", Endpoint: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, []string{"GLASS", "METAL"}, a.Categories())

	c, err := a.Classify(context.Background(), testImage)
	require.NoError(t, err)
	assert.Equal(t, domain.Candidate{WasteType: "METAL", Confidence: 88, ItemName: "Tin Can"}, c)
}

func TestAnthropicAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content": [], "error": {"message": "overloaded"}}`)
	}))
	defer srv.Close()

	a, err := NewAnthropic([]string{"GLASS"}, AnthropicOptions{APIKey: "k", Endpoint: srv.URL})
	require.NoError(t, err)

	_, err = a.Classify(context.Background(), testImage)
	assert.ErrorIs(t, err, ErrClassificationFailed)
	assert.ErrorContains(t, err, "overloaded")
}

func TestNewAnthropicRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := NewAnthropic([]string{"GLASS"}, AnthropicOptions{})
	assert.ErrorContains(t, err, "ANTHROPIC_API_KEY")
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    domain.Candidate
		wantErr bool
	}{
		{"fraction", `{"waste_type": "PAPER", "confidence": 0.9, "item_name": "Newspaper"}`, domain.Candidate{WasteType: "PAPER", Confidence: 90, ItemName: "Newspaper"}, false},
		{"percentage", `{"waste_type": "PAPER", "confidence": 87, "item_name": "Magazine"}`, domain.Candidate{WasteType: "PAPER", Confidence: 87, ItemName: "Magazine"}, false},
		{"fenced", "```\n{\"waste_type\": \"shoes\", \"confidence\": 0.5, \"item_name\": \"Boots\"}\n```", domain.Candidate{WasteType: "SHOES", Confidence: 50, ItemName: "Boots"}, false},
		{"negative", `{"waste_type": "PAPER", "confidence": -1}`, domain.Candidate{}, true},
		{"no type", `{"confidence": 0.5}`, domain.Candidate{}, true},
		{"not json", `I think it is paper`, domain.Candidate{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResponse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromConfig(t *testing.T) {
	c, err := FromConfig(config.ClassifierConfig{Backend: config.BackendSimulated, Seed: 1}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Simulated{}, c)

	c, err = FromConfig(config.ClassifierConfig{
		Backend: config.BackendRemote,
		Remote:  config.RemoteConfig{Endpoint: "http://localhost:1/predict"},
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Remote{}, c)

	c, err = FromConfig(config.ClassifierConfig{
		Backend:   config.BackendAnthropic,
		Anthropic: config.AnthropicConfig{APIKey: "k"},
	}, []string{"GLASS"})
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, c)

	_, err = FromConfig(config.ClassifierConfig{Backend: "quantum"}, nil)
	assert.Error(t, err)

	_, err = FromConfig(config.ClassifierConfig{Backend: config.BackendSimulated, TableFile: "/nonexistent/table.yaml"}, nil)
	assert.Error(t, err)
}
