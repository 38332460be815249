package upload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		maxBytes int64
		wantErr  error
	}{
		{"png", pngBytes(t), 0, nil},
		{"jpeg", jpegBytes(t), 0, nil},
		{"empty", nil, 0, ErrEmpty},
		{"text", []byte("hello, not an image"), 0, ErrUnsupportedType},
		{"gif", []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), 0, ErrUnsupportedType},
		{"too large", pngBytes(t), 8, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(FromBytes(tt.data, "test"), tt.maxBytes)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bottle.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o644))

	img, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MediaType)
	assert.True(t, strings.HasPrefix(img.Ref, "file://"))
	assert.True(t, strings.HasSuffix(img.Ref, "bottle.png"))

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestDataURL(t *testing.T) {
	img := FromBytes(jpegBytes(t), "x")
	assert.True(t, strings.HasPrefix(DataURL(img), "data:image/jpeg;base64,"))
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/a.png"))
	assert.True(t, IsURL(" www.example.com"))
	assert.False(t, IsURL("./photo.jpg"))
}

func TestFetchDirectImage(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	img, err := Fetch(context.Background(), srv.URL+"/can.png", 0)
	require.NoError(t, err)
	assert.Equal(t, data, img.Data)
	assert.Equal(t, srv.URL+"/can.png", img.Ref)
	assert.NoError(t, Validate(img, 0))
}

func TestFetchFollowsOGImage(t *testing.T) {
	data := jpegBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/item", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html><html><head>
<meta property="og:image" content="/media/jar.jpg">
</head><body><img src="/media/logo.png"></body></html>`)
	})
	mux.HandleFunc("/media/jar.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	img, err := Fetch(context.Background(), srv.URL+"/item", 0)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/media/jar.jpg", img.Ref)
	assert.Equal(t, "image/jpeg", img.MediaType)
}

func TestFetchErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte{0xff}, 64))
	})
	mux.HandleFunc("/empty-page", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<!DOCTYPE html><html><body><p>nothing here</p></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL+"/missing", 0)
	assert.ErrorContains(t, err, "HTTP 404")

	_, err = Fetch(context.Background(), srv.URL+"/big", 16)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Fetch(context.Background(), srv.URL+"/empty-page", 0)
	assert.ErrorContains(t, err, "no image found")

	_, err = Fetch(context.Background(), "ftp://example.com/a.png", 0)
	assert.ErrorContains(t, err, "unsupported scheme")
}
