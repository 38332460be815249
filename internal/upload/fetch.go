package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Fetch downloads an image. When the URL serves an HTML page, the page's
// og:image (or its first <img>) is followed once.
func Fetch(ctx context.Context, rawURL string, maxBytes int64) (Image, error) {
	if maxBytes <= 0 {
		maxBytes = MaxBytes
	}

	u, err := normalizeURL(rawURL)
	if err != nil {
		return Image{}, err
	}

	data, err := get(ctx, u, maxBytes)
	if err != nil {
		return Image{}, err
	}

	if mimetype.Detect(data).Is("text/html") {
		src := findImage(data)
		if src == "" {
			return Image{}, fmt.Errorf("no image found on page %s", u)
		}

		ref, err := u.Parse(src)
		if err != nil {
			return Image{}, fmt.Errorf("invalid image reference %q: %w", src, err)
		}

		u = ref
		if data, err = get(ctx, u, maxBytes); err != nil {
			return Image{}, err
		}
	}

	return FromBytes(data, u.String()), nil
}

// IsURL checks if a string looks like a URL
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.")
}

func normalizeURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if strings.HasPrefix(rawURL, "www.") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	return u, nil
}

func get(ctx context.Context, u *url.URL, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "wastesort/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	// Read one byte past the limit to detect oversized bodies
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return nil, ErrTooLarge
	}

	return body, nil
}

// findImage returns the og:image content of a page, or the src of its first img
func findImage(page []byte) string {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return ""
	}

	var ogImage, firstImg string
	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if ogImage != "" {
			return
		}

		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if attr(n, "property") == "og:image" {
					ogImage = attr(n, "content")
				}
			case "img":
				if firstImg == "" {
					firstImg = attr(n, "src")
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	if ogImage != "" {
		return ogImage
	}
	return firstImg
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}
