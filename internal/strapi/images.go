package strapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// FetchImage downloads a product picture from the Strapi uploads path
// and returns the raw bytes, so the caller can upload them to Telegram
// even when the Strapi host is not publicly reachable. Upload routes
// are unauthenticated, so no bearer header is sent.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, fmt.Errorf("strapi: product has no image")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("strapi: build image request %s: %w", imageURL, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("strapi: fetch image %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("strapi: fetch image %s: status %d", imageURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("strapi: read image %s: %w", imageURL, err)
	}
	return data, nil
}
