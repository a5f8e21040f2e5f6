// Package imagehost uploads cover images to the external image-hosting
// service and returns the public URL to store on the book record.
package imagehost

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/booknest/booknest/internal/client/remote"
)

// Client talks to the image host. It authenticates with the host's API key,
// not the user's session token.
type Client struct {
	remote *remote.Client
	log    zerolog.Logger
}

func New(baseURL, apiKey string, log zerolog.Logger) (*Client, error) {
	rc, err := remote.New(baseURL, remote.StaticToken(apiKey), log)
	if err != nil {
		return nil, fmt.Errorf("imagehost: %w", err)
	}
	return &Client{remote: rc, log: log.With().Str("component", "imagehost").Logger()}, nil
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload sends one image and returns its public URL.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	var resp uploadResponse
	if err := c.remote.PostMultipart(ctx, "/upload", "image", filename, file, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("imagehost: empty url in response")
	}
	c.log.Debug().Str("filename", filename).Str("url", resp.URL).Msg("image uploaded")
	return resp.URL, nil
}
