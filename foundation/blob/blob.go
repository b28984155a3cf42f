// Package blob provides a client for the hosted blob store that keeps the
// uploaded logos and knowledge documents.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

// ErrNotConfigured is returned when no read-write token was supplied.
var ErrNotConfigured = errors.New("blob storage not configured")

const apiVersion = "7"

// Config holds the blob store settings.
type Config struct {
	BaseURL string
	Token   string
}

// Client stores objects in the blob store.
type Client struct {
	log     *logger.Logger
	http    *resty.Client
	enabled bool
}

// New constructs a blob store client.
func New(log *logger.Logger, cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://blob.vercel-storage.com"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60*time.Second).
		SetAuthToken(cfg.Token).
		SetHeader("x-api-version", apiVersion).
		SetHeader("Accept", "application/json")

	return &Client{
		log:     log,
		http:    client,
		enabled: cfg.Token != "",
	}
}

type putResult struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Put uploads the body under pathname with public access and returns the
// public url of the stored object.
func (c *Client) Put(ctx context.Context, pathname string, contentType string, body io.Reader) (string, error) {
	if !c.enabled {
		return "", ErrNotConfigured
	}

	var result putResult
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-content-type", contentType).
		SetHeader("x-add-random-suffix", "0").
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Put("/" + escapePath(pathname))

	if err != nil {
		return "", fmt.Errorf("put[%s]: %w", pathname, err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("put[%s]: status[%d]: %s", pathname, resp.StatusCode(), apiErr.Error.Message)
	}

	if result.URL == "" {
		return "", fmt.Errorf("put[%s]: empty url in response", pathname)
	}

	c.log.Info(ctx, "blob: stored", "pathname", result.Pathname, "contentType", contentType)

	return result.URL, nil
}

func escapePath(pathname string) string {
	parts := strings.Split(pathname, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}

	return strings.Join(parts, "/")
}
