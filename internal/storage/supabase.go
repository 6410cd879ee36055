// Package storage stores uploaded media in a Supabase Storage bucket.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wedding-app-go/internal/config"
	"wedding-app-go/pkg/logger"
)

var (
	ErrNotConfigured = errors.New("storage is not configured")
	ErrTooLarge      = errors.New("file exceeds upload limit")
	ErrEmptyPath     = errors.New("object path is required")
)

type Client struct {
	baseURL    string
	bucket     string
	serviceKey string
	maxBytes   int64
	client     *http.Client
	log        logger.Logger
}

func NewClient(supabase config.SupabaseConfig, cfg config.StorageConfig, log logger.Logger) (*Client, error) {
	baseURL := strings.TrimRight(supabase.URL, "/")
	if baseURL == "" || supabase.ServiceKey == "" || cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Client{
		baseURL:    baseURL,
		bucket:     cfg.Bucket,
		serviceKey: supabase.ServiceKey,
		maxBytes:   cfg.MaxUploadBytes,
		client:     &http.Client{Timeout: timeout},
		log:        log.Component("storage"),
	}, nil
}

// Upload writes body to path, replacing any existing object, and returns the
// object's public URL.
func (c *Client) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	path = cleanPath(path)
	if path == "" {
		return "", ErrEmptyPath
	}

	data, err := c.read(body)
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(path), bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	c.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	if err := c.do(req, "upload "+path); err != nil {
		return "", err
	}

	c.log.Debug("storage.upload: stored object", "path", path, "bytes", len(data))
	return c.PublicURL(path), nil
}

// Remove deletes the object at path. A missing object is not an error.
func (c *Client) Remove(ctx context.Context, path string) error {
	path = cleanPath(path)
	if path == "" {
		return ErrEmptyPath
	}

	payload, err := json.Marshal(map[string][]string{"prefixes": {path}})
	if err != nil {
		return err
	}

	endpoint := c.baseURL + "/storage/v1/object/" + url.PathEscape(c.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "remove "+path)
}

func (c *Client) PublicURL(path string) string {
	return c.baseURL + "/storage/v1/object/public/" + url.PathEscape(c.bucket) + "/" + escapePath(cleanPath(path))
}

func (c *Client) objectURL(path string) string {
	return c.baseURL + "/storage/v1/object/" + url.PathEscape(c.bucket) + "/" + escapePath(path)
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
}

func (c *Client) read(body io.Reader) ([]byte, error) {
	if body == nil {
		return nil, errors.New("body is required")
	}
	if c.maxBytes <= 0 {
		return io.ReadAll(body)
	}
	data, err := io.ReadAll(io.LimitReader(body, c.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > c.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(req *http.Request, op string) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("storage %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var payload errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)
	message := payload.Message
	if message == "" {
		message = payload.Error
	}
	return fmt.Errorf("storage %s: %s: %s", op, resp.Status, message)
}

func cleanPath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
