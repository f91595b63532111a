package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a promptimg server.
type Client struct {
	serverURL  string
	token      string
	httpClient *http.Client
}

func NewClient(serverURL, token string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		token:     token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Extract(ctx context.Context, text string) ([]string, error) {
	var resp ExtractResponse
	if err := c.postJSON(ctx, "/api/extract", TextRequest{Text: text}, &resp); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	return resp.Images, nil
}

func (c *Client) Placeholder(ctx context.Context, ref string, isBase64 bool) (string, error) {
	var resp PlaceholderResponse
	req := PlaceholderRequest{Reference: ref, Base64: isBase64}
	if err := c.postJSON(ctx, "/api/placeholder", req, &resp); err != nil {
		return "", fmt.Errorf("placeholder: %w", err)
	}
	return resp.Placeholder, nil
}

func (c *Client) Preview(ctx context.Context, text string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/preview", TextRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("preview: %w", err)
	}
	return string(body), nil
}

func (c *Client) Translations(ctx context.Context, lang string) (map[string]string, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/i18n/"+url.PathEscape(lang), nil)
	if err != nil {
		return nil, fmt.Errorf("translations: %w", err)
	}
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := c.do(ctx, http.MethodPost, path, in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s - %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
