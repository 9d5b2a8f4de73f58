package erpsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doRequest sends an unauthenticated request.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// postJSON sends v as a JSON body and decodes the answer into out.
func (c *Client) postJSON(ctx context.Context, path string, v, out any, expected int) error {
	body, err := jsonBody(v)
	if err != nil {
		return err
	}
	resp, err := c.doRequest(ctx, http.MethodPost, path, body, map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return err
	}
	if out == nil {
		return checkStatus(resp, expected)
	}
	return decodeJSON(resp, out, expected)
}

// doAuthRequest sends a request with the session's bearer token, refreshing
// it first when it has expired.
func (s *Session) doAuthRequest(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func (s *Session) getJSON(ctx context.Context, path string, out any) error {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, http.StatusOK)
}

func (s *Session) sendJSON(ctx context.Context, method, path string, v, out any, expected int) error {
	body, err := jsonBody(v)
	if err != nil {
		return err
	}
	resp, err := s.doAuthRequest(ctx, method, path, body, map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, expected)
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(b), nil
}

// decodeJSON reads the body once, returning an *APIError unless the status
// is the expected one.
func decodeJSON(resp *http.Response, target any, expected int) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != expected {
		return parseErrorResponse(resp, body)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response, expected int) error {
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, body)
	}
	return nil
}
