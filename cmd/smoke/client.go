package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wricardo/receipt-escape/game/puzzle"
	"github.com/wricardo/receipt-escape/game/service"
)

// Client talks to the puzzle server REST API
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}

// Types lists the server's puzzle types
func (c *Client) Types(ctx context.Context) ([]puzzle.TypeInfo, error) {
	var resp struct {
		Types []puzzle.TypeInfo `json:"types"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/types", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Types, nil
}

// Generate creates one puzzle
func (c *Client) Generate(ctx context.Context, req service.GenerateRequest) (*service.Artifact, error) {
	var artifact service.Artifact
	if err := c.do(ctx, http.MethodPost, "/api/puzzles", req, &artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// Check submits an answer for the puzzle with the given ID or task code
func (c *Client) Check(ctx context.Context, id, answer string) (bool, error) {
	var result service.CheckResult
	path := "/api/puzzles/" + url.PathEscape(id) + "/check"
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"answer": answer}, &result); err != nil {
		return false, err
	}
	return result.Correct, nil
}

// Delete removes a puzzle
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/puzzles/"+url.PathEscape(id), nil, nil)
}

// GenerateDeck prints a whole deck to station
func (c *Client) GenerateDeck(ctx context.Context, name, station string) (*service.DeckGeneration, error) {
	var result service.DeckGeneration
	path := "/api/decks/" + url.PathEscape(name) + "/generate"
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"station": station}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
