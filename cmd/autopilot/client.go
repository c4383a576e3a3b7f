package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/pong-client/game/service"
)

// Client talks to a headless client's control API
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type inputRequest struct {
	Key    string `json:"key"`
	Action string `json:"action"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) GetState() (*service.StateInfo, error) {
	resp, err := c.client.Get(c.baseURL + "/api/state")
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	var state service.StateInfo
	if err := decode(resp, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

func (c *Client) Press(key string) (*service.InputResult, error) {
	return c.input(key, service.ActionPress)
}

func (c *Client) Release(key string) (*service.InputResult, error) {
	return c.input(key, service.ActionRelease)
}

func (c *Client) input(key, action string) (*service.InputResult, error) {
	body, err := json.Marshal(inputRequest{Key: key, Action: action})
	if err != nil {
		return nil, fmt.Errorf("marshal input: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/api/input", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", action, key, err)
	}
	defer resp.Body.Close()

	var result service.InputResult
	if err := decode(resp, &result); err != nil {
		return nil, fmt.Errorf("%s %s: %w", action, key, err)
	}
	return &result, nil
}

func decode(resp *http.Response, v any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s - %s", resp.Status, string(body))
	}
	return json.Unmarshal(body, v)
}
