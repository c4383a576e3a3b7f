package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/pong-client/game/entity"
	"github.com/wricardo/pong-client/game/render"
	"github.com/wricardo/pong-client/game/service"
	"github.com/wricardo/pong-client/game/session"
)

// Client is a thin MCP client that proxies to the control API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the control API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Pong Client",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Pong Client - MCP Interface

This is a thin client that proxies all requests to the control API of a running pong client.

GAME OBJECTIVE:
Keep the ball in play with your paddle and outscore the opponent before the match clock reaches 00:00.

AVAILABLE TOOLS:
- game_state: Get the ball, both players, the match clock and the streak
- press: Start moving your paddle (up/down)
- release: Stop moving your paddle
- frame: Get the last drawn frame as text
- client_stats: Get frame, render and input counters
- game_instructions: Get the rules and how paddle control works

NOTE: The server moves your paddle from its velocity. Press once to start, release to stop.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current match state as seen by this client",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameState)

	keyProperties := map[string]interface{}{
		"key": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"up", "down"},
			"description": "Paddle direction",
		},
		"intent": map[string]interface{}{
			"type":        "string",
			"description": "Brief explanation of why you are moving (serves as a rubber duck to help explain your reasoning)",
		},
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "press",
		Description: "Press a direction key. Repeated presses without a release are not forwarded.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: keyProperties,
			Required:   []string{"key"},
		},
	}, c.handlePress)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "release",
		Description: "Release a direction key, stopping the paddle",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: keyProperties,
			Required:   []string{"key"},
		},
	}, c.handleRelease)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "frame",
		Description: "Get the last drawn frame as a list of draw operations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleFrame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "client_stats",
		Description: "Get frame, render and input counters",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleStats)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get game rules and paddle control instructions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall makes an HTTP request to the control API
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state service.StateInfo
	if err := c.apiCall("GET", "/api/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatState(&state)), nil
}

func (c *Client) handlePress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.input(request, service.ActionPress)
}

func (c *Client) handleRelease(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.input(request, service.ActionRelease)
}

func (c *Client) input(request mcp.CallToolRequest, action string) (*mcp.CallToolResult, error) {
	args := arguments(request)
	key, _ := args["key"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	if key == "" {
		return mcp.NewToolResultError("key is required"), nil
	}

	body := map[string]interface{}{
		"key":    key,
		"action": action,
	}

	var result service.InputResult
	if err := c.apiCall("POST", "/api/input", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatInputResult(&result)), nil
}

func (c *Client) handleFrame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var frame service.FrameInfo
	if err := c.apiCall("GET", "/api/frame", nil, &frame); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFrame(frame.Ops)), nil
}

func (c *Client) handleStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats session.Stats
	if err := c.apiCall("GET", "/api/stats", nil, &stats); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStats(&stats)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Pong Client - Complete Instructions

GAME OBJECTIVE:
Two players each control a paddle on one side of the arena. Return the ball past
your opponent to score. When the match clock reaches 00:00 the player with the
higher score wins; a tie counts as a loss for both.

ARENA:
- The arena is 1600x800. x grows to the right, y grows downwards.
- Your side is reported as "left" or "right" in game_state.
- Paddle y is the top edge of the paddle; the paddle spans y to y+height.

PADDLE CONTROL:
- press up:     paddle moves up at a fixed speed until released
- press down:   paddle moves down at a fixed speed until released
- release:      paddle stops
- Only the first press after a release is sent to the server. Pressing the
  other direction while a key is held is ignored; release first.

MATCH PHASES:
1. Waiting: no clock, no opponent yet.
2. Countdown: a number counts down to the start of the match.
3. Running: the clock shows mm:ss and the streak counts consecutive returns.
4. Finished: the clock reads 00:00 and a Winner!/Loser! banner is shown.
If the opponent disconnects, the client leaves the match after a short delay.

STRATEGY TIPS:
- Read ball x, y, dx, dy from game_state and move toward where the ball will
  cross your paddle's x.
- Release as soon as the paddle center lines up with the ball's path.
- The ball bounces off the top and bottom walls; account for reflections.

Good luck!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatState(state *service.StateInfo) string {
	var sb strings.Builder
	w := state.World

	sb.WriteString(fmt.Sprintf("Server: %s  Room: %s\n", state.Server, state.Code))

	switch {
	case w.Clock == "running" && w.Match.SecondsRemaining != nil:
		sb.WriteString(fmt.Sprintf("Clock: %s  Streak: %d\n", render.FormatClock(*w.Match.SecondsRemaining), w.Match.Streak))
	case w.Clock == "expired":
		if w.Me != nil && w.Opponent != nil {
			sb.WriteString(fmt.Sprintf("Match over: %s\n", render.Banner(w.Me.Score, w.Opponent.Score)))
		} else {
			sb.WriteString("Match over\n")
		}
	default:
		sb.WriteString("Clock: not running\n")
	}

	if w.Match.StartCountdown != 0 {
		sb.WriteString(fmt.Sprintf("Countdown: %d\n", w.Match.StartCountdown))
	}
	if w.Match.OpponentDisconnected {
		sb.WriteString("⚠️ Opponent disconnected\n")
	}

	if w.Ball != nil {
		sb.WriteString(fmt.Sprintf("Ball: (%d,%d) velocity (%d,%d)\n", w.Ball.X, w.Ball.Y, w.Ball.Dx, w.Ball.Dy))
	} else {
		sb.WriteString("Ball: not in play\n")
	}

	sb.WriteString(formatPlayer("You", w.Me))
	sb.WriteString(formatPlayer("Opponent", w.Opponent))
	return sb.String()
}

func formatPlayer(label string, p *entity.PlayerView) string {
	if p == nil {
		return fmt.Sprintf("%s: not connected\n", label)
	}
	side := "right"
	if p.IsLeft {
		side = "left"
	}
	if p.Paddle == nil {
		return fmt.Sprintf("%s: score %d, %s side, paddle unknown\n", label, p.Score, side)
	}
	return fmt.Sprintf("%s: score %d, %s side, paddle (%d,%d) %dx%d dy=%d\n",
		label, p.Score, side, p.Paddle.X, p.Paddle.Y, p.Paddle.Width, p.Paddle.Height, p.Paddle.Dy)
}

func formatInputResult(result *service.InputResult) string {
	if result.Forwarded {
		return fmt.Sprintf("✓ %s %s sent (paddle dy=%d)", result.Action, result.Key, result.Dy)
	}
	return fmt.Sprintf("- %s %s not sent (no change of intent or not connected yet, dy=%d)", result.Action, result.Key, result.Dy)
}

func formatFrame(ops []render.Op) string {
	if len(ops) == 0 {
		return "No frame drawn yet"
	}
	lines := make([]string, 0, len(ops))
	for _, op := range ops {
		lines = append(lines, op.String())
	}
	return strings.Join(lines, "\n")
}

func formatStats(stats *session.Stats) string {
	return fmt.Sprintf("Frames: %d (dropped %d, ignored %d)\nRenders: requested %d, drawn %d, superseded %d\nInputs sent: %d",
		stats.Engine.Frames, stats.Engine.Dropped, stats.Engine.Ignored,
		stats.Requested, stats.Drawn, stats.Superseded,
		stats.InputsSent)
}
