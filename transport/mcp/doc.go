// Package mcp provides a Model Context Protocol server for a running client.
//
// The MCP server is a thin proxy over the control API (see package api). It
// lets an AI agent watch a match and drive the local paddle with the same
// edge-triggered press/release semantics a keyboard has.
//
// MCP Tools:
//   - game_state: ball, players, clock, streak and countdown
//   - press: start moving the paddle up or down
//   - release: stop the paddle
//   - frame: last draw pass as text
//   - client_stats: frame, render and input counters
//   - game_instructions: rules and control model
//
// Transport Modes:
//   - Stdio: server.ServeStdio for local MCP clients
//   - HTTP: HandleMessage mounted on /mcp next to the control API
//
// Usage:
//
//	client := mcp.NewClient("http://127.0.0.1:8081")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
