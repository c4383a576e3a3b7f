// Package api provides the local HTTP control API of a running client.
//
// The API lets scripts, dashboards and the MCP bridge watch a match and
// steer the local paddle without a keyboard. Every handler goes through
// service.ClientService, so requests are serialized with the frames coming
// from the game server.
//
// Endpoints:
//
//   - GET  /api/state             world snapshot, connection info and counters
//   - GET  /api/frame             last draw pass as a list of operations
//   - POST /api/input             apply one key transition
//   - GET  /api/stats             session counters only
//   - GET  /api/profiles          available client profiles
//   - POST /api/profiles          save a profile (defaults applied, then validated)
//   - GET  /api/profiles/{name}   one profile
//   - GET  /api/profiles/default  the default profile
//   - PUT  /api/profiles/default  switch the default profile: {"name": "..."}
//   - POST /api/profiles/refresh  drop cached profiles and reload from disk
//   - GET  /api/health            liveness of the session loop
//
// Input requests carry a key and an action:
//
//	{
//	  "key": "up|down|ArrowUp|ArrowDown|w|s",
//	  "action": "press|release"
//	}
//
// A press is forwarded to the server only when it changes intent, exactly
// like a keyboard press; the response reports whether it was forwarded.
//
// Usage:
//
//	srv := api.NewServer(clientService, profiles)
//	http.ListenAndServe("127.0.0.1:8081", srv)
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status code:
//
//	{
//	  "error": "unknown key: \"left\""
//	}
//
// Invalid input yields 400, a session without a recording surface yields
// 409 on /api/frame, and a stopped session loop yields 503.
package api
