// Package service exposes a running client session to control surfaces.
//
// ClientService is the contract the HTTP API and the MCP tools are written
// against. The implementation never touches session state directly: every
// call is marshalled onto the session loop through Runner.Do, so a remote
// caller observes the same world the renderer draws.
//
// Usage:
//
//	loop := session.NewLoop(sess, conn.Frames())
//	svc := service.NewClientService(loop, service.Info{Server: host, Code: code})
//
//	state, err := svc.State(ctx)
//	result, err := svc.Input(ctx, "up", service.ActionPress)
package service
