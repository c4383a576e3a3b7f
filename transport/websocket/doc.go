// Package websocket owns the client's single connection to the game server.
//
// A Conn is dialed once per session and never re-dialed. Run pumps frames
// in both directions until the server closes the socket, the context is
// cancelled or Close is called:
//
//   - the read pump delivers every inbound text frame on Frames(), in
//     arrival order, and keeps the read deadline alive with pongs
//   - the write pump sends queued outbound messages one frame each and
//     pings the server every pingPeriod
//
// Target builds the endpoint URL. The room code travels as the "code"
// query parameter and the scheme is ws for local hosts, wss otherwise.
//
// Usage:
//
//	conn, err := websocket.Dial(ctx, websocket.Target{Host: "localhost:8080", Code: code}, websocket.Options{})
//	if err != nil {
//		return err
//	}
//	go conn.Run(ctx)
//
//	for frame := range conn.Frames() {
//		sess.HandleFrame(frame)
//	}
//
// Lifecycle:
//
// Open, error and close notifications go to Hooks. They are observational
// only: nothing in this package retries. The default hooks log.
package websocket
