// Package protocol defines the wire protocol spoken between the paddle ball
// server and its clients.
//
// Message Protocol:
//
// Every frame is a JSON object with an integer "type" field and a
// type-specific payload:
//
//	1 ClientConnected       {"type":1,"me":{"id","score","isLeft","paddle"}}
//	2 GameState             {"type":2,"state":{"collision","secondsRemaining","streak","ball","me","opponent"}}
//	3 PlayerInput           {"type":3,"paddle":{"x","y","dx","dy","width","height"}}
//	4 GameStartCountdown    {"type":4,"counter":5}
//	5 OpponentDisconnected  {"type":5}
//
// Decoding:
//
// Decode turns a frame into one member of a closed set of message types.
// Kinds outside the set decode to *Unknown so callers can ignore them
// without failing; frames that are not valid JSON return ErrMalformedFrame.
// PlayerInput is only ever sent by clients.
package protocol
