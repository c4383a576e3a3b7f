package protocol

import (
	"bytes"
	"encoding/json"
)

// MessageType tags every frame
type MessageType int

const (
	MessageTypeInvalid              MessageType = 0
	MessageTypeClientConnected      MessageType = 1
	MessageTypeGameState            MessageType = 2
	MessageTypePlayerInput          MessageType = 3
	MessageTypeGameStartCountdown   MessageType = 4
	MessageTypeOpponentDisconnected MessageType = 5
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeClientConnected:
		return "client_connected"
	case MessageTypeGameState:
		return "game_state"
	case MessageTypePlayerInput:
		return "player_input"
	case MessageTypeGameStartCountdown:
		return "game_start_countdown"
	case MessageTypeOpponentDisconnected:
		return "opponent_disconnected"
	default:
		return "unknown"
	}
}

// Paddle is the wire form of a paddle
type Paddle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Dx     int `json:"dx"`
	Dy     int `json:"dy"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Ball is the wire form of the ball
type Ball struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Dx     int `json:"dx"`
	Dy     int `json:"dy"`
	Radius int `json:"radius"`
}

// PlayerID is an opaque player identifier. Strings are kept as is; any other
// JSON value is kept as its raw text.
type PlayerID string

func (id *PlayerID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = PlayerID(s)
		return nil
	}
	*id = PlayerID(bytes.TrimSpace(data))
	return nil
}

// Player is the wire form of a player. Paddle is nil when the server omits it.
type Player struct {
	ID     PlayerID `json:"id"`
	Score  int      `json:"score"`
	IsLeft bool     `json:"isLeft"`
	Paddle *Paddle  `json:"paddle"`
}

// State is one authoritative snapshot
type State struct {
	Width            int     `json:"width,omitempty"`
	Height           int     `json:"height,omitempty"`
	Collision        bool    `json:"collision"`
	SecondsRemaining *int    `json:"secondsRemaining"`
	Streak           int     `json:"streak"`
	Ball             *Ball   `json:"ball"`
	Me               *Player `json:"me"`
	Opponent         *Player `json:"opponent"`
}

// Message is the closed set of decoded frames. Only types in this package
// implement it.
type Message interface {
	Kind() MessageType
	message()
}

// ClientConnected acknowledges the connection and introduces the local player
type ClientConnected struct {
	Type MessageType `json:"type"`
	Me   *Player     `json:"me"`
}

// GameState carries one snapshot
type GameState struct {
	Type  MessageType `json:"type"`
	State State       `json:"state"`
}

// PlayerInput carries the local paddle's intent to the server
type PlayerInput struct {
	Type   MessageType `json:"type"`
	Paddle *Paddle     `json:"paddle"`
}

// GameStartCountdown carries the pre-match countdown value
type GameStartCountdown struct {
	Type    MessageType `json:"type"`
	Counter int         `json:"counter"`
}

// OpponentDisconnected reports that the other player left
type OpponentDisconnected struct {
	Type MessageType `json:"type"`
}

// Unknown is any frame whose type is outside the known set
type Unknown struct {
	Type MessageType `json:"type"`
}

func (*ClientConnected) Kind() MessageType      { return MessageTypeClientConnected }
func (*GameState) Kind() MessageType            { return MessageTypeGameState }
func (*PlayerInput) Kind() MessageType          { return MessageTypePlayerInput }
func (*GameStartCountdown) Kind() MessageType   { return MessageTypeGameStartCountdown }
func (*OpponentDisconnected) Kind() MessageType { return MessageTypeOpponentDisconnected }
func (m *Unknown) Kind() MessageType            { return m.Type }

func (*ClientConnected) message()      {}
func (*GameState) message()            {}
func (*PlayerInput) message()          {}
func (*GameStartCountdown) message()   {}
func (*OpponentDisconnected) message() {}
func (*Unknown) message()              {}

// NewPlayerInput builds the outbound intent message for paddle p.
func NewPlayerInput(p Paddle) PlayerInput {
	return PlayerInput{
		Type:   MessageTypePlayerInput,
		Paddle: &p,
	}
}
