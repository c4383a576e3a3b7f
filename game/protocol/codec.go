package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedFrame is returned for frames that cannot be decoded
var ErrMalformedFrame = errors.New("malformed frame")

type envelope struct {
	Type MessageType `json:"type"`
}

// Decode parses one inbound frame.
func Decode(frame []byte) (Message, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("%w: empty frame", ErrMalformedFrame)
	}

	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	var msg Message
	switch env.Type {
	case MessageTypeClientConnected:
		msg = &ClientConnected{}
	case MessageTypeGameState:
		msg = &GameState{}
	case MessageTypePlayerInput:
		msg = &PlayerInput{}
	case MessageTypeGameStartCountdown:
		msg = &GameStartCountdown{}
	case MessageTypeOpponentDisconnected:
		msg = &OpponentDisconnected{}
	default:
		return &Unknown{Type: env.Type}, nil
	}

	if err := json.Unmarshal(frame, msg); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrMalformedFrame, env.Type, err)
	}
	return msg, nil
}

// Encode serializes an outbound message.
func Encode(msg any) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("trying to encode nil message")
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return data, nil
}
