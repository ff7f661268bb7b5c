// Package messaging carries commands, queries and events between UI
// surfaces and the workspace coordinator as JSON envelopes.
package messaging

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Message is the envelope sent by a UI surface.
type Message struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Response answers a query. Commands never get one.
type Response struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	Result    any    `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ErrUnknownType is returned for a message type nobody registered.
var ErrUnknownType = errors.New("unknown message type")

// ErrQueueFull is returned when the command queue has no room.
var ErrQueueFull = errors.New("command queue full")

// ErrRouterClosed is returned for commands dispatched after Close.
var ErrRouterClosed = errors.New("router closed")

// parseMessage decodes an envelope. Surfaces written in JavaScript send
// numeric request ids; they are normalized to strings.
func parseMessage(data []byte) (Message, error) {
	var raw struct {
		Type      string          `json:"type"`
		RequestID json.RawMessage `json:"requestId"`
		Payload   json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Message{}, fmt.Errorf("failed to decode message: %w", err)
	}
	if raw.Type == "" {
		return Message{}, errors.New("message type is empty")
	}

	id, err := parseRequestID(raw.RequestID)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: raw.Type, RequestID: id, Payload: raw.Payload}, nil
}

func parseRequestID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("invalid requestId %s", raw)
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

// decodePayload unmarshals payload into v. An empty payload leaves v untouched.
func decodePayload(payload json.RawMessage, v any) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
