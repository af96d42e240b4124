package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode builds a JSON envelope. payload may be nil for bare signals.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode: empty message type")
	}
	return json.Marshal(Envelope{T: t, Data: payload})
}

// DecodeEnvelope parses the outer envelope of a text frame
func DecodeEnvelope(b []byte) (InEnvelope, error) {
	if len(b) == 0 {
		return InEnvelope{}, fmt.Errorf("decode envelope: empty frame")
	}
	var env InEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return InEnvelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.T == "" {
		return InEnvelope{}, fmt.Errorf("decode envelope: missing type")
	}
	return env, nil
}

// DecodePayload unmarshals the payload of an envelope into T
func DecodePayload[T any](env InEnvelope) (T, error) {
	var out T
	if len(env.D) == 0 || string(env.D) == "null" {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	if err := json.Unmarshal(env.D, &out); err != nil {
		return out, fmt.Errorf("decode %s payload: %w", env.T, err)
	}
	return out, nil
}

// DecodeInput reads a player-input or viewer-input payload. A missing
// payload is an input with every control released.
func DecodeInput(env InEnvelope) (InputMsg, error) {
	if len(env.D) == 0 || string(env.D) == "null" {
		return InputMsg{}, nil
	}
	return DecodePayload[InputMsg](env)
}

// MarshalSnapshot packs a snapshot for a binary frame
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return msgpack.Marshal(&s)
}

// UnmarshalSnapshot reads a snapshot from a binary frame
func UnmarshalSnapshot(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return s, nil
}
