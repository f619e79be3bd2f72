package hub

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RecordSeparator terminates every JSON record on the wire.
const RecordSeparator byte = 0x1E

// Message types of the JSON hub protocol. Only the ones the client acts on are named.
const (
	TypeInvocation = 1
	TypePing       = 6
	TypeClose      = 7
)

// Message is a single hub protocol record.
type Message struct {
	Type      int               `json:"type"`
	Target    string            `json:"target,omitempty"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// HandshakeRequest is the first record a client sends.
type HandshakeRequest struct {
	Protocol string `json:"protocol"`
	Version  int    `json:"version"`
}

// HandshakeResponse is the server's answer; a non-empty Error rejects the connection.
type HandshakeResponse struct {
	Error string `json:"error,omitempty"`
}

// Invocation builds an invocation record for target with JSON-encoded arguments.
func Invocation(target string, args ...any) (Message, error) {
	msg := Message{Type: TypeInvocation, Target: target, Arguments: []json.RawMessage{}}
	for i, arg := range args {
		raw, err := json.Marshal(arg)
		if err != nil {
			return Message{}, fmt.Errorf("encoding argument %d of %s: %w", i, target, err)
		}
		msg.Arguments = append(msg.Arguments, raw)
	}
	return msg, nil
}

// EncodeRecord marshals v and appends the record separator.
func EncodeRecord(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return append(b, RecordSeparator), nil
}

// SplitRecords splits a websocket payload into its records. Empty records are
// skipped and a trailing record without separator is still returned.
func SplitRecords(data []byte) [][]byte {
	var records [][]byte
	for _, part := range bytes.Split(data, []byte{RecordSeparator}) {
		if len(bytes.TrimSpace(part)) == 0 {
			continue
		}
		records = append(records, part)
	}
	return records
}
