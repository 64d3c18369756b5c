// Package protocol defines the wire format between the slipway CLI and
// the daemon.
//
// Each connection carries a single exchange: the client writes one
// newline-delimited JSON envelope naming a command and carrying a
// command-specific payload, and the daemon answers with an "ok" or
// "error" envelope before closing the connection.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrProtocol = errors.New("protocol error")

// A command carried in an envelope.
type Command string

const (
	CmdBuild            Command = "build"
	CmdStatus           Command = "status"
	CmdShutdown         Command = "shutdown"
	CmdImageImport      Command = "image-import"
	CmdImageStart       Command = "image-start"
	CmdImageDestroy     Command = "image-destroy"
	CmdContainerStop    Command = "container-stop"
	CmdContainerDestroy Command = "container-destroy"
	CmdContainerStatus  Command = "container-status"
	CmdContainerExec    Command = "container-exec"

	// Response commands.
	CmdOK    Command = "ok"
	CmdError Command = "error"
)

// The JSON message exchanged over the socket.
type Envelope struct {
	Command Command         `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Serializes a command and payload into an envelope.
func Encode(cmd Command, payload any) ([]byte, error) {
	env := Envelope{Command: cmd}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProtocol, err)
		}
		env.Payload = data
	}

	return json.Marshal(env)
}

// Parses an envelope, returning it along with the raw payload for
// command-specific decoding.
func Decode(data []byte) (Envelope, json.RawMessage, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, nil, fmt.Errorf("%w: %w", ErrProtocol, err)
	}

	if env.Command == "" {
		return Envelope{}, nil, fmt.Errorf("%w: missing command", ErrProtocol)
	}

	return env, env.Payload, nil
}

// Decodes a raw payload into a typed request or result.
func DecodePayload[T any](raw json.RawMessage) (*T, error) {
	var v T
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing payload", ErrProtocol)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	return &v, nil
}
