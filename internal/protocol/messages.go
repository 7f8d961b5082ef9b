package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeClientUtterance MessageType = "client_utterance"
	TypeClientControl   MessageType = "client_control"
	TypeIVRResponse     MessageType = "ivr_response"
	TypeSystemEvent     MessageType = "system_event"
	TypeErrorEvent      MessageType = "error_event"
)

// Control actions a client may send.
const (
	ActionEnd     = "end"
	ActionRestart = "restart"
)

// System event codes.
const (
	EventSessionStarted = "session_started"
	EventSessionEnded   = "session_ended"
	EventComplaintFiled = "complaint_registered"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ClientUtterance carries one recognized caller utterance. SessionID may be
// empty when the socket is already bound to a session.
type ClientUtterance struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Seq       int         `json:"seq"`
	Text      string      `json:"text"`
}

type ClientControl struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Action    string      `json:"action"`
}

// IVRResponse is the reply to a single utterance.
type IVRResponse struct {
	Type              MessageType `json:"type"`
	SessionID         string      `json:"session_id"`
	Seq               int         `json:"seq"`
	State             string      `json:"state"`
	Language          string      `json:"language"`
	Message           string      `json:"message"`
	IsComplete        bool        `json:"is_complete"`
	CollectedData     any         `json:"collected_data"`
	NextExpectedInput string      `json:"next_expected_input"`
}

type SystemEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Detail    string      `json:"detail,omitempty"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Source    string      `json:"source"`
	Retryable bool        `json:"retryable"`
	Detail    string      `json:"detail"`
}

func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientUtterance:
		var msg ClientUtterance
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if strings.TrimSpace(msg.Text) == "" {
			return nil, errors.New("invalid client_utterance: empty text")
		}
		return msg, nil
	case TypeClientControl:
		var msg ClientControl
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		switch msg.Action {
		case ActionEnd, ActionRestart:
		default:
			return nil, fmt.Errorf("invalid client_control action %q", msg.Action)
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
