package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseClientMessageUtterance(t *testing.T) {
	raw := []byte(`{"type":"client_utterance","session_id":"s1","seq":3,"text":"pani nahi aa raha"}`)
	msg, err := ParseClientMessage(raw)
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}

	u, ok := msg.(ClientUtterance)
	if !ok {
		t.Fatalf("message type = %T, want ClientUtterance", msg)
	}
	if u.SessionID != "s1" || u.Seq != 3 || u.Text != "pani nahi aa raha" {
		t.Fatalf("unexpected utterance: %+v", u)
	}
}

func TestParseClientMessageUtteranceWithoutSession(t *testing.T) {
	msg, err := ParseClientMessage([]byte(`{"type":"client_utterance","text":"नमस्ते"}`))
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	if u := msg.(ClientUtterance); u.SessionID != "" || u.Text != "नमस्ते" {
		t.Fatalf("unexpected utterance: %+v", u)
	}
}

func TestParseClientMessageRejectsEmptyUtterance(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":"client_utterance","session_id":"s1","text":"   "}`))
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestParseClientMessageRejectsUnknownType(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":"client_audio_chunk"}`))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("error = %v, want ErrUnsupportedType", err)
	}
}

func TestParseClientMessageRejectsBadJSON(t *testing.T) {
	if _, err := ParseClientMessage([]byte(`{"type":`)); err == nil {
		t.Fatalf("expected envelope error")
	}
}

func TestParseClientMessageControl(t *testing.T) {
	for _, action := range []string{ActionEnd, ActionRestart} {
		raw := []byte(`{"type":"client_control","session_id":"s1","action":"` + action + `"}`)
		msg, err := ParseClientMessage(raw)
		if err != nil {
			t.Fatalf("ParseClientMessage(%s) error = %v", action, err)
		}
		control, ok := msg.(ClientControl)
		if !ok {
			t.Fatalf("message type = %T, want ClientControl", msg)
		}
		if control.Action != action {
			t.Fatalf("Action = %q, want %q", control.Action, action)
		}
	}

	if _, err := ParseClientMessage([]byte(`{"type":"client_control","action":"stop"}`)); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestIVRResponseEncoding(t *testing.T) {
	raw, err := json.Marshal(IVRResponse{
		Type:      TypeIVRResponse,
		SessionID: "s1",
		State:     "ask_location",
		Language:  "hi",
		Message:   "Aapki shikayat kahan hai?",
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"type":"ivr_response"`, `"collected_data":null`, `"is_complete":false`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("encoded = %s, missing %s", raw, want)
		}
	}
}

func BenchmarkParseClientMessageUtterance(b *testing.B) {
	raw := []byte(`{"type":"client_utterance","session_id":"s1","seq":7,"text":"streetlight not working near alkapuri"}`)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		msg, err := ParseClientMessage(raw)
		if err != nil {
			b.Fatalf("ParseClientMessage() error = %v", err)
		}
		if _, ok := msg.(ClientUtterance); !ok {
			b.Fatalf("message type = %T, want ClientUtterance", msg)
		}
	}
}
