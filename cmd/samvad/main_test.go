package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ent0n29/samvad/internal/complaintid"
	"github.com/ent0n29/samvad/internal/dialogue"
	"github.com/ent0n29/samvad/internal/location"
	"github.com/ent0n29/samvad/internal/session"
	"github.com/ent0n29/samvad/internal/taxonomy"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("APP_LOG_LEVEL", "error")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute(%v) error = %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestResolveCommand(t *testing.T) {
	out := runCommand(t, "resolve", "near", "gotri", "lake")
	var d location.Descriptor
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if d.Ward != "Ward 12" || d.Zone != "North" || d.Method != location.MethodPartial {
		t.Fatalf("resolve = %+v", d)
	}
}

func TestDetectCommand(t *testing.T) {
	out := runCommand(t, "detect", "pani nahi aa raha")
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if got["complaint_type"] != "Water Supply" || got["language"] != "hi" || got["code"] != "WS" {
		t.Fatalf("detect = %+v", got)
	}
}

func TestChatLoop(t *testing.T) {
	tax := taxonomy.Default()
	engine := dialogue.New(tax, location.NewResolver(tax), complaintid.New("VMC"))
	sessions := session.NewManager(session.NewMemoryStore(), engine)

	in := strings.NewReader(strings.Join([]string{
		"streetlight not working near my house",
		"off since two days",
		"alkapuri",
		"9876543210",
		"/state",
		"haan",
		"/quit",
	}, "\n"))
	var out bytes.Buffer
	if err := chatLoop(context.Background(), sessions, taxonomy.English, in, &out); err != nil {
		t.Fatalf("chatLoop() error = %v", err)
	}

	text := out.String()
	if !strings.HasPrefix(text, "IVR: "+dialogue.Welcome(taxonomy.English)) {
		t.Fatalf("missing welcome:\n%s", text)
	}
	if !strings.Contains(text, "state=confirm") {
		t.Fatalf("missing state line:\n%s", text)
	}
	if !strings.Contains(text, "-- complaint VMC-SL-") {
		t.Fatalf("missing registration line:\n%s", text)
	}
	if n := sessions.ActiveCount(context.Background()); n != 0 {
		t.Fatalf("active sessions after /quit = %d, want 0", n)
	}
}
