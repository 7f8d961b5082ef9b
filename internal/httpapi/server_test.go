package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ent0n29/samvad/internal/complaint"
	"github.com/ent0n29/samvad/internal/complaintid"
	"github.com/ent0n29/samvad/internal/config"
	"github.com/ent0n29/samvad/internal/dialogue"
	"github.com/ent0n29/samvad/internal/location"
	"github.com/ent0n29/samvad/internal/observability"
	"github.com/ent0n29/samvad/internal/protocol"
	"github.com/ent0n29/samvad/internal/session"
	"github.com/ent0n29/samvad/internal/taxonomy"
)

type testEnv struct {
	ts         *httptest.Server
	complaints *complaint.MemoryStore
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	cfg := config.Config{
		SessionInactivityTimeout: 2 * time.Minute,
		SessionStore:             "memory",
	}
	tax := taxonomy.Default()
	resolver := location.NewResolver(tax)
	engine := dialogue.New(tax, resolver, complaintid.New("VMC"))
	metrics := observability.NewMetrics("test_httpapi", nil)
	complaints := complaint.NewMemoryStore()
	sessions := session.NewManager(session.NewMemoryStore(), engine,
		session.WithRecorder(complaint.NewRecorder(complaints, tax)),
		session.WithMetrics(metrics),
		session.WithInactivityTimeout(cfg.SessionInactivityTimeout),
	)
	opts = append([]Option{
		WithComplaints(complaints),
		WithResolver(resolver),
		WithMetrics(metrics),
	}, opts...)
	srv := New(cfg, sessions, tax, opts...)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &testEnv{ts: ts, complaints: complaints}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s error = %v", method, path, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return res.StatusCode
}

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t)

	var en createSessionResponse
	if code := env.do(t, http.MethodPost, "/v1/ivr/session", nil, &en); code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", code, http.StatusCreated)
	}
	if en.SessionID == "" || en.State != dialogue.StateGreeting || en.Language != taxonomy.English {
		t.Fatalf("unexpected create response: %+v", en)
	}
	if en.Message != dialogue.Welcome(taxonomy.English) || en.InactivityTTLMS != (2*time.Minute).Milliseconds() {
		t.Fatalf("unexpected create response: %+v", en)
	}

	var hi createSessionResponse
	if code := env.do(t, http.MethodPost, "/v1/ivr/session", map[string]string{"language": "hi"}, &hi); code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", code, http.StatusCreated)
	}
	if hi.Message != dialogue.Welcome(taxonomy.Hindi) || hi.SessionID == en.SessionID {
		t.Fatalf("unexpected hindi create response: %+v", hi)
	}

	var errResp errorResponse
	if code := env.do(t, http.MethodPost, "/v1/ivr/session", map[string]string{"language": "gu"}, &errResp); code != http.StatusBadRequest {
		t.Fatalf("create status = %d, want %d", code, http.StatusBadRequest)
	}
	if errResp.Code != "invalid_language" {
		t.Fatalf("error code = %q, want invalid_language", errResp.Code)
	}
}

func TestFullCallRegistersComplaint(t *testing.T) {
	env := newTestEnv(t)

	var created createSessionResponse
	env.do(t, http.MethodPost, "/v1/ivr/session", nil, &created)

	var resp dialogue.Response
	for _, text := range []string{
		"garbage not collected since monday",
		"not collected",
		"alkapuri",
		"98765 43210",
		"yes",
	} {
		code := env.do(t, http.MethodPost, "/v1/ivr/session/"+created.SessionID+"/utterance", map[string]string{"text": text}, &resp)
		if code != http.StatusOK {
			t.Fatalf("submit %q status = %d", text, code)
		}
	}
	if !resp.IsComplete || resp.State != dialogue.StateComplete {
		t.Fatalf("final response = %+v", resp)
	}
	id := resp.CollectedData.ComplaintID
	if !complaintid.Valid(id) || !strings.HasPrefix(id, "VMC-GB-") {
		t.Fatalf("complaint id = %q", id)
	}

	var rec complaint.Record
	if code := env.do(t, http.MethodGet, "/v1/complaints/"+id, nil, &rec); code != http.StatusOK {
		t.Fatalf("get complaint status = %d", code)
	}
	if rec.Phone != "9876543210" || rec.Ward != "Ward 1" || rec.Status != complaint.StatusPending || rec.SessionID != created.SessionID {
		t.Fatalf("stored complaint = %+v", rec)
	}

	var list struct {
		Complaints []complaint.Record `json:"complaints"`
		Count      int                `json:"count"`
	}
	env.do(t, http.MethodGet, "/v1/complaints?status=pending&category=garbage", nil, &list)
	if list.Count != 1 || list.Complaints[0].ComplaintID != id {
		t.Fatalf("list = %+v", list)
	}

	if code := env.do(t, http.MethodPost, "/v1/complaints/"+id+"/assign", map[string]string{"assigned_to": "ward-1-team"}, &rec); code != http.StatusOK {
		t.Fatalf("assign status = %d", code)
	}
	if rec.Status != complaint.StatusInProgress || rec.AssignedTo != "ward-1-team" {
		t.Fatalf("assigned complaint = %+v", rec)
	}

	if code := env.do(t, http.MethodPost, "/v1/complaints/"+id+"/status", map[string]string{"status": "resolved", "notes": "picked up"}, &rec); code != http.StatusOK {
		t.Fatalf("status update = %d", code)
	}
	if rec.Status != complaint.StatusResolved || rec.ResolutionNotes != "picked up" {
		t.Fatalf("updated complaint = %+v", rec)
	}

	var errResp errorResponse
	if code := env.do(t, http.MethodPost, "/v1/complaints/"+id+"/status", map[string]string{"status": "done"}, &errResp); code != http.StatusBadRequest {
		t.Fatalf("invalid status update = %d, want 400", code)
	}

	var stats complaint.Stats
	env.do(t, http.MethodGet, "/v1/complaints/stats", nil, &stats)
	if stats.Total != 1 || stats.ByStatus["resolved"] != 1 || stats.ByCategory["Garbage"] != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	if code := env.do(t, http.MethodGet, "/v1/complaints/VMC-GB-00000000000000000", nil, &errResp); code != http.StatusNotFound {
		t.Fatalf("unknown complaint status = %d, want 404", code)
	}
	if errResp.Code != "complaint_not_found" {
		t.Fatalf("error code = %q", errResp.Code)
	}
}

func TestSubmitUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	var errResp errorResponse
	code := env.do(t, http.MethodPost, "/v1/ivr/session/missing/utterance", map[string]string{"text": "hello"}, &errResp)
	if code != http.StatusNotFound || errResp.Code != "session_not_found" {
		t.Fatalf("submit unknown = %d %+v", code, errResp)
	}

	code = env.do(t, http.MethodPost, "/v1/ivr/session/missing/utterance", map[string]string{"text": "  "}, &errResp)
	if code != http.StatusBadRequest {
		t.Fatalf("empty text status = %d, want 400", code)
	}
}

func TestProcessCreatesSession(t *testing.T) {
	env := newTestEnv(t)

	var first dialogue.Response
	if code := env.do(t, http.MethodPost, "/v1/ivr/process", map[string]string{"text": "बत्ती नहीं जल रही"}, &first); code != http.StatusOK {
		t.Fatalf("process status = %d", code)
	}
	if first.SessionID == "" || first.State != dialogue.StateAskSubCategory || first.Language != taxonomy.Hindi {
		t.Fatalf("process response = %+v", first)
	}

	var second dialogue.Response
	env.do(t, http.MethodPost, "/v1/ivr/process", map[string]string{"session_id": first.SessionID, "text": "pole tuta hai"}, &second)
	if second.SessionID != first.SessionID || second.State != dialogue.StateAskLocation {
		t.Fatalf("second process response = %+v", second)
	}

	var sess dialogue.Session
	if code := env.do(t, http.MethodGet, "/v1/ivr/session/"+first.SessionID, nil, &sess); code != http.StatusOK {
		t.Fatalf("get session status = %d", code)
	}
	if len(sess.Transcript) != 4 || sess.Data.Category != taxonomy.StreetLight {
		t.Fatalf("session = %+v", sess)
	}

	if code := env.do(t, http.MethodDelete, "/v1/ivr/session/"+first.SessionID, nil, nil); code != http.StatusOK {
		t.Fatalf("delete status = %d", code)
	}
	if code := env.do(t, http.MethodGet, "/v1/ivr/session/"+first.SessionID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", code)
	}
}

func TestTaxonomyRoutes(t *testing.T) {
	env := newTestEnv(t)

	var cats struct {
		Categories []taxonomy.CategoryInfo `json:"categories"`
	}
	env.do(t, http.MethodGet, "/v1/taxonomy/categories", nil, &cats)
	if len(cats.Categories) != 7 || cats.Categories[0].Code != "SL" {
		t.Fatalf("categories = %+v", cats.Categories)
	}

	var subs struct {
		Category      taxonomy.Category `json:"category"`
		SubCategories []subCategoryView `json:"sub_categories"`
	}
	if code := env.do(t, http.MethodGet, "/v1/taxonomy/categories/Street%20Light/sub-categories?language=hi", nil, &subs); code != http.StatusOK {
		t.Fatalf("sub-categories status = %d", code)
	}
	if subs.Category != taxonomy.StreetLight || len(subs.SubCategories) == 0 || subs.SubCategories[0].ID != "light_off" {
		t.Fatalf("sub-categories = %+v", subs)
	}
	if subs.SubCategories[0].Text != "लाइट बंद है / काम नहीं कर रही" {
		t.Fatalf("hindi text = %q", subs.SubCategories[0].Text)
	}
	if code := env.do(t, http.MethodGet, "/v1/taxonomy/categories/ws/sub-categories", nil, &subs); code != http.StatusOK || subs.Category != taxonomy.WaterSupply {
		t.Fatalf("lookup by code = %d %+v", code, subs)
	}
	if code := env.do(t, http.MethodGet, "/v1/taxonomy/categories/parks/sub-categories", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unknown category status = %d, want 404", code)
	}

	var wards struct {
		Wards []taxonomy.Ward `json:"wards"`
	}
	env.do(t, http.MethodGet, "/v1/taxonomy/wards", nil, &wards)
	if len(wards.Wards) != 19 || wards.Wards[11].Zone != "North" {
		t.Fatalf("wards = %+v", wards.Wards)
	}

	var zones struct {
		Zones []taxonomy.Zone `json:"zones"`
	}
	env.do(t, http.MethodGet, "/v1/taxonomy/zones", nil, &zones)
	if len(zones.Zones) == 0 {
		t.Fatalf("zones empty")
	}
}

func TestDetectAndPriority(t *testing.T) {
	env := newTestEnv(t)

	var d detectResponse
	if code := env.do(t, http.MethodPost, "/v1/taxonomy/detect", map[string]string{"text": "street light giving current shock"}, &d); code != http.StatusOK {
		t.Fatalf("detect status = %d", code)
	}
	if d.Category != taxonomy.StreetLight || d.Confidence != "high" || d.Priority != taxonomy.PriorityHigh || d.Question == "" {
		t.Fatalf("detect = %+v", d)
	}

	var none detectResponse
	env.do(t, http.MethodPost, "/v1/taxonomy/detect", map[string]string{"text": "asdf qwer", "language": "hi"}, &none)
	if none.Category != "" || none.SubCategory != "" || none.Confidence != "low" || none.Language != taxonomy.Hindi || none.Question == "" {
		t.Fatalf("detect none = %+v", none)
	}

	var p map[string]any
	env.do(t, http.MethodPost, "/v1/taxonomy/priority", map[string]string{"complaint_type": "Water Supply", "sub_category": "main_line_burst"}, &p)
	if p["priority"] != "high" {
		t.Fatalf("priority = %+v", p)
	}
}

func TestResolveLocation(t *testing.T) {
	env := newTestEnv(t)

	var out struct {
		Location     location.Descriptor `json:"location"`
		Resolved     bool                `json:"resolved"`
		AutoDetected bool                `json:"auto_detected"`
	}
	env.do(t, http.MethodPost, "/v1/location/resolve", map[string]string{"area": "Alkapuri"}, &out)
	if !out.Resolved || !out.AutoDetected || out.Location.Ward != "Ward 1" || out.Location.Method != location.MethodExact {
		t.Fatalf("alkapuri = %+v", out)
	}

	env.do(t, http.MethodPost, "/v1/location/resolve", map[string]string{"area": "my house", "text": "ward no. 9"}, &out)
	if !out.Resolved || out.AutoDetected || out.Location.Ward != "Ward 9" || out.Location.Area != "my house" {
		t.Fatalf("pattern fallback = %+v", out)
	}

	if code := env.do(t, http.MethodPost, "/v1/location/resolve", map[string]string{}, nil); code != http.StatusBadRequest {
		t.Fatalf("empty location status = %d, want 400", code)
	}
}

func TestReadinessChecks(t *testing.T) {
	env := newTestEnv(t, WithReadinessCheck("database", func(context.Context) error {
		return errors.New("connection refused")
	}))

	var ready map[string]any
	if code := env.do(t, http.MethodGet, "/readyz", nil, &ready); code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status = %d, want 503", code)
	}
	if ready["status"] != "not_ready" {
		t.Fatalf("readyz = %+v", ready)
	}

	var health map[string]any
	if code := env.do(t, http.MethodGet, "/healthz", nil, &health); code != http.StatusOK || health["complaint_store"] != "memory" {
		t.Fatalf("healthz = %d %+v", code, health)
	}

	res, err := http.Get(env.ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d", res.StatusCode)
	}
}

func TestComplaintsDisabled(t *testing.T) {
	env := newTestEnv(t, WithComplaints(nil))
	var errResp errorResponse
	if code := env.do(t, http.MethodGet, "/v1/complaints", nil, &errResp); code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", code)
	}
	if errResp.Code != "complaints_disabled" {
		t.Fatalf("code = %q", errResp.Code)
	}
}

func readWS(t *testing.T, conn *websocket.Conn, out any) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(out); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
}

func TestSessionWebsocket(t *testing.T) {
	env := newTestEnv(t)
	wsURL := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/v1/ivr/session/ws?language=hi"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	var started protocol.SystemEvent
	readWS(t, conn, &started)
	if started.Code != protocol.EventSessionStarted || started.SessionID == "" || started.Detail != dialogue.Welcome(taxonomy.Hindi) {
		t.Fatalf("started = %+v", started)
	}

	_ = conn.WriteJSON(map[string]any{"type": "client_audio_chunk"})
	var bad protocol.ErrorEvent
	readWS(t, conn, &bad)
	if bad.Code != "invalid_client_message" {
		t.Fatalf("error event = %+v", bad)
	}

	var resp protocol.IVRResponse
	for i, text := range []string{"pani nahi aa raha", "subah se", "gotri", "9876543210", "haan"} {
		if err := conn.WriteJSON(protocol.ClientUtterance{Type: protocol.TypeClientUtterance, Seq: i + 1, Text: text}); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
		readWS(t, conn, &resp)
		if resp.Type != protocol.TypeIVRResponse || resp.Seq != i+1 || resp.SessionID != started.SessionID {
			t.Fatalf("response %d = %+v", i, resp)
		}
	}
	if !resp.IsComplete || resp.State != string(dialogue.StateComplete) {
		t.Fatalf("final response = %+v", resp)
	}

	var filed protocol.SystemEvent
	readWS(t, conn, &filed)
	if filed.Code != protocol.EventComplaintFiled || !strings.HasPrefix(filed.Detail, "VMC-WS-") {
		t.Fatalf("complaint event = %+v", filed)
	}
	if _, err := env.complaints.Get(context.Background(), filed.Detail); err != nil {
		t.Fatalf("complaint not stored: %v", err)
	}

	_ = conn.WriteJSON(protocol.ClientControl{Type: protocol.TypeClientControl, Action: protocol.ActionRestart})
	var ended, restarted protocol.SystemEvent
	readWS(t, conn, &ended)
	readWS(t, conn, &restarted)
	if ended.Code != protocol.EventSessionEnded || ended.SessionID != started.SessionID {
		t.Fatalf("ended = %+v", ended)
	}
	if restarted.Code != protocol.EventSessionStarted || restarted.SessionID == started.SessionID {
		t.Fatalf("restarted = %+v", restarted)
	}

	_ = conn.WriteJSON(protocol.ClientControl{Type: protocol.TypeClientControl, Action: protocol.ActionEnd})
	readWS(t, conn, &ended)
	if ended.Code != protocol.EventSessionEnded || ended.SessionID != restarted.SessionID {
		t.Fatalf("final ended = %+v", ended)
	}
}

func TestSessionWebsocketUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	res, err := http.Get(env.ts.URL + "/v1/ivr/session/ws?session_id=missing")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.StatusCode)
	}
}
