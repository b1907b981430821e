package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/rparoni/iotshield/internal/sim"
)

func newTestServer(t *testing.T) (*Server, *mux.Router) {
	t.Helper()
	srv := NewServer(NewLogger("error"))
	t.Cleanup(func() { srv.Close() })
	return srv, srv.Routes()
}

func doRequest(router *mux.Router, method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestHandleDevices(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(router, http.MethodGet, "/api/devices", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var devices []sim.Device
	if err := json.Unmarshal(rec.Body.Bytes(), &devices); err != nil {
		t.Fatalf("Cannot decode: %v", err)
	}
	if len(devices) != 6 {
		t.Errorf("Expected 6 devices, got %d", len(devices))
	}
}

func TestHandleStartAttack(t *testing.T) {
	srv, router := newTestServer(t)

	rec := doRequest(router, http.MethodPost, "/api/attacks", `{"type":"denial_of_service"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if attacks := srv.session.Engine().Attacks(); len(attacks) != 1 {
		t.Errorf("Expected 1 active attack, got %d", len(attacks))
	}
}

func TestHandleStartAttack_UnknownType(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(router, http.MethodPost, "/api/attacks", `{"type":"quantum_desync"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown type, got %d", rec.Code)
	}
}

func TestHandleStartAttack_BadJSON(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(router, http.MethodPost, "/api/attacks", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad json, got %d", rec.Code)
	}
}

func TestHandleStopAttack(t *testing.T) {
	srv, router := newTestServer(t)

	srv.session.Engine().StartAttack(sim.AttackMITM)
	id := srv.session.Engine().Attacks()[0].ID

	rec := doRequest(router, http.MethodDelete, "/api/attacks/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if attacks := srv.session.Engine().Attacks(); len(attacks) != 0 {
		t.Errorf("Expected attack removed, got %d", len(attacks))
	}
}

func TestHandleEvents(t *testing.T) {
	srv, router := newTestServer(t)
	srv.session.Engine().StartAttack(sim.AttackBruteForce)

	rec := doRequest(router, http.MethodGet, "/api/events", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var events []sim.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("Cannot decode: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}

	rec = doRequest(router, http.MethodDelete, "/api/events", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on clear, got %d", rec.Code)
	}
	if got := srv.session.Engine().Events(); len(got) != 0 {
		t.Errorf("Expected empty log after clear, got %d", len(got))
	}
}

func TestHandleStats(t *testing.T) {
	srv, router := newTestServer(t)
	srv.session.Engine().StartAttack(sim.AttackDenialOfService)

	rec := doRequest(router, http.MethodGet, "/api/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var stats sim.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Cannot decode: %v", err)
	}
	if stats.TotalAttacks != 1 || stats.BlockedAttacks != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestHandleProtocolToggle(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(router, http.MethodGet, "/api/protocol", "")
	var state map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("Cannot decode: %v", err)
	}
	if !state["enabled"] {
		t.Error("Expected protocol enabled at start")
	}

	rec = doRequest(router, http.MethodPost, "/api/protocol/toggle", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("Cannot decode: %v", err)
	}
	if state["enabled"] {
		t.Error("Expected protocol disabled after toggle")
	}
}

func TestHandleMapEndpoints(t *testing.T) {
	srv, router := newTestServer(t)
	srv.session.Feed().Step()

	rec := doRequest(router, http.MethodGet, "/api/map/lines", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var lines []sim.MapLine
	if err := json.Unmarshal(rec.Body.Bytes(), &lines); err != nil {
		t.Fatalf("Cannot decode: %v", err)
	}
	if len(lines) != 1 {
		t.Errorf("Expected 1 line, got %d", len(lines))
	}

	rec = doRequest(router, http.MethodGet, "/api/map/stats", "")
	var stats sim.MapStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Cannot decode: %v", err)
	}
	if stats.Total != 1 {
		t.Errorf("Expected Total 1, got %+v", stats)
	}
}

func TestHandleNotifiers(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(router, http.MethodGet, "/api/notifiers", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var listing map[string][]map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("Cannot decode: %v", err)
	}
	// The dashboard websocket stream is registered at construction.
	if len(listing["notifiers"]) != 1 {
		t.Fatalf("Expected 1 notifier, got %d", len(listing["notifiers"]))
	}

	body := `{"type":"webhook","id":"hook-1","config":{"url":"http://127.0.0.1:9/hook"}}`
	rec = doRequest(router, http.MethodPost, "/api/notifiers", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on register, got %d: %s", rec.Code, rec.Body.String())
	}

	// Duplicate id is rejected.
	rec = doRequest(router, http.MethodPost, "/api/notifiers", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on duplicate id, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodDelete, "/api/notifiers/hook-1", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 on unregister, got %d", rec.Code)
	}
	rec = doRequest(router, http.MethodDelete, "/api/notifiers/hook-1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on missing id, got %d", rec.Code)
	}
}

func TestHandleRegisterNotifier_Validation(t *testing.T) {
	_, router := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing id", `{"type":"webhook","config":{"url":"http://x"}}`},
		{"missing url", `{"type":"webhook","id":"a","config":{}}`},
		{"unknown type", `{"type":"carrier_pigeon","id":"a"}`},
	}
	for _, tc := range cases {
		rec := doRequest(router, http.MethodPost, "/api/notifiers", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestHandleWebSocketStream(t *testing.T) {
	srv, _ := newTestServer(t)

	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// Give the server-side registration a moment to land before the
	// first broadcast.
	time.Sleep(100 * time.Millisecond)
	srv.session.Engine().StartAttack(sim.AttackDenialOfService)

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	var payload sim.EngineEvent
	if err := json.Unmarshal(msg, &payload); err != nil {
		t.Fatalf("Cannot decode stream payload: %v", err)
	}
	if payload.Stats.TotalAttacks != 1 {
		t.Errorf("Expected stats in payload, got %+v", payload)
	}
}

func TestHandleMetrics(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from metrics endpoint, got %d", rec.Code)
	}
}

func TestLoggerFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{min: LogLevelWarn, out: log.New(&buf, "", 0)}

	l.Debugf("hidden %d", 1)
	l.Infof("hidden %d", 2)
	l.Warnf("shown %d", 3)
	l.Errorf("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Messages below the threshold leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 3") || !strings.Contains(out, "[ERROR] shown 4") {
		t.Errorf("Expected warn and error lines, got %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"WARNING", LogLevelWarn},
		{"error", LogLevelError},
		{"nonsense", LogLevelInfo},
	}
	for _, tc := range cases {
		if got := parseLogLevel(tc.in); got != tc.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
