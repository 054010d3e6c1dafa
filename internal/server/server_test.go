package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Faultbox/rockforge/internal/config"
	"github.com/Faultbox/rockforge/pkg/asteroid"
)

func newTestServer(t *testing.T) (*httptest.Server, *websocket.Conn) {
	t.Helper()

	cfg := config.Default().Server
	cfg.MaxSubdivision = 2
	defaults := asteroid.DefaultParams()
	defaults.SubdivisionLevel = 0

	ts := httptest.NewServer(New(cfg, defaults).Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return ts, conn
}

// roundTrip sends req and returns the raw reply and its type.
func roundTrip(t *testing.T, conn *websocket.Conn, req any) (string, []byte) {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}
	return readReply(t, conn)
}

func readReply(t *testing.T, conn *websocket.Conn) (string, []byte) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return head.Type, data
}

func TestGenerate(t *testing.T) {
	_, conn := newTestServer(t)

	typ, data := roundTrip(t, conn, map[string]any{
		"type":   TypeGenerate,
		"params": map[string]any{"subdivisions": 1, "globalSeed": 42, "minRadius": 250, "maxRadius": 250},
	})
	if typ != TypeAsteroid {
		t.Fatalf("reply type = %q: %s", typ, data)
	}

	var msg AsteroidMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode asteroid: %v", err)
	}
	if len(msg.Mesh.Vertices) != 42 || len(msg.Mesh.Normals) != 42 || len(msg.Mesh.Triangles) != 80 {
		t.Errorf("mesh has %d vertices, %d normals, %d triangles",
			len(msg.Mesh.Vertices), len(msg.Mesh.Normals), len(msg.Mesh.Triangles))
	}
	if msg.Stats.Radius != 250 {
		t.Errorf("radius = %g, want 250", msg.Stats.Radius)
	}
	if msg.Stats.GlobalSeed != 42 {
		t.Errorf("global seed = %d, want 42", msg.Stats.GlobalSeed)
	}
	// Layers were omitted, so the default layer applies.
	if len(msg.Stats.LayerSeeds) != 1 {
		t.Errorf("layer seeds = %v, want one", msg.Stats.LayerSeeds)
	}
	if err := msg.Mesh.Validate(); err != nil {
		t.Errorf("mesh invalid: %v", err)
	}
}

func TestGenerateDefaults(t *testing.T) {
	_, conn := newTestServer(t)

	typ, data := roundTrip(t, conn, map[string]any{"type": TypeGenerate})
	if typ != TypeAsteroid {
		t.Fatalf("reply type = %q: %s", typ, data)
	}
	var msg AsteroidMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode asteroid: %v", err)
	}
	if len(msg.Mesh.Vertices) != 12 {
		t.Errorf("got %d vertices, want 12 from default subdivisions", len(msg.Mesh.Vertices))
	}
	if msg.Stats.Radius < 250 || msg.Stats.Radius > 1000 {
		t.Errorf("radius %g outside default range", msg.Stats.Radius)
	}
}

func TestRejectedRequestsKeepConnection(t *testing.T) {
	_, conn := newTestServer(t)

	tests := []struct {
		name string
		req  any
		want string
	}{
		{"too deep", map[string]any{"type": TypeGenerate, "params": map[string]any{"subdivisions": 3}}, "server limit"},
		{"unknown type", map[string]any{"type": "explode"}, "unknown request type"},
		{"bad params", map[string]any{"type": TypeGenerate, "params": map[string]any{"density": "heavy"}}, "invalid params"},
		{"field too large", map[string]any{"type": TypeField, "count": MaxFieldCount + 1}, "field count"},
		{"field empty", map[string]any{"type": TypeField}, "field count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, data := roundTrip(t, conn, tt.req)
			if typ != TypeError {
				t.Fatalf("reply type = %q, want error", typ)
			}
			var msg ErrorMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if !strings.Contains(msg.Error, tt.want) {
				t.Errorf("error = %q, want it to mention %q", msg.Error, tt.want)
			}
		})
	}

	// Malformed and truncated JSON get an error reply too.
	for _, raw := range []string{`{not json`, `{"type":`, `{"type": "generate", "params": {`} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
			t.Fatalf("write %s: %v", raw, err)
		}
		typ, data := readReply(t, conn)
		if typ != TypeError {
			t.Fatalf("reply to %s = %q, want error", raw, typ)
		}
		var msg ErrorMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if !strings.Contains(msg.Error, "malformed request") {
			t.Errorf("error for %s = %q, want malformed request", raw, msg.Error)
		}
	}

	typ, _ := roundTrip(t, conn, map[string]any{"type": TypeGenerate})
	if typ != TypeAsteroid {
		t.Errorf("connection unusable after errors, got %q", typ)
	}
}

func TestField(t *testing.T) {
	_, conn := newTestServer(t)

	typ, data := roundTrip(t, conn, map[string]any{
		"type":   TypeField,
		"count":  3,
		"params": map[string]any{"globalSeed": 9},
	})
	if typ != TypeField {
		t.Fatalf("reply type = %q: %s", typ, data)
	}
	var msg FieldMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode field: %v", err)
	}
	if msg.Seed != 9 {
		t.Errorf("field seed = %d, want 9", msg.Seed)
	}
	if len(msg.Asteroids) != 3 {
		t.Fatalf("got %d asteroids, want 3", len(msg.Asteroids))
	}
	for i, a := range msg.Asteroids {
		if a.Type != TypeAsteroid || len(a.Mesh.Vertices) != 12 {
			t.Errorf("asteroid %d: type %q, %d vertices", i, a.Type, len(a.Mesh.Vertices))
		}
	}
}

func TestHealth(t *testing.T) {
	ts, conn := newTestServer(t)

	// A reply proves the connection is registered.
	if typ, _ := roundTrip(t, conn, map[string]any{"type": TypeGenerate}); typ != TypeAsteroid {
		t.Fatalf("reply type = %q", typ)
	}

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Status  string `json:"status"`
		Clients int    `json:"clients"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.Clients != 1 {
		t.Errorf("clients = %d, want 1", body.Clients)
	}
}

func TestParamsDoNotLeakBetweenRequests(t *testing.T) {
	s := New(config.Default().Server, asteroid.DefaultParams())

	p, err := s.params(json.RawMessage(`{"layers":[{"scale":5,"intensity":1,"seed":3}]}`))
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if len(p.Layers) != 1 || p.Layers[0].Scale != 5 {
		t.Fatalf("layers = %+v", p.Layers)
	}

	p2, err := s.params(nil)
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p2.Layers[0] != asteroid.DefaultLayer() {
		t.Errorf("defaults modified by earlier request: %+v", p2.Layers)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	cfg := config.Default().Server
	cfg.Addr = "127.0.0.1:0"
	s := New(cfg, asteroid.DefaultParams())

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}
