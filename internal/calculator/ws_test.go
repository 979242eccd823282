package calculator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialSession(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/calculator/sessions/" + id + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", url, err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected status %d, got %d", http.StatusSwitchingProtocols, resp.StatusCode)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) WSResponse {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp WSResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	return resp
}

func TestSessionSocket(t *testing.T) {
	router, _ := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	id := createSession(t, router)
	conn := dialSession(t, srv, id)

	if first := readFrame(t, conn); first.Type != "state" || first.Session.SessionID != id {
		t.Fatalf("expected initial state frame, got %+v", first)
	}

	frames := []WSMessage{
		{Type: "press", Value: "6", Kind: KindNumber},
		{Type: "key", Key: KeyEvent{Key: "*"}},
		{Type: "press", Value: "7", Kind: KindNumber},
		{Type: "key", Key: KeyEvent{Key: "Enter"}},
	}
	var last WSResponse
	for _, f := range frames {
		if err := conn.WriteJSON(f); err != nil {
			t.Fatalf("writing frame: %v", err)
		}
		last = readFrame(t, conn)
		if last.Type != "state" {
			t.Fatalf("expected state frame, got %+v", last)
		}
	}
	if got := last.Session.State.CurrentText; got != "42" {
		t.Fatalf("expected 42, got %q", got)
	}

	if err := conn.WriteJSON(WSMessage{Type: "base", Value: "HEX"}); err != nil {
		t.Fatalf("writing frame: %v", err)
	}
	if resp := readFrame(t, conn); resp.Type != "error" || !strings.Contains(resp.Error, "PROGRAMMING") {
		t.Fatalf("expected base error, got %+v", resp)
	}

	if err := conn.WriteJSON(WSMessage{Type: "ping"}); err != nil {
		t.Fatalf("writing frame: %v", err)
	}
	if resp := readFrame(t, conn); resp.Type != "pong" {
		t.Fatalf("expected pong, got %+v", resp)
	}

	if err := conn.WriteJSON(WSMessage{Type: "dance"}); err != nil {
		t.Fatalf("writing frame: %v", err)
	}
	if resp := readFrame(t, conn); resp.Type != "error" {
		t.Fatalf("expected error for unknown type, got %+v", resp)
	}
}

func TestSessionSocketUnknownSession(t *testing.T) {
	router, _ := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/calculator/sessions/missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %+v", http.StatusNotFound, resp)
	}
}
