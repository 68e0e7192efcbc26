package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return ws
}

func send(t *testing.T, ws *websocket.Conn, typ string, payload any) {
	b, err := Encode(typ, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func read(t *testing.T, ws *websocket.Conn) Envelope {
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, b, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return mustEnvelope(t, b)
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(NewHandler(newRoom(t, nil)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("healthz %d %q", resp.StatusCode, body)
	}
}

func TestWebsocketSession(t *testing.T) {
	room := newRoom(t, nil)
	go room.Run()
	defer room.Stop()
	srv := httptest.NewServer(NewHandler(room))
	defer srv.Close()

	ws := dial(t, srv)
	defer ws.Close()
	send(t, ws, MsgHello, Hello{Name: "test"})

	env := read(t, ws)
	if env.T != MsgWelcome {
		t.Fatalf("first message %q", env.T)
	}
	env = read(t, ws)
	if env.T != MsgFrame {
		t.Fatalf("second message %q", env.T)
	}

	on := true
	send(t, ws, MsgToggle, Toggle{Sphere: &on})
	for i := 0; i < 120; i++ {
		env = read(t, ws)
		f, err := DecodePayload[Frame](env)
		if err != nil {
			t.Fatalf("frame: %v", err)
		}
		if f.Sphere && f.Ball != nil {
			return
		}
	}
	t.Errorf("sphere toggle never reached a frame")
}

func TestWebsocketRequiresHello(t *testing.T) {
	room := newRoom(t, nil)
	go room.Run()
	defer room.Stop()
	srv := httptest.NewServer(NewHandler(room))
	defer srv.Close()

	ws := dial(t, srv)
	defer ws.Close()
	on := true
	send(t, ws, MsgToggle, Toggle{Wind: &on})

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Errorf("connection without hello should be closed")
	}
}

func TestWebsocketStoppedRoom(t *testing.T) {
	room := newRoom(t, nil)
	room.Stop()
	srv := httptest.NewServer(NewHandler(room))
	defer srv.Close()

	ws := dial(t, srv)
	defer ws.Close()
	send(t, ws, MsgHello, Hello{Name: "late"})

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := ws.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("want a normal close from a stopped room, got %v", err)
	}
}
