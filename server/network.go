package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	readLimit    = 1 << 16
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	writeWait    = 10 * time.Second
	helloWait    = 10 * time.Second
	sendQueueLen = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1 << 16,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

var errSendQueueFull = errors.New("send queue full")

//wsConn adapts a websocket to Conn. Send never blocks the room; a slow client
//fills its queue and gets dropped.
type wsConn struct {
	ws     *websocket.Conn
	send   chan []byte
	closed chan struct{}
	once   sync.Once
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{
		ws:     ws,
		send:   make(chan []byte, sendQueueLen),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(b []byte) error {
	select {
	case <-c.closed:
		return websocket.ErrCloseSent
	default:
	}
	select {
	case c.send <- b:
		return nil
	default:
		return errSendQueueFull
	}
}

func (c *wsConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *wsConn) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case <-c.closed:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case b := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
				c.Close()
				return
			}
		case <-ping.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

//NewHandler serves /ws for viewers and /healthz for probes
func NewHandler(room *Room) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(room, w, r)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func serveWS(room *Room, w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		room.logf("ws: upgrade: %v", err)
		return
	}
	ws.SetReadLimit(readLimit)

	// First message must be hello
	_ = ws.SetReadDeadline(time.Now().Add(helloWait))
	hello, err := readHello(ws)
	if err != nil {
		room.logf("ws: %s: %v", r.RemoteAddr, err)
		_ = ws.Close()
		return
	}

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	conn := newWSConn(ws)
	go conn.writeLoop()

	reply := make(chan JoinResult, 1)
	select {
	case room.Inbox <- Join{Conn: conn, Name: hello.Name, Reply: reply}:
	case <-room.Done():
		conn.Close()
		return
	}
	var id string
	select {
	case res := <-reply:
		id = res.ClientID
	case <-conn.closed:
		return
	case <-room.Done():
		conn.Close()
		return
	}

	defer func() {
		select {
		case room.Inbox <- Leave{ClientID: id}:
		case <-room.Done():
		}
	}()
	for {
		_, b, err := ws.ReadMessage()
		if err != nil {
			conn.Close()
			return
		}
		env, err := DecodeEnvelope(b)
		if err != nil {
			room.logf("ws: %s: %v", id, err)
			continue
		}
		switch env.T {
		case MsgToggle:
			t, err := DecodePayload[Toggle](env)
			if err != nil {
				room.logf("ws: %s: %v", id, err)
				continue
			}
			select {
			case room.Inbox <- SetOptions{ClientID: id, Toggle: t}:
			case <-room.Done():
				conn.Close()
				return
			}
		default:
			room.logf("ws: %s: unexpected message %q", id, env.T)
		}
	}
}

func readHello(ws *websocket.Conn) (Hello, error) {
	_, b, err := ws.ReadMessage()
	if err != nil {
		return Hello{}, errors.Wrap(err, "read hello")
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		return Hello{}, err
	}
	if env.T != MsgHello {
		return Hello{}, errors.Errorf("expected %q, got %q", MsgHello, env.T)
	}
	return DecodePayload[Hello](env)
}

//Serve runs the room and the HTTP server until ctx is done
func Serve(ctx context.Context, addr string, room *Room) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(room),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go room.Run()
	defer room.Stop()

	errc := make(chan error, 1)
	go func() {
		room.logf("serve: listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
