package server

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"diesel.com/cloth/config"
	S "diesel.com/cloth/scene"
	"github.com/pkg/errors"
)

type fakeConn struct {
	sendCh chan []byte
	closed chan struct{}
	fail   bool
}

func newFakeConn(fail bool) *fakeConn {
	return &fakeConn{
		sendCh: make(chan []byte, 256),
		closed: make(chan struct{}),
		fail:   fail,
	}
}

func (f *fakeConn) Send(b []byte) error {
	if f.fail {
		return errors.New("broken pipe")
	}
	select {
	case f.sendCh <- b:
	default:
	}
	return nil
}

func (f *fakeConn) Close() error {
	select {
	case <-f.closed:
	default:
		close(f.closed)
	}
	return nil
}

func newRoom(t *testing.T, logger *log.Logger) *Room {
	s, err := S.New(config.Default(), nil)
	if err != nil {
		t.Fatalf("scene: %v", err)
	}
	return NewRoom(s, 30, logger)
}

func mustEnvelope(t *testing.T, b []byte) Envelope {
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

//waitFrame returns the first frame accepted by ok
func waitFrame(t *testing.T, c *fakeConn, ok func(Frame) bool) Frame {
	timeout := time.After(2 * time.Second)
	for {
		select {
		case b := <-c.sendCh:
			env := mustEnvelope(t, b)
			if env.T != MsgFrame {
				continue
			}
			f, err := DecodePayload[Frame](env)
			if err != nil {
				t.Fatalf("frame: %v", err)
			}
			if ok == nil || ok(f) {
				return f
			}
		case <-timeout:
			t.Fatalf("timed out waiting for frame")
		}
	}
}

func TestNewRoomRates(t *testing.T) {
	r := newRoom(t, nil)
	if r.broadcastEvery != 2 {
		t.Errorf("broadcastEvery %d, want 2", r.broadcastEvery)
	}
	s := r.scene
	if r := NewRoom(s, 0, nil); r.broadcastEvery != 1 {
		t.Errorf("hz 0: broadcastEvery %d", r.broadcastEvery)
	}
	if r := NewRoom(s, 1000, nil); r.broadcastEvery != 1 {
		t.Errorf("hz 1000: broadcastEvery %d", r.broadcastEvery)
	}
}

func TestJoinSendsWelcome(t *testing.T) {
	var buf bytes.Buffer
	r := newRoom(t, log.New(&buf, "", 0))
	c := newFakeConn(false)
	reply := make(chan JoinResult, 1)
	r.handleCommand(Join{Conn: c, Name: "ana", Reply: reply})

	res := <-reply
	if res.ClientID != "c1" {
		t.Errorf("client id %q", res.ClientID)
	}
	env := mustEnvelope(t, <-c.sendCh)
	if env.T != MsgWelcome {
		t.Fatalf("first message %q, want welcome", env.T)
	}
	w, err := DecodePayload[Welcome](env)
	if err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if w.ClientID != "c1" || w.Nx != 15 || w.Ny != 20 {
		t.Errorf("welcome %+v", w)
	}
	if w.SphereRadius != r.scene.Config.SphereRadius {
		t.Errorf("sphere radius %v", w.SphereRadius)
	}
	if !strings.Contains(buf.String(), "ana") {
		t.Errorf("join not logged: %q", buf.String())
	}
}

func TestBroadcastFrame(t *testing.T) {
	r := newRoom(t, nil)
	c := newFakeConn(false)
	r.handleCommand(Join{Conn: c})
	<-c.sendCh // welcome

	r.scene.Tick(0)
	r.broadcastFrame()
	f := waitFrame(t, c, nil)
	if len(f.Cloth) != 16*21*3 {
		t.Errorf("cloth floats %d", len(f.Cloth))
	}
	if len(f.Poles) != 2 {
		t.Errorf("poles %d", len(f.Poles))
	}
	if f.Ball != nil || f.Sphere {
		t.Errorf("disabled sphere reported: %+v", f.Ball)
	}
	if f.Tick != 1 {
		t.Errorf("tick %d", f.Tick)
	}

	on := true
	r.handleCommand(SetOptions{ClientID: "c1", Toggle: Toggle{Sphere: &on, Wind: &on}})
	r.broadcastFrame()
	f = waitFrame(t, c, nil)
	if !f.Sphere || !f.Wind || f.Ball == nil {
		t.Errorf("toggles not reflected: wind=%v sphere=%v ball=%v", f.Wind, f.Sphere, f.Ball)
	}
}

func TestUnknownClientCannotToggle(t *testing.T) {
	r := newRoom(t, nil)
	on := true
	r.handleCommand(SetOptions{ClientID: "c9", Toggle: Toggle{Wind: &on}})
	if r.scene.WindEnabled() {
		t.Errorf("toggle from unknown client applied")
	}
}

func TestFailingClientDropped(t *testing.T) {
	r := newRoom(t, nil)
	good, bad := newFakeConn(false), newFakeConn(false)
	r.handleCommand(Join{Conn: good})
	r.handleCommand(Join{Conn: bad})
	bad.fail = true

	r.broadcastFrame()
	select {
	case <-bad.closed:
	default:
		t.Errorf("failing client not closed")
	}
	if len(r.clients) != 1 {
		t.Errorf("clients %d, want 1", len(r.clients))
	}
}

func TestLeaveClosesConn(t *testing.T) {
	r := newRoom(t, nil)
	c := newFakeConn(false)
	r.handleCommand(Join{Conn: c})
	r.handleCommand(Leave{ClientID: "c1"})
	select {
	case <-c.closed:
	default:
		t.Errorf("leave did not close conn")
	}
	if len(r.clients) != 0 {
		t.Errorf("clients %d", len(r.clients))
	}
}

func TestRunBroadcasts(t *testing.T) {
	r := newRoom(t, nil)
	go r.Run()
	defer r.Stop()

	c := newFakeConn(false)
	reply := make(chan JoinResult, 1)
	r.Inbox <- Join{Conn: c, Reply: reply}
	var id string
	select {
	case res := <-reply:
		id = res.ClientID
	case <-time.After(time.Second):
		t.Fatalf("join timed out")
	}

	first := waitFrame(t, c, nil)
	if first.Tick%2 != 0 {
		t.Errorf("frame at tick %d, want multiples of 2", first.Tick)
	}

	on := true
	r.Inbox <- SetOptions{ClientID: id, Toggle: Toggle{Wind: &on}}
	waitFrame(t, c, func(f Frame) bool { return f.Wind })
}

func TestStopIsIdempotent(t *testing.T) {
	r := newRoom(t, nil)
	done := make(chan struct{})
	go func() {
		r.Run()
		close(done)
	}()
	r.Stop()
	r.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after Stop")
	}
	select {
	case <-r.Done():
	default:
		t.Errorf("Done not closed")
	}
}
