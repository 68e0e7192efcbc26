package server

import (
	"fmt"
	"log"
	"sync"
	"time"

	S "diesel.com/cloth/scene"
	U "diesel.com/cloth/utils"
	V "diesel.com/cloth/vector"
)

type Conn interface {
	Send([]byte) error
	Close() error
}

// Join: issued once after hello parsed
type Join struct {
	Conn  Conn
	Name  string
	Reply chan<- JoinResult
}

type JoinResult struct {
	ClientID string
}

// SetOptions: a client toggled wind or sphere
type SetOptions struct {
	ClientID string
	Toggle   Toggle
}

// Leave: issued on disconnect
type Leave struct {
	ClientID string
}

//Room owns the scene. Only the Run goroutine touches it; everything else talks
//through Inbox.
type Room struct {
	Inbox          chan any
	Logger         *log.Logger
	scene          *S.Scene
	tick           time.Duration
	broadcastEvery int
	clients        map[string]Conn
	names          map[string]string
	nextID         int
	quit           chan struct{}
	stopOnce       sync.Once
	start          time.Time

	verts []V.Vec32
}

func NewRoom(scene *S.Scene, broadcastHz int, logger *log.Logger) *Room {
	simHz := int(1/scene.Config.TimeStep + 0.5)
	broadcastEvery := 1
	if broadcastHz > 0 {
		broadcastEvery = simHz / broadcastHz
	}
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}
	return &Room{
		Inbox:          make(chan any, 256),
		Logger:         logger,
		scene:          scene,
		tick:           time.Duration(float64(scene.Config.TimeStep) * float64(time.Second)),
		broadcastEvery: broadcastEvery,
		clients:        make(map[string]Conn),
		names:          make(map[string]string),
		nextID:         1,
		quit:           make(chan struct{}),
	}
}

//Stop ends Run. Safe to call more than once.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

//Done is closed once the room is stopped
func (r *Room) Done() <-chan struct{} {
	return r.quit
}

func (r *Room) Run() {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	r.start = time.Now()

	for {
		select {
		case <-r.quit:
			for id := range r.clients {
				r.removeClient(id)
			}
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case now := <-ticker.C:
			r.scene.Tick(now.Sub(r.start).Seconds())
			if r.scene.Ticks()%r.broadcastEvery == 0 {
				r.broadcastFrame()
			}
		}
	}
}

func (r *Room) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		id := fmt.Sprintf("c%d", r.nextID)
		r.nextID++
		name := c.Name
		if name == "" {
			name = "viewer " + id
		}
		r.clients[id] = c.Conn
		r.names[id] = name
		r.logf("room: %s (%s) joined, %d watching", id, name, len(r.clients))
		if b, err := Encode(MsgWelcome, r.welcome(id)); err == nil {
			if err := c.Conn.Send(b); err != nil {
				r.removeClient(id)
			}
		}
		if c.Reply != nil {
			c.Reply <- JoinResult{ClientID: id}
		}
	case SetOptions:
		if _, ok := r.clients[c.ClientID]; !ok {
			return
		}
		if c.Toggle.Wind != nil {
			r.scene.SetWindEnabled(*c.Toggle.Wind)
		}
		if c.Toggle.Sphere != nil {
			r.scene.SetSphereEnabled(*c.Toggle.Sphere)
		}
		r.logf("room: %s set wind=%v sphere=%v", c.ClientID, r.scene.WindEnabled(), r.scene.SphereEnabled())
	case Leave:
		if _, ok := r.clients[c.ClientID]; ok {
			r.logf("room: %s left", c.ClientID)
		}
		r.removeClient(c.ClientID)
	}
}

func (r *Room) removeClient(id string) {
	if c, ok := r.clients[id]; ok {
		_ = c.Close()
	}
	delete(r.clients, id)
	delete(r.names, id)
}

func (r *Room) welcome(id string) Welcome {
	cfg := r.scene.Config
	w := Welcome{
		ClientID:    id,
		Nx:          cfg.Nx,
		Ny:          cfg.Ny,
		TimeStep:    cfg.TimeStep,
		GroundY:     cfg.GroundY,
		PoleExtents: [3]float32(S.PoleExtents),
	}
	if sp := r.scene.World.Sphere; sp != nil {
		w.SphereRadius = sp.Radius
	}
	return w
}

func (r *Room) buildFrame() Frame {
	s := r.scene
	r.verts = U.ClothVertices(s.Cloth, r.verts)
	f := Frame{
		Tick:   s.Ticks(),
		Time:   s.World.Timer.T,
		Wind:   s.WindEnabled(),
		Sphere: s.SphereEnabled(),
		Cloth:  U.PackPositions(nil, r.verts),
	}
	for _, p := range s.Poles {
		if p != nil {
			f.Poles = append(f.Poles, [3]float32(p.Position))
		}
	}
	if s.SphereEnabled() {
		pos, _ := s.BodyPosition(s.SphereID())
		at := [3]float32(pos)
		f.Ball = &at
	}
	return f
}

func (r *Room) broadcastFrame() {
	if len(r.clients) == 0 {
		return
	}
	b, err := Encode(MsgFrame, r.buildFrame())
	if err != nil {
		r.logf("room: encode frame: %v", err)
		return
	}

	var failed []string
	for id, c := range r.clients {
		if err := c.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		r.logf("room: dropping %s: send failed", id)
		r.removeClient(id)
	}
}
