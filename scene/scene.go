package scene

//Demo scene: a cloth hanging from its top edge, two poles pinned to the top corners,
//a ground plane and a sphere that orbits under the cloth when enabled.
import (
	"log"

	C "diesel.com/cloth/cloth"
	"diesel.com/cloth/config"
	G "diesel.com/cloth/geometry"
	V "diesel.com/cloth/vector"
	"github.com/setanarut/vec"
)

const (
	PoleMass = 1
	PoleTopY = 0.5 //pin point in pole coordinates
	Impulse  = 0.1 //initial -Z velocity per row below the top edge

	//Pole indexes
	Left  = 0
	Right = 1

	//MaxCatchUp bounds the fixed steps Advance takes after a stall
	MaxCatchUp = 4
)

//PoleExtents - half extents of each pole box
var PoleExtents = V.Vec32{0.05, 0.5, 0.05}

//Orbit is the sphere trajectory: a horizontal circle at Height
type Orbit struct {
	Radius float32
	Height float32
}

//At returns (r sin t, h, r cos t) for t seconds
func (o Orbit) At(t float64) V.Vec32 {
	p := vec.ForAngle(t).Scale(float64(o.Radius))
	return V.Vec32{float32(p.Y), o.Height, float32(p.X)}
}

//Scene owns the world and the option toggles. Not safe for concurrent use; the
//viewers and the stream room each drive one Scene from a single goroutine.
type Scene struct {
	Config config.Config
	World  *C.World
	Cloth  *C.Grid
	Poles  [2]*C.Body
	Pins   [2]*C.PointPinConstraint
	Sphere *C.Body
	Ground G.Plane
	Orbit  Orbit

	acc     *C.Accumulator
	elapsed float64
	from    float64 //elapsed at the start of the current Advance
	ticks   int
}

func New(cfg config.Config, logger *log.Logger) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scene{
		Config: cfg,
		Ground: G.GroundPlane(cfg.GroundY),
		Orbit:  Orbit{Radius: cfg.OrbitRadius, Height: cfg.OrbitHeight},
	}

	world, err := C.NewWorld(C.WorldConfig{
		Gravity:    V.Vec32{0, cfg.Gravity, 0},
		TimeStep:   cfg.TimeStep,
		Iterations: cfg.Iterations,
		Damping:    cfg.Damping,
		Ground:     &s.Ground,
		Wind:       cfg.Wind(),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	s.World = world
	s.acc = C.NewAccumulator(world, MaxCatchUp)
	s.acc.PreStep = s.beforeStep

	dist := cfg.Dist()
	s.Cloth, err = C.NewGrid(C.GridConfig{Nx: cfg.Nx, Ny: cfg.Ny, Dist: dist, Mass: cfg.Mass, Impulse: Impulse})
	if err != nil {
		return nil, err
	}
	if err := world.AddGrid(s.Cloth); err != nil {
		return nil, err
	}

	left, right := s.Cloth.TopCorners()
	offsets := [2]V.Vec32{{-dist / 2, -dist / 2, 0}, {dist / 2, -dist / 2, 0}}
	for k, corner := range [2]*C.Particle{left, right} {
		if err := s.addPole(k, corner, offsets[k]); err != nil {
			return nil, err
		}
	}

	if cfg.SphereRadius > 0 {
		if s.Sphere, err = world.AddSphere(cfg.SphereRadius); err != nil {
			return nil, err
		}
		world.SetSphereOrbitPosition(s.Orbit.At(0))
	}

	s.SetWindEnabled(cfg.EnableWind)
	s.SetSphereEnabled(cfg.EnableSphere)
	if logger != nil {
		logger.Printf("scene: %d particles, %d constraints, %d bodies", s.Cloth.Count(), len(world.Constraints()), len(world.Bodies()))
	}
	return s, nil
}

//addPole hangs a pole so its top meets the corner particle plus offset
func (s *Scene) addPole(k int, corner *C.Particle, offset V.Vec32) error {
	pole := C.NewBody(PoleMass, &G.Box{HalfExtents: PoleExtents})
	top := V.Vec32{0, PoleTopY, 0}
	pole.SetPosition(V.Sub(V.Add(corner.Position, offset), top))
	s.World.AddBody(pole)

	pin := C.NewPointPinConstraint(pole, top, corner, offset)
	if err := s.World.AddConstraint(pin); err != nil {
		return err
	}
	s.Poles[k] = pole
	s.Pins[k] = pin
	return nil
}

//Tick advances one fixed step. elapsed is wall time in seconds since start and
//only drives the sphere orbit.
func (s *Scene) Tick(elapsed float64) {
	s.elapsed = elapsed
	if s.SphereEnabled() {
		s.World.SetSphereOrbitPosition(s.Orbit.At(elapsed))
	}
	s.World.Step(s.World.TimeStep)
	s.ticks++
}

//Advance runs as many fixed steps as the wall time since the previous call covers.
//Used by drivers whose frame rate is not the simulation rate. Returns steps taken.
func (s *Scene) Advance(elapsed float64) int {
	s.from = s.elapsed
	s.elapsed = elapsed
	n := s.acc.Advance(elapsed - s.from)
	s.ticks += n
	return n
}

//beforeStep moves the sphere to where the orbit is at the end of the coming step
func (s *Scene) beforeStep(offset float64) {
	if s.SphereEnabled() {
		s.World.SetSphereOrbitPosition(s.Orbit.At(s.from + offset))
	}
}

func (s *Scene) SetWindEnabled(on bool) {
	s.World.SetWindEnabled(on)
}

//SetSphereEnabled - the sphere snaps to its orbit position when switched on
func (s *Scene) SetSphereEnabled(on bool) {
	if s.Sphere == nil {
		return
	}
	if on && !s.World.SphereEnabled() {
		s.World.SetSphereOrbitPosition(s.Orbit.At(s.elapsed))
	}
	s.World.SetSphereEnabled(on)
}

func (s *Scene) ToggleWind() bool {
	s.SetWindEnabled(!s.WindEnabled())
	return s.WindEnabled()
}

func (s *Scene) ToggleSphere() bool {
	s.SetSphereEnabled(!s.SphereEnabled())
	return s.SphereEnabled()
}

func (s *Scene) WindEnabled() bool {
	return s.World.WindEnabled
}

func (s *Scene) SphereEnabled() bool {
	return s.World.SphereEnabled()
}

//Ticks taken so far
func (s *Scene) Ticks() int {
	return s.ticks
}

func (s *Scene) ParticlePosition(i, j int) (V.Vec32, bool) {
	return s.Cloth.Position(i, j)
}

func (s *Scene) DisplayPosition(i, row int) (V.Vec32, bool) {
	return s.Cloth.DisplayPosition(i, row)
}

func (s *Scene) BodyPosition(id int) (V.Vec32, bool) {
	return s.World.BodyPosition(id)
}

//SphereID is -1 when the scene has no sphere
func (s *Scene) SphereID() int {
	if s.Sphere == nil {
		return -1
	}
	return s.Sphere.ID
}
