package cloth

import (
	"log"
	"math"

	G "diesel.com/cloth/geometry"
	V "diesel.com/cloth/vector"
)

//State of the world lifecycle
type State int

const (
	Idle     State = iota //built, never stepped
	Stepping              //at least one step taken
)

func (s State) String() string {
	if s == Stepping {
		return "stepping"
	}
	return "idle"
}

//Timer tracks simulated time
type Timer struct {
	T     float64 //Elapsed simulated seconds
	TS    float64 //Last step size
	Last  float64 //T before the last step
	Steps int
}

func (t *Timer) StepTime(dt float32) {
	t.TS = float64(dt)
	t.Last = t.T
	t.T = t.T + t.TS
	t.Steps++
}

//WorldConfig - solver parameters
type WorldConfig struct {
	Gravity    V.Vec32
	TimeStep   float32 //Fixed step used by drivers and the Accumulator
	Iterations int     //Relaxation passes per step
	Damping    float32 //Linear damping fraction per second, [0,1)
	Ground     *G.Plane
	Wind       V.Vec32
	Logger     *log.Logger
}

//DefaultWorldConfig - earth gravity, 60Hz, no damping, no ground
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:    V.Vec32{0, -9.8, 0},
		TimeStep:   1.0 / 60.0,
		Iterations: 10,
	}
}

func (cfg WorldConfig) Validate() error {
	if !(cfg.TimeStep > 0) {
		return invalidf("time step %v", cfg.TimeStep)
	}
	if cfg.Iterations < 1 {
		return invalidf("relaxation iterations %d", cfg.Iterations)
	}
	if !(cfg.Damping >= 0 && cfg.Damping < 1) {
		return invalidf("damping %v", cfg.Damping)
	}
	if !V.IsFinite(cfg.Gravity) || !V.IsFinite(cfg.Wind) {
		return invalidf("non-finite gravity %v or wind %v", cfg.Gravity, cfg.Wind)
	}
	return nil
}

//World owns the particles, anchor bodies and constraints of one simulation and
//advances them with Step. Not safe for concurrent use.
type World struct {
	Gravity     V.Vec32
	TimeStep    float32
	Iterations  int
	Damping     float32
	Ground      *G.Plane
	Wind        V.Vec32
	WindEnabled bool
	Sphere      *SphereCollider
	Timer       Timer
	Logger      *log.Logger

	particles   []*Particle
	loose       []*Particle //particles added outside any grid
	bodies      []*Body
	constraints []Constraint
	grids       []*Grid
	hash        *SpatialHash
	state       State
	faults      int
}

func NewWorld(cfg WorldConfig) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &World{
		Gravity:    cfg.Gravity,
		TimeStep:   cfg.TimeStep,
		Iterations: cfg.Iterations,
		Damping:    cfg.Damping,
		Ground:     cfg.Ground,
		Wind:       cfg.Wind,
		Logger:     cfg.Logger,
	}, nil
}

//AddParticle registers a loose particle
func (w *World) AddParticle(p *Particle) {
	w.particles = append(w.particles, p)
	w.loose = append(w.loose, p)
}

//AddGrid registers the cloth's particles and structural constraints
func (w *World) AddGrid(g *Grid) error {
	for _, c := range g.Constraints {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	g.Each(func(_, _ int, p *Particle) { w.particles = append(w.particles, p) })
	for _, c := range g.Constraints {
		w.constraints = append(w.constraints, c)
	}
	w.grids = append(w.grids, g)
	return nil
}

//AddBody registers a body and returns its id
func (w *World) AddBody(b *Body) int {
	b.ID = len(w.bodies)
	w.bodies = append(w.bodies, b)
	return b.ID
}

//AddConstraint validates c and appends it to the relaxation order
func (w *World) AddConstraint(c Constraint) error {
	if err := c.Validate(); err != nil {
		return err
	}
	w.constraints = append(w.constraints, c)
	return nil
}

//AddSphere creates the kinematic sphere collider, disabled until SetSphereEnabled
func (w *World) AddSphere(radius float32) (*Body, error) {
	if !(radius > 0) {
		return nil, invalidf("sphere radius %v", radius)
	}
	b := NewKinematicBody()
	w.AddBody(b)
	w.Sphere = &SphereCollider{Body: b, Radius: radius}
	w.hash = NewSpatialHash(2 * radius)
	return b, nil
}

func (w *World) SetWindEnabled(on bool) {
	w.WindEnabled = on
}

func (w *World) SetSphereEnabled(on bool) {
	if w.Sphere != nil {
		w.Sphere.Enabled = on
	}
}

//SetSphereOrbitPosition moves the sphere; its velocity stays zero
func (w *World) SetSphereOrbitPosition(p V.Vec32) {
	if w.Sphere != nil {
		w.Sphere.Body.SetPosition(p)
	}
}

func (w *World) SphereEnabled() bool {
	return w.Sphere != nil && w.Sphere.Enabled
}

func (w *World) State() State {
	return w.state
}

//Faults counts particles and bodies reset after going non-finite
func (w *World) Faults() int {
	return w.faults
}

func (w *World) Particles() []*Particle {
	return w.particles
}

func (w *World) Bodies() []*Body {
	return w.bodies
}

func (w *World) Constraints() []Constraint {
	return w.constraints
}

//Cloth returns the first grid added, nil if none
func (w *World) Cloth() *Grid {
	if len(w.grids) == 0 {
		return nil
	}
	return w.grids[0]
}

//Body by id, nil if unknown
func (w *World) Body(id int) *Body {
	if id < 0 || id >= len(w.bodies) {
		return nil
	}
	return w.bodies[id]
}

func (w *World) BodyPosition(id int) (V.Vec32, bool) {
	b := w.Body(id)
	if b == nil {
		return V.Vec32{}, false
	}
	return b.Position, true
}

//ParticlePosition of the cloth particle (i, j)
func (w *World) ParticlePosition(i, j int) (V.Vec32, bool) {
	g := w.Cloth()
	if g == nil {
		return V.Vec32{}, false
	}
	return g.Position(i, j)
}

//ApplyGravity accumulates gravity*mass on every free particle and dynamic body
func (w *World) ApplyGravity() {
	for _, p := range w.particles {
		if !p.Fixed() {
			p.ApplyForce(V.Scale(w.Gravity, p.Mass()))
		}
	}
	for _, b := range w.bodies {
		if b.Type == Dynamic && !b.Fixed() {
			b.ApplyForce(V.Scale(w.Gravity, b.Mass()))
		}
	}
}

//ApplyWind accumulates wind on every free particle, cloth by cloth and then the
//loose ones. Bodies are not affected.
func (w *World) ApplyWind(wind V.Vec32) {
	for _, g := range w.grids {
		g.ApplyWind(wind)
	}
	for _, p := range w.loose {
		if !p.Fixed() {
			p.ApplyForce(wind)
		}
	}
}

//Integrate advances every particle and dynamic body by dt
func (w *World) Integrate(dt float32) {
	keep := float32(1)
	if w.Damping > 0 {
		keep = float32(math.Pow(float64(1-w.Damping), float64(dt)))
	}
	for _, p := range w.particles {
		p.Integrate(dt, keep)
	}
	for _, b := range w.bodies {
		if b.Type == Dynamic {
			b.Integrate(dt, keep)
		}
	}
}

//SatisfyConstraints projects every constraint in insertion order, iterations times
func (w *World) SatisfyConstraints(iterations int) {
	for k := 0; k < iterations; k++ {
		for _, c := range w.constraints {
			c.Project()
		}
	}
}

func (w *World) syncVelocities(dt float32) {
	invDt := 1 / dt
	for _, p := range w.particles {
		p.syncVelocity(invDt)
	}
	for _, b := range w.bodies {
		if b.Type == Dynamic {
			b.syncVelocity(invDt)
		}
	}
}

//ResolveCollisions handles the sphere (when enabled) and then the ground plane.
//Returns the number of contacts.
func (w *World) ResolveCollisions() int {
	contacts := 0
	if w.SphereEnabled() {
		sphere := w.Sphere.Geometry()
		w.hash.Load(w.particles)
		w.hash.Query(sphere.Origin, sphere.Radius, func(i int) {
			if ResolveSphereCollision(w.particles[i], sphere) {
				contacts++
			}
		})
	}
	if w.Ground != nil {
		for _, p := range w.particles {
			if ResolvePlaneCollision(p, *w.Ground) {
				contacts++
			}
		}
		for _, b := range w.bodies {
			if b.Type == Dynamic && ResolveBodyPlaneCollision(b, *w.Ground) {
				contacts++
			}
		}
	}
	return contacts
}

func (w *World) guard() {
	before := w.faults
	for _, p := range w.particles {
		if p.recover() {
			w.faults++
		}
	}
	for _, b := range w.bodies {
		if b.recover() {
			w.faults++
		}
	}
	if before == 0 && w.faults > 0 && w.Logger != nil {
		w.Logger.Printf("cloth: non-finite state at step %d, %d point(s) reset", w.Timer.Steps, w.faults)
	}
}

//Step advances the world by dt: forces, integration, relaxation, velocity sync,
//collisions. A non-positive dt is ignored.
func (w *World) Step(dt float32) {
	if !(dt > 0) {
		return
	}
	w.state = Stepping

	w.ApplyGravity()
	if w.WindEnabled {
		w.ApplyWind(w.Wind)
	}
	w.Integrate(dt)
	w.SatisfyConstraints(w.Iterations)
	w.syncVelocities(dt)
	w.ResolveCollisions()
	w.guard()
	w.Timer.StepTime(dt)
}
