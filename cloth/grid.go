package cloth

import (
	V "diesel.com/cloth/vector"
)

//GridConfig describes a rectangular cloth of (Nx+1) x (Ny+1) particles
type GridConfig struct {
	Nx      int
	Ny      int
	Dist    float32 //rest length between neighbors
	Mass    float32 //mass of every free particle
	Origin  V.Vec32 //offset added to every rest position
	Impulse float32 //initial -Z speed per row below the top edge
}

//Grid is a cloth: particles indexed [i][j] with i across and j up, j == Ny the
//fixed top edge. Constraints hold the structural links in construction order.
type Grid struct {
	Nx          int
	Ny          int
	Dist        float32
	Particles   [][]*Particle
	Constraints []*DistanceConstraint
}

func (cfg GridConfig) Validate() error {
	if cfg.Nx < 1 || cfg.Ny < 1 {
		return invalidf("grid dimensions %dx%d", cfg.Nx, cfg.Ny)
	}
	if !(cfg.Dist > 0) {
		return invalidf("grid spacing %v", cfg.Dist)
	}
	if !(cfg.Mass > 0) {
		return invalidf("particle mass %v", cfg.Mass)
	}
	if !V.IsFinite(cfg.Origin) {
		return invalidf("grid origin %v", cfg.Origin)
	}
	return nil
}

//NewGrid builds particles at ((i-Nx/2)*dist, (j-Ny/2)*dist, 0) and links each to its
//right and upper neighbor. The pinned top row gets no horizontal links.
func NewGrid(cfg GridConfig) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Grid{Nx: cfg.Nx, Ny: cfg.Ny, Dist: cfg.Dist}
	g.Particles = make([][]*Particle, cfg.Nx+1)
	for i := 0; i <= cfg.Nx; i++ {
		g.Particles[i] = make([]*Particle, cfg.Ny+1)
		for j := 0; j <= cfg.Ny; j++ {
			pos := V.Add(cfg.Origin, g.rest(i, j))
			vel := V.Vec32{0, 0, -cfg.Impulse * float32(cfg.Ny-j)}
			mass := cfg.Mass
			if j == cfg.Ny {
				mass = 0
			}
			g.Particles[i][j] = NewParticle(pos, vel, mass)
		}
	}

	for i := 0; i <= cfg.Nx; i++ {
		for j := 0; j <= cfg.Ny; j++ {
			if i < cfg.Nx && j < cfg.Ny {
				g.Constraints = append(g.Constraints, NewDistanceConstraint(g.Particles[i][j], g.Particles[i+1][j], cfg.Dist))
			}
			if j < cfg.Ny {
				g.Constraints = append(g.Constraints, NewDistanceConstraint(g.Particles[i][j], g.Particles[i][j+1], cfg.Dist))
			}
		}
	}
	return g, nil
}

func (g *Grid) rest(i, j int) V.Vec32 {
	x := (float32(i) - float32(g.Nx)*0.5) * g.Dist
	y := (float32(j) - float32(g.Ny)*0.5) * g.Dist
	return V.Vec32{x, y, 0}
}

func (g *Grid) inRange(i, j int) bool {
	return i >= 0 && i <= g.Nx && j >= 0 && j <= g.Ny
}

//At returns nil outside the grid
func (g *Grid) At(i, j int) *Particle {
	if !g.inRange(i, j) {
		return nil
	}
	return g.Particles[i][j]
}

//Position of particle (i, j), false if out of range
func (g *Grid) Position(i, j int) (V.Vec32, bool) {
	p := g.At(i, j)
	if p == nil {
		return V.Vec32{}, false
	}
	return p.Position, true
}

//DisplayPosition looks up by display row, counted down from the top edge
func (g *Grid) DisplayPosition(i, row int) (V.Vec32, bool) {
	return g.Position(i, g.Ny-row)
}

//Each visits the particles in index order
func (g *Grid) Each(fn func(i, j int, p *Particle)) {
	for i := range g.Particles {
		for j, p := range g.Particles[i] {
			fn(i, j, p)
		}
	}
}

//Count of particles
func (g *Grid) Count() int {
	return (g.Nx + 1) * (g.Ny + 1)
}

//ApplyWind adds the wind force to every free particle
func (g *Grid) ApplyWind(wind V.Vec32) {
	g.Each(func(_, _ int, p *Particle) {
		if !p.Fixed() {
			p.ApplyForce(wind)
		}
	})
}

//TopCorners returns the two top edge corner particles (left, right)
func (g *Grid) TopCorners() (*Particle, *Particle) {
	return g.Particles[0][g.Ny], g.Particles[g.Nx][g.Ny]
}
