package cloth

import (
	"math"

	V "diesel.com/cloth/vector"
)

//IDNode stores a particle index. Nodes sharing a cell are chained through Link.
type IDNode struct {
	Index int
	Link  *IDNode
}

//Cell key of the spatial hash
type Cell [3]int

//SpatialHash buckets particle indexes by cell so a collider only visits nearby particles.
//Rebuilt with Load every step; node storage is reused between rebuilds.
type SpatialHash struct {
	Size  float32 //Cell edge length
	cells map[Cell]*IDNode
	nodes []IDNode
}

func NewSpatialHash(size float32) *SpatialHash {
	if size <= 0 {
		size = 1
	}
	return &SpatialHash{Size: size, cells: make(map[Cell]*IDNode)}
}

//Hash maps a position to its cell
func (s *SpatialHash) Hash(p V.Vec32) Cell {
	return Cell{s.coord(p[0]), s.coord(p[1]), s.coord(p[2])}
}

func (s *SpatialHash) coord(a float32) int {
	return int(math.Floor(float64(a / s.Size)))
}

//Load clears the grid and inserts every particle position
func (s *SpatialHash) Load(particles []*Particle) {
	for k := range s.cells {
		delete(s.cells, k)
	}
	//capacity fixed up front so node addresses stay valid while chaining
	if cap(s.nodes) < len(particles) {
		s.nodes = make([]IDNode, 0, len(particles))
	}
	s.nodes = s.nodes[:0]
	for i, p := range particles {
		if !V.IsFinite(p.Position) {
			continue
		}
		key := s.Hash(p.Position)
		s.nodes = append(s.nodes, IDNode{Index: i, Link: s.cells[key]})
		s.cells[key] = &s.nodes[len(s.nodes)-1]
	}
}

//Query calls fn with the index of every loaded particle whose cell overlaps the box
//of half width r around center. Candidates may lie outside the radius.
func (s *SpatialHash) Query(center V.Vec32, r float32, fn func(index int)) {
	lo := s.Hash(V.Sub(center, V.NewVec32(r)))
	hi := s.Hash(V.Add(center, V.NewVec32(r)))
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				for node := s.cells[Cell{x, y, z}]; node != nil; node = node.Link {
					fn(node.Index)
				}
			}
		}
	}
}

//Count of loaded entries
func (s *SpatialHash) Count() int {
	return len(s.nodes)
}
