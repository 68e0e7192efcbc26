package utils

import (
	"unsafe"

	C "diesel.com/cloth/cloth"
	V "diesel.com/cloth/vector"
	"github.com/pkg/errors"
)

//TransferPositionData copies count positions into memory at graphicsPtr, typically a
//mapped GL buffer. The target must hold at least count Vec32 values.
func TransferPositionData(graphicsPtr unsafe.Pointer, posArray []V.Vec32, count int) error {
	if graphicsPtr == nil {
		return errors.New("no valid pointer to graphics memory")
	}
	if count <= 0 || count > len(posArray) {
		return errors.Errorf("position transfer size out of bounds: %d of %d", count, len(posArray))
	}
	dst := unsafe.Slice((*V.Vec32)(graphicsPtr), count)
	copy(dst, posArray[:count])
	return nil
}

//PackPositions flattens positions into dst as x,y,z triples, reusing dst's storage
func PackPositions(dst []float32, positions []V.Vec32) []float32 {
	dst = dst[:0]
	for _, p := range positions {
		dst = append(dst, p[0], p[1], p[2])
	}
	return dst
}

//ClothVertices writes the grid positions in display order: index row*(Nx+1)+i with row
//counted down from the top edge, so row r holds grid row j = Ny-r.
func ClothVertices(g *C.Grid, dst []V.Vec32) []V.Vec32 {
	n := g.Count()
	if cap(dst) < n {
		dst = make([]V.Vec32, n)
	}
	dst = dst[:n]
	for row := 0; row <= g.Ny; row++ {
		for i := 0; i <= g.Nx; i++ {
			dst[row*(g.Nx+1)+i] = g.Particles[i][g.Ny-row].Position
		}
	}
	return dst
}

//GridIndices triangulates an (nx+1) x (ny+1) display order vertex grid, two
//counter clockwise triangles per cell
func GridIndices(nx, ny int) []uint32 {
	if nx <= 0 || ny <= 0 {
		return nil
	}
	w := uint32(nx + 1)
	idx := make([]uint32, 0, nx*ny*6)
	for r := uint32(0); r < uint32(ny); r++ {
		for i := uint32(0); i < uint32(nx); i++ {
			a := r*w + i
			b := a + 1
			c := a + w
			d := c + 1
			idx = append(idx, a, c, b, b, c, d)
		}
	}
	return idx
}

//LineIndices lists the structural links of the grid as line segments
func LineIndices(nx, ny int) []uint32 {
	if nx <= 0 || ny <= 0 {
		return nil
	}
	w := uint32(nx + 1)
	idx := make([]uint32, 0, 2*(nx*(ny+1)+ny*(nx+1)))
	for r := uint32(0); r <= uint32(ny); r++ {
		for i := uint32(0); i <= uint32(nx); i++ {
			a := r*w + i
			if i < uint32(nx) {
				idx = append(idx, a, a+1)
			}
			if r < uint32(ny) {
				idx = append(idx, a, a+w)
			}
		}
	}
	return idx
}
