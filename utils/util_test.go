package utils

import (
	"testing"
	"unsafe"

	C "diesel.com/cloth/cloth"
	V "diesel.com/cloth/vector"
)

func TestTransfer(t *testing.T) {
	var r = V.Vec32{1, 0, 0}
	var positionSlice = []V.Vec32{r, r, r, r, r, {0, 2, 0}, r, r, r, r}
	uSlice := make([]V.Vec32, len(positionSlice))
	uPtr := unsafe.Pointer(&uSlice[0])

	if err := TransferPositionData(uPtr, positionSlice, len(positionSlice)); err != nil {
		t.Fatal(err)
	}
	for i := range positionSlice {
		if !V.VecEquals(positionSlice[i], uSlice[i]) {
			t.Errorf("Improper Buffer Load at index %d\n", i)
		}
	}

	if err := TransferPositionData(uPtr, positionSlice, len(positionSlice)+1); err == nil {
		t.Errorf("oversized transfer accepted")
	}
	if err := TransferPositionData(nil, positionSlice, 1); err == nil {
		t.Errorf("nil target accepted")
	}
}

func TestPackPositions(t *testing.T) {
	buf := make([]float32, 0, 3)
	buf = PackPositions(buf, []V.Vec32{{1, 2, 3}, {4, 5, 6}})
	want := []float32{1, 2, 3, 4, 5, 6}
	if len(buf) != len(want) {
		t.Fatalf("len %d", len(buf))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v", i, buf[i])
		}
	}
}

func TestClothVerticesDisplayOrder(t *testing.T) {
	g, err := C.NewGrid(C.GridConfig{Nx: 3, Ny: 2, Dist: 0.5, Mass: 1})
	if err != nil {
		t.Fatal(err)
	}
	verts := ClothVertices(g, nil)
	if len(verts) != 12 {
		t.Fatalf("vertex count %d", len(verts))
	}
	for row := 0; row <= 2; row++ {
		for i := 0; i <= 3; i++ {
			want, _ := g.DisplayPosition(i, row)
			if !V.VecEquals(verts[row*4+i], want) {
				t.Errorf("vertex (%d,%d) = %v, want %v", i, row, verts[row*4+i], want)
			}
		}
	}
	//first display row is the fixed top edge
	if !g.Particles[0][2].Fixed() || !V.VecEquals(verts[0], g.Particles[0][2].Position) {
		t.Errorf("display row 0 is not the top edge")
	}
	again := ClothVertices(g, verts)
	if &again[0] != &verts[0] {
		t.Errorf("buffer not reused")
	}
}

func TestGridIndices(t *testing.T) {
	idx := GridIndices(3, 2)
	if len(idx) != 3*2*6 {
		t.Fatalf("index count %d", len(idx))
	}
	for _, v := range idx {
		if v >= 12 {
			t.Errorf("index %d out of range", v)
		}
	}
	//first cell
	want := []uint32{0, 4, 1, 1, 4, 5}
	for k := range want {
		if idx[k] != want[k] {
			t.Errorf("idx[%d] = %d, want %d", k, idx[k], want[k])
		}
	}
	if GridIndices(0, 4) != nil {
		t.Errorf("degenerate grid produced indices")
	}

	lines := LineIndices(3, 2)
	if len(lines) != 2*(3*3+2*4) {
		t.Errorf("line index count %d", len(lines))
	}
}
