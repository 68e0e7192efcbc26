package termview

import (
	"math"

	V "diesel.com/cloth/vector"
)

//Layer decides the color a cell is drawn with
type Layer uint8

const (
	LayerEmpty Layer = iota
	LayerGround
	LayerPole
	LayerCloth
	LayerSphere
)

//Projector maps world positions to character cells. The view is orthographic,
//turned by Yaw about +Y. Cells are about twice as tall as wide so x is doubled.
type Projector struct {
	Width  int
	Height int
	Scale  float32 //rows per world unit
	Center V.Vec32 //world point at the middle of the screen
	Yaw    float32
}

//Fit sizes a projector so a scene of half height extent fills the rows
func Fit(width, height int, extent float32, center V.Vec32) Projector {
	p := Projector{Width: width, Height: height, Center: center}
	if extent > 0 && height > 0 {
		p.Scale = float32(height) / (2 * extent)
		if w := float32(width) / (4 * extent); w < p.Scale {
			p.Scale = w
		}
	}
	return p
}

//Project returns the cell and the depth toward the viewer. ok is false off screen.
func (p Projector) Project(v V.Vec32) (x, y int, depth float32, ok bool) {
	d := V.Sub(v, p.Center)
	s, c := math.Sincos(float64(p.Yaw))
	rx := float32(c)*d[0] - float32(s)*d[2]
	rz := float32(s)*d[0] + float32(c)*d[2]

	fx := float32(p.Width)/2 + rx*p.Scale*2
	fy := float32(p.Height)/2 - d[1]*p.Scale
	x = int(math.Floor(float64(fx)))
	y = int(math.Floor(float64(fy)))
	ok = x >= 0 && x < p.Width && y >= 0 && y < p.Height
	return x, y, rz, ok
}

var shades = []rune{'.', ':', 'o', 'O', '@'}

//Glyph picks a denser rune for points nearer the viewer. depth is scaled by extent.
func Glyph(depth, extent float32) rune {
	if extent <= 0 {
		return shades[len(shades)/2]
	}
	t := (depth/extent + 1) / 2
	i := int(t * float32(len(shades)))
	if i < 0 {
		i = 0
	}
	if i >= len(shades) {
		i = len(shades) - 1
	}
	return shades[i]
}

//Canvas is a depth buffered grid of runes
type Canvas struct {
	W, H  int
	Runes []rune
	Layer []Layer
	depth []float32
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

func (c *Canvas) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c.W, c.H = w, h
	c.Runes = make([]rune, w*h)
	c.Layer = make([]Layer, w*h)
	c.depth = make([]float32, w*h)
	c.Clear()
}

func (c *Canvas) Clear() {
	for i := range c.Runes {
		c.Runes[i] = ' '
		c.Layer[i] = LayerEmpty
		c.depth[i] = float32(math.Inf(-1))
	}
}

//Plot keeps the nearest write per cell
func (c *Canvas) Plot(x, y int, depth float32, r rune, l Layer) {
	if x < 0 || x >= c.W || y < 0 || y >= c.H {
		return
	}
	i := y*c.W + x
	if depth < c.depth[i] {
		return
	}
	c.depth[i] = depth
	c.Runes[i] = r
	c.Layer[i] = l
}

//At returns the rune and layer in a cell
func (c *Canvas) At(x, y int) (rune, Layer) {
	if x < 0 || x >= c.W || y < 0 || y >= c.H {
		return ' ', LayerEmpty
	}
	i := y*c.W + x
	return c.Runes[i], c.Layer[i]
}

//Segment plots points along a to b so links read as continuous lines
func (c *Canvas) Segment(p Projector, a, b V.Vec32, r rune, l Layer) {
	ax, ay, _, _ := p.Project(a)
	bx, by, _, _ := p.Project(b)
	n := abs(bx-ax) + abs(by-ay)
	if n < 1 {
		n = 1
	}
	for k := 0; k <= n; k++ {
		t := float32(k) / float32(n)
		q := V.Add(a, V.Scale(V.Sub(b, a), t))
		if x, y, d, ok := p.Project(q); ok {
			c.Plot(x, y, d, r, l)
		}
	}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
