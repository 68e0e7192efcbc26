package termview

//Terminal front end: draws the scene with tcell and maps keys to the scene toggles
import (
	"fmt"
	"time"

	S "diesel.com/cloth/scene"
	V "diesel.com/cloth/vector"
	"github.com/gdamore/tcell/v2"
)

const (
	hudRows  = 1
	extent   = 0.8 //world half height kept on screen
	yawStep  = 0.1
	poleRune = '|'
)

var center = V.Vec32{0, -0.1, 0}

var styles = map[Layer]tcell.Style{
	LayerEmpty:  tcell.StyleDefault,
	LayerGround: tcell.StyleDefault.Foreground(tcell.ColorGreen),
	LayerPole:   tcell.StyleDefault.Foreground(tcell.ColorGray),
	LayerCloth:  tcell.StyleDefault.Foreground(tcell.ColorRed),
	LayerSphere: tcell.StyleDefault.Foreground(tcell.ColorBlue),
}

//View owns the screen for one scene
type View struct {
	Scene  *S.Scene
	Screen tcell.Screen
	Canvas *Canvas
	Proj   Projector
	start  time.Time
}

func New(scene *S.Scene, screen tcell.Screen) *View {
	v := &View{Scene: scene, Screen: screen, Canvas: NewCanvas(0, 0), start: time.Now()}
	v.resize()
	return v
}

func (v *View) resize() {
	w, h := v.Screen.Size()
	yaw := v.Proj.Yaw
	v.Proj = Fit(w, h-hudRows, extent, center)
	v.Proj.Yaw = yaw
	v.Canvas.Resize(w, h-hudRows)
}

//HandleEvent applies one terminal event. Returns false when the user quits.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.Proj.Yaw -= yawStep
		case tcell.KeyRight:
			v.Proj.Yaw += yawStep
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'w':
				v.Scene.ToggleWind()
			case 'b':
				v.Scene.ToggleSphere()
			}
		}
	case *tcell.EventResize:
		v.resize()
		v.Screen.Sync()
	}
	return true
}

//Compose draws the scene into the canvas
func (v *View) Compose() {
	c, p, s := v.Canvas, v.Proj, v.Scene
	c.Clear()

	//ground line across the floor under the cloth
	gy := s.Ground.Point[1]
	c.Segment(p, V.Vec32{-extent, gy, 0}, V.Vec32{extent, gy, 0}, '_', LayerGround)

	for _, pole := range s.Poles {
		top := V.Add(pole.Position, V.Vec32{0, PoleHalfHeight(s), 0})
		bottom := V.Sub(pole.Position, V.Vec32{0, PoleHalfHeight(s), 0})
		c.Segment(p, bottom, top, poleRune, LayerPole)
	}

	g := s.Cloth
	for row := 0; row <= g.Ny; row++ {
		for i := 0; i <= g.Nx; i++ {
			pos, _ := g.DisplayPosition(i, row)
			if x, y, d, ok := p.Project(pos); ok {
				c.Plot(x, y, d, Glyph(d, extent), LayerCloth)
			}
		}
	}

	if s.SphereEnabled() {
		sp := s.World.Sphere.Geometry()
		if x, y, d, ok := p.Project(sp.Origin); ok {
			r := int(sp.Radius * p.Scale)
			for dy := -r; dy <= r; dy++ {
				for dx := -2 * r; dx <= 2*r; dx++ {
					if float32(dx*dx)/4+float32(dy*dy) <= float32(r*r) {
						c.Plot(x+dx, y+dy, d+sp.Radius, '#', LayerSphere)
					}
				}
			}
		}
	}
}

//PoleHalfHeight of the scene's pole boxes
func PoleHalfHeight(s *S.Scene) float32 {
	if s.Poles[S.Left] == nil || s.Poles[S.Left].Shape == nil {
		return 0
	}
	return s.Poles[S.Left].Shape.HalfExtents[1]
}

//HUD status line
func (v *View) HUD() string {
	s := v.Scene
	return fmt.Sprintf(" [w] wind %s  [b] sphere %s  [</>] turn  [q] quit   t=%.2fs tick %d",
		onOff(s.WindEnabled()), onOff(s.SphereEnabled()), s.World.Timer.T, s.Ticks())
}

func onOff(b bool) string {
	if b {
		return "on "
	}
	return "off"
}

//Render composes and copies the canvas to the screen
func (v *View) Render() {
	v.Compose()
	v.Screen.Clear()
	c := v.Canvas
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			r, l := c.At(x, y)
			if l == LayerEmpty {
				continue
			}
			v.Screen.SetContent(x, y, r, nil, styles[l])
		}
	}
	hud := tcell.StyleDefault.Reverse(true)
	for x, r := range []rune(v.HUD()) {
		v.Screen.SetContent(x, c.H, r, nil, hud)
	}
	v.Screen.Show()
}

//Run ticks the scene once per fixed step until the user quits
func (v *View) Run() error {
	ticker := time.NewTicker(time.Duration(float64(v.Scene.Config.TimeStep) * float64(time.Second)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go func() {
		for {
			ev := v.Screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	for {
		select {
		case ev := <-eventChan:
			if !v.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			v.Scene.Tick(now.Sub(v.start).Seconds())
			v.Render()
		}
	}
}

//Main opens the terminal, runs the view and restores the terminal on return
func Main(scene *S.Scene) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.HideCursor()
	return New(scene, screen).Run()
}
