package cloth

import "math"

//Accumulator converts variable frame time into fixed world steps
type Accumulator struct {
	World    *World
	MaxSteps int //Cap per Advance call, <= 0 means 1
	//PreStep runs before each step with the time from the start of the Advance
	//call to the end of that step
	PreStep func(offset float64)

	acc float64
}

func NewAccumulator(w *World, maxSteps int) *Accumulator {
	return &Accumulator{World: w, MaxSteps: maxSteps}
}

//Advance adds elapsed seconds and runs whole steps of World.TimeStep. Time beyond
//MaxSteps is dropped so a stalled caller does not spiral. Returns steps taken.
func (a *Accumulator) Advance(elapsed float64) int {
	if !(elapsed > 0) {
		return 0
	}
	max := a.MaxSteps
	if max <= 0 {
		max = 1
	}
	dt := float64(a.World.TimeStep)
	carry := a.acc
	a.acc += elapsed
	steps := 0
	for a.acc >= dt && steps < max {
		if a.PreStep != nil {
			a.PreStep(float64(steps+1)*dt - carry)
		}
		a.World.Step(a.World.TimeStep)
		a.acc -= dt
		steps++
	}
	if steps == max && a.acc >= dt {
		a.acc = math.Mod(a.acc, dt)
	}
	return steps
}

//Pending returns the carried time not yet stepped
func (a *Accumulator) Pending() float64 {
	return a.acc
}
