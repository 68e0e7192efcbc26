package main

import (
	"fmt"
	"hash/fnv"
	"io"
	"math"

	C "diesel.com/cloth/cloth"
	S "diesel.com/cloth/scene"
	V "diesel.com/cloth/vector"
	"github.com/pkg/errors"
)

//Summary of a headless run. Checksum hashes the raw bits of every particle
//position so two runs of the same build can be compared exactly.
type Summary struct {
	Steps    int
	Time     float64
	Lowest   V.Vec32
	Checksum uint64
	Faults   int
}

func summarize(s *S.Scene) Summary {
	h := fnv.New64a()
	var buf [4]byte
	lowest := V.Vec32{0, float32(math.Inf(1)), 0}
	s.Cloth.Each(func(i, j int, p *C.Particle) {
		if p.Position[1] < lowest[1] {
			lowest = p.Position
		}
		for _, c := range p.Position {
			bits := math.Float32bits(c)
			buf[0], buf[1], buf[2], buf[3] = byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24)
			h.Write(buf[:])
		}
	})
	return Summary{
		Steps:    s.World.Timer.Steps,
		Time:     s.World.Timer.T,
		Lowest:   lowest,
		Checksum: h.Sum64(),
		Faults:   s.World.Faults(),
	}
}

func runHeadless(s *S.Scene, steps int, out io.Writer) error {
	if steps < 0 {
		return errors.Errorf("steps %d: must not be negative", steps)
	}
	dt := float64(s.World.TimeStep)
	for k := 0; k < steps; k++ {
		s.Tick(float64(k+1) * dt)
	}
	sum := summarize(s)
	_, err := fmt.Fprintf(out, "steps %d  t=%.3fs  lowest (%.4f, %.4f, %.4f)  faults %d  checksum %016x\n",
		sum.Steps, sum.Time, sum.Lowest[0], sum.Lowest[1], sum.Lowest[2], sum.Faults, sum.Checksum)
	return err
}
