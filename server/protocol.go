package server

import (
	"encoding/json"

	"github.com/pkg/errors"
)

//Message types. hello and toggle flow client to server; welcome and frame flow back.
const (
	MsgHello   = "hello"
	MsgToggle  = "toggle"
	MsgWelcome = "welcome"
	MsgFrame   = "frame"
)

//Envelope wraps every message on the wire
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}

type Hello struct {
	Name string `json:"name"`
}

//Toggle sets an option; nil fields are left alone
type Toggle struct {
	Wind   *bool `json:"wind,omitempty"`
	Sphere *bool `json:"sphere,omitempty"`
}

//Welcome describes the static parts of the scene once per client
type Welcome struct {
	ClientID     string     `json:"id"`
	Nx           int        `json:"nx"`
	Ny           int        `json:"ny"`
	TimeStep     float32    `json:"dt"`
	GroundY      float32    `json:"groundY"`
	SphereRadius float32    `json:"sphereRadius"`
	PoleExtents  [3]float32 `json:"poleExtents"`
}

//Frame is one broadcast snapshot. Cloth holds x,y,z triples in display order.
type Frame struct {
	Tick   int          `json:"tick"`
	Time   float64      `json:"time"`
	Wind   bool         `json:"wind"`
	Sphere bool         `json:"sphere"`
	Cloth  []float32    `json:"cloth"`
	Poles  [][3]float32 `json:"poles"`
	Ball   *[3]float32  `json:"ball,omitempty"`
}

func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, errors.New("encode: empty envelope type")
	}
	if payload == nil {
		return nil, errors.Errorf("encode %q: nil payload", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %q", t)
	}
	return json.Marshal(Envelope{t, pb})
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errors.New("decode: empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, errors.Wrap(err, "decode envelope")
	}
	if e.T == "" {
		return Envelope{}, errors.New("decode: envelope without type")
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, errors.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, errors.Wrapf(err, "decode %q payload", env.T)
}
