package server

import (
	"strings"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	b, err := Encode(MsgHello, Hello{Name: "ana"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(b), `"t":"hello"`) {
		t.Errorf("envelope missing type: %s", b)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	h, err := DecodePayload[Hello](env)
	if err != nil || h.Name != "ana" {
		t.Errorf("payload %+v, err %v", h, err)
	}
}

func TestToggleOmitsUnset(t *testing.T) {
	on := true
	b, _ := Encode(MsgToggle, Toggle{Wind: &on})
	env, _ := DecodeEnvelope(b)
	tg, err := DecodePayload[Toggle](env)
	if err != nil {
		t.Fatalf("decode toggle: %v", err)
	}
	if tg.Wind == nil || !*tg.Wind {
		t.Errorf("wind not set: %+v", tg)
	}
	if tg.Sphere != nil {
		t.Errorf("sphere should stay nil")
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, in := range []string{"", "not json", `{"p":{}}`} {
		if _, err := DecodeEnvelope([]byte(in)); err == nil {
			t.Errorf("DecodeEnvelope(%q) should fail", in)
		}
	}
	env, err := DecodeEnvelope([]byte(`{"t":"hello"}`))
	if err != nil {
		t.Fatalf("type-only envelope: %v", err)
	}
	if _, err := DecodePayload[Hello](env); err == nil {
		t.Errorf("empty payload should fail")
	}
	if _, err := Encode("", Hello{}); err == nil {
		t.Errorf("empty type should fail")
	}
	if _, err := Encode(MsgFrame, nil); err == nil {
		t.Errorf("nil payload should fail")
	}
}
