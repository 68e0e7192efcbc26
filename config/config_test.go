package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if d := c.Dist(); d != 0.05 {
		t.Errorf("dist %v", d)
	}
	if c.CatchUp {
		t.Errorf("viewer should default to one step per frame")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Config)
	}{
		{"nx", func(c *Config) { c.Nx = 0 }},
		{"ny", func(c *Config) { c.Ny = -3 }},
		{"size", func(c *Config) { c.ClothSize = 0 }},
		{"mass", func(c *Config) { c.Mass = 0 }},
		{"step", func(c *Config) { c.TimeStep = -1 }},
		{"iterations", func(c *Config) { c.Iterations = 0 }},
		{"damping", func(c *Config) { c.Damping = 1 }},
		{"radius", func(c *Config) { c.SphereRadius = -0.1 }},
		{"broadcast", func(c *Config) { c.BroadcastHz = 0 }},
	}
	for _, tc := range cases {
		c := Default()
		tc.edit(&c)
		if err := c.Validate(); errors.Cause(err) != ErrInvalidConfig {
			t.Errorf("%s: got %v, want ErrInvalidConfig", tc.name, err)
		}
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cloth.yaml")
	if err := os.WriteFile(file, []byte("nx: 9\nny: 11\nenable-sphere: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLOTH_ITERATIONS", "3")
	t.Setenv("CLOTH_CLOTH_SIZE", "1.5")
	t.Setenv("CLOTH_NY", "12")

	v := New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := v.BindPFlags(fs); err != nil {
		t.Fatal(err)
	}
	if err := fs.Parse([]string{"--nx=4", "--catch-up"}); err != nil {
		t.Fatal(err)
	}

	c, err := Load(v, file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Nx != 4 {
		t.Errorf("flag should win, nx %d", c.Nx)
	}
	if !c.CatchUp {
		t.Errorf("catch-up flag lost")
	}
	if c.Ny != 12 {
		t.Errorf("env should beat file, ny %d", c.Ny)
	}
	if !c.EnableSphere {
		t.Errorf("file value enable-sphere lost")
	}
	if c.Iterations != 3 || c.ClothSize != 1.5 {
		t.Errorf("env overrides: iterations %d size %v", c.Iterations, c.ClothSize)
	}
	if c.Addr != ":8080" || c.Mass != 1 {
		t.Errorf("defaults lost: %+v", c)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("CLOTH_MASS", "-1")
	if _, err := Load(New(), ""); errors.Cause(err) != ErrInvalidConfig {
		t.Errorf("got %v", err)
	}
	if _, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("missing config file accepted")
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "CLOTH_ENVFILE_CHECK"
	file := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(file, []byte(key+"=on\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	defer os.Unsetenv(key)

	if err := LoadEnvFile(file, filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if os.Getenv(key) != "on" {
		t.Errorf("%s not loaded", key)
	}
}
