package config

import (
	"log"
	"os"
	"strings"

	V "diesel.com/cloth/vector"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

//EnvPrefix for process environment overrides, e.g. CLOTH_NX=30
const EnvPrefix = "CLOTH"

//ErrInvalidConfig is the cause of every Validate failure
var ErrInvalidConfig = errors.New("invalid configuration")

//Config - every knob of the cloth scene, the viewers and the stream server
type Config struct {
	Nx           int     `mapstructure:"nx"`
	Ny           int     `mapstructure:"ny"`
	ClothSize    float32 `mapstructure:"cloth-size"` //Cloth width; particle spacing = ClothSize/Nx
	Mass         float32 `mapstructure:"mass"`
	TimeStep     float32 `mapstructure:"time-step"`
	Iterations   int     `mapstructure:"iterations"`
	Damping      float32 `mapstructure:"damping"`
	Gravity      float32 `mapstructure:"gravity"` //Y acceleration
	WindX        float32 `mapstructure:"wind-x"`
	WindY        float32 `mapstructure:"wind-y"`
	WindZ        float32 `mapstructure:"wind-z"`
	EnableWind   bool    `mapstructure:"enable-wind"`
	EnableSphere bool    `mapstructure:"enable-sphere"`
	SphereRadius float32 `mapstructure:"sphere-radius"`
	OrbitRadius  float32 `mapstructure:"orbit-radius"`
	OrbitHeight  float32 `mapstructure:"orbit-height"`
	GroundY      float32 `mapstructure:"ground-y"`

	Width       int    `mapstructure:"width"`
	Height      int    `mapstructure:"height"`
	CatchUp     bool   `mapstructure:"catch-up"` //Window viewer steps by wall time instead of once per frame
	Addr        string `mapstructure:"addr"`
	BroadcastHz int    `mapstructure:"broadcast-hz"`
}

//Default mirrors the demo scene: 15x20 cloth of 0.75 width hanging over y=-0.7
func Default() Config {
	return Config{
		Nx:           15,
		Ny:           20,
		ClothSize:    0.75,
		Mass:         1,
		TimeStep:     1.0 / 60.0,
		Iterations:   10,
		Damping:      0.01,
		Gravity:      -9.8,
		WindX:        1,
		WindY:        2,
		WindZ:        3,
		SphereRadius: 0.1 * 1.3,
		OrbitRadius:  0.2,
		OrbitHeight:  -0.6,
		GroundY:      -0.7,
		Width:        1280,
		Height:       720,
		Addr:         ":8080",
		BroadcastHz:  30,
	}
}

//Wind force vector
func (c Config) Wind() V.Vec32 {
	return V.Vec32{c.WindX, c.WindY, c.WindZ}
}

//Dist between neighboring particles
func (c Config) Dist() float32 {
	return c.ClothSize / float32(c.Nx)
}

func (c Config) Validate() error {
	switch {
	case c.Nx <= 0 || c.Ny <= 0:
		return errors.Wrapf(ErrInvalidConfig, "grid %dx%d", c.Nx, c.Ny)
	case !(c.ClothSize > 0):
		return errors.Wrapf(ErrInvalidConfig, "cloth-size %v", c.ClothSize)
	case !(c.Mass > 0):
		return errors.Wrapf(ErrInvalidConfig, "mass %v", c.Mass)
	case !(c.TimeStep > 0):
		return errors.Wrapf(ErrInvalidConfig, "time-step %v", c.TimeStep)
	case c.Iterations < 1:
		return errors.Wrapf(ErrInvalidConfig, "iterations %d", c.Iterations)
	case !(c.Damping >= 0 && c.Damping < 1):
		return errors.Wrapf(ErrInvalidConfig, "damping %v", c.Damping)
	case c.SphereRadius < 0:
		return errors.Wrapf(ErrInvalidConfig, "sphere-radius %v", c.SphereRadius)
	case c.BroadcastHz <= 0:
		return errors.Wrapf(ErrInvalidConfig, "broadcast-hz %d", c.BroadcastHz)
	}
	return nil
}

//RegisterFlags declares one flag per Config field, defaulting to Default()
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Int("nx", d.Nx, "cloth columns")
	fs.Int("ny", d.Ny, "cloth rows")
	fs.Float32("cloth-size", d.ClothSize, "cloth width")
	fs.Float32("mass", d.Mass, "particle mass")
	fs.Float32("time-step", d.TimeStep, "fixed simulation step in seconds")
	fs.Int("iterations", d.Iterations, "constraint relaxation passes per step")
	fs.Float32("damping", d.Damping, "linear damping fraction per second")
	fs.Float32("gravity", d.Gravity, "gravity along y")
	fs.Float32("wind-x", d.WindX, "wind force x")
	fs.Float32("wind-y", d.WindY, "wind force y")
	fs.Float32("wind-z", d.WindZ, "wind force z")
	fs.Bool("enable-wind", d.EnableWind, "start with wind on")
	fs.Bool("enable-sphere", d.EnableSphere, "start with the sphere on")
	fs.Float32("sphere-radius", d.SphereRadius, "sphere radius")
	fs.Float32("orbit-radius", d.OrbitRadius, "sphere orbit radius")
	fs.Float32("orbit-height", d.OrbitHeight, "sphere orbit height")
	fs.Float32("ground-y", d.GroundY, "ground plane height")
	fs.Int("width", d.Width, "window width")
	fs.Int("height", d.Height, "window height")
	fs.Bool("catch-up", d.CatchUp, "window viewer runs as many fixed steps as wall time covers")
	fs.String("addr", d.Addr, "stream server listen address")
	fs.Int("broadcast-hz", d.BroadcastHz, "frames per second sent to stream clients")
}

//New returns a viper instance with defaults and CLOTH_ environment lookup
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Default()
	defaults := map[string]interface{}{
		"nx": d.Nx, "ny": d.Ny, "cloth-size": d.ClothSize, "mass": d.Mass,
		"time-step": d.TimeStep, "iterations": d.Iterations, "damping": d.Damping,
		"gravity": d.Gravity, "wind-x": d.WindX, "wind-y": d.WindY, "wind-z": d.WindZ,
		"enable-wind": d.EnableWind, "enable-sphere": d.EnableSphere,
		"sphere-radius": d.SphereRadius, "orbit-radius": d.OrbitRadius,
		"orbit-height": d.OrbitHeight, "ground-y": d.GroundY,
		"width": d.Width, "height": d.Height, "catch-up": d.CatchUp, "addr": d.Addr, "broadcast-hz": d.BroadcastHz,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

//LoadEnvFile reads dotenv files into the process environment. Missing files are skipped.
func LoadEnvFile(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "loading %s", f)
		}
		log.Printf("config: loaded environment from %s", f)
	}
	return nil
}

//Load resolves the configuration: .env, then CLOTH_ env, then the optional config
//file, then any flags bound on v. The result is validated.
func Load(v *viper.Viper, file string) (Config, error) {
	if err := LoadEnvFile(); err != nil {
		return Config{}, err
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config %s", file)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
