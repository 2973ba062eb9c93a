// Package config provides configuration loading and access for the point-cloud engine.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine and shell configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Camera    CameraConfig    `yaml:"camera"`
	Mask      MaskConfig      `yaml:"mask"`
	Touch     TouchConfig     `yaml:"touch"`
	Motion    MotionConfig    `yaml:"motion"`
	Layout    LayoutConfig    `yaml:"layout"`
	Input     InputConfig     `yaml:"input"`
	Defaults  ParamsConfig    `yaml:"defaults"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Gallery   GalleryConfig   `yaml:"gallery"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	TargetFPS int  `yaml:"target_fps"`
	Resizable bool `yaml:"resizable"`
}

// CameraConfig describes the perspective camera looking down -Z at the point cloud.
type CameraConfig struct {
	FOV  float64 `yaml:"fov"`  // Vertical field of view in degrees
	Z    float64 `yaml:"z"`    // Camera distance from the image plane
	Near float64 `yaml:"near"` // Near clip plane
	Far  float64 `yaml:"far"`  // Far clip plane
}

// MaskConfig controls which source pixels become particles.
type MaskConfig struct {
	Threshold    uint8   `yaml:"threshold"`     // Red channel must exceed this to be visible
	FallbackSize int     `yaml:"fallback_size"` // Side of the generated fallback texture
	Seed         int64   `yaml:"seed"`          // RNG seed for per-point angles (0 = time-based)
	NoiseScale   float64 `yaml:"noise_scale"`   // Scale of the CPU noise mirror
}

// TouchConfig holds displacement field parameters.
type TouchConfig struct {
	Size          int     `yaml:"size"`           // Grid resolution (Size x Size cells)
	Radius        float64 `yaml:"radius"`         // Footprint radius in uv units
	MaxValue      float64 `yaml:"max_value"`      // Per-cell clamp
	Decay         float64 `yaml:"decay"`          // Multiplicative factor per reference tick
	ReferenceRate float64 `yaml:"reference_rate"` // Ticks per second the decay factor is tuned for
	Epsilon       float64 `yaml:"epsilon"`        // Cells below this snap to zero
	Strength      float64 `yaml:"strength"`       // Displacement multiplier used by the vertex stage
}

// MotionConfig holds animation durations and targets.
type MotionConfig struct {
	ShowDuration       float64 `yaml:"show_duration"`        // size/spread show duration
	ShowDepthFactor    float64 `yaml:"show_depth_factor"`    // depth duration = show * this
	DeployDepth        float64 `yaml:"deploy_depth"`         // depth value the show starts from
	HideDuration       float64 `yaml:"hide_duration"`        // spread/depth collapse duration
	HideSizeFactor     float64 `yaml:"hide_size_factor"`     // size collapse = hide * this
	HideSpread         float64 `yaml:"hide_spread"`          // spread target while hiding
	HideDepth          float64 `yaml:"hide_depth"`           // depth target while hiding
	ExplodeSpread      float64 `yaml:"explode_spread"`       // spread target while exploding
	ExplodeDepth       float64 `yaml:"explode_depth"`        // depth target while exploding
	ExplodeDesktop     float64 `yaml:"explode_desktop"`      // explode duration on desktop
	ExplodeTouch       float64 `yaml:"explode_touch"`        // explode duration on touch devices
	ReformBaseDesktop  float64 `yaml:"reform_base_desktop"`  // reform base duration on desktop
	ReformBaseTouch    float64 `yaml:"reform_base_touch"`    // reform base duration on touch devices
	ReformSizeFactor   float64 `yaml:"reform_size_factor"`   // size reform = base * this
	ReformSpreadFactor float64 `yaml:"reform_spread_factor"` // spread reform = base * this
	ReformDepthFactor  float64 `yaml:"reform_depth_factor"`  // depth reform = base * this
	ReformDelay        float64 `yaml:"reform_delay"`         // seconds between release and reform (0 = immediate)
	SpatialExit        float64 `yaml:"spatial_exit"`         // spatial exit duration
	SpatialFrequency   float64 `yaml:"spatial_frequency"`    // spring angular frequency for the spatial pointer
	SpatialDamping     float64 `yaml:"spatial_damping"`      // spring damping ratio for the spatial pointer
}

// LayoutConfig holds responsive layout parameters.
type LayoutConfig struct {
	MobileBreakpoint    float64         `yaml:"mobile_breakpoint"`     // Width at or below which the device is mobile
	PortraitBaseHeight  float64         `yaml:"portrait_base_height"`  // Reference height for portrait magnification
	PortraitMaxFactor   float64         `yaml:"portrait_max_factor"`   // Upper bound on portrait magnification
	LandscapeBaseHeight float64         `yaml:"landscape_base_height"` // Reference height for landscape magnification
	Offsets             map[int]float64 `yaml:"offsets"`               // Per-image horizontal offsets (mobile only)
}

// InputConfig holds pointer input parameters.
type InputConfig struct {
	Touch     string `yaml:"touch"`      // "auto", "on" or "off"
	QueueSize int    `yaml:"queue_size"` // Capacity of the interaction event queue
}

// ParamsConfig holds the baseline spread/depth/size values.
type ParamsConfig struct {
	Spread float64 `yaml:"spread"`
	Depth  float64 `yaml:"depth"`
	Size   float64 `yaml:"size"`
}

// TelemetryConfig holds frame telemetry parameters.
type TelemetryConfig struct {
	Every int `yaml:"every"` // Record every N frames (1 = every frame)
}

// GalleryConfig lists the images the shell cycles through.
type GalleryConfig struct {
	Images []GalleryImage `yaml:"images"`
}

// GalleryImage is one entry of the gallery catalog.
type GalleryImage struct {
	Source string `yaml:"source"`
	Name   string `yaml:"name"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FOVRadians float64 // Camera.FOV in radians
	FrameDT    float64 // 1 / Screen.TargetFPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the engine cannot run with.
func (c *Config) validate() error {
	if c.Touch.Size <= 0 {
		return fmt.Errorf("touch.size must be positive, got %d", c.Touch.Size)
	}
	if c.Touch.Decay <= 0 || c.Touch.Decay >= 1 {
		return fmt.Errorf("touch.decay must be in (0, 1), got %g", c.Touch.Decay)
	}
	if c.Touch.Epsilon <= 0 {
		return fmt.Errorf("touch.epsilon must be positive, got %g", c.Touch.Epsilon)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera.fov must be in (0, 180), got %g", c.Camera.FOV)
	}
	switch c.Input.Touch {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("input.touch must be auto, on or off, got %q", c.Input.Touch)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FOVRadians = c.Camera.FOV * math.Pi / 180
	if c.Screen.TargetFPS > 0 {
		c.Derived.FrameDT = 1 / float64(c.Screen.TargetFPS)
	} else {
		c.Derived.FrameDT = 1.0 / 60.0
	}
	if c.Input.QueueSize <= 0 {
		c.Input.QueueSize = 64
	}
	if c.Telemetry.Every <= 0 {
		c.Telemetry.Every = 1
	}
	if c.Layout.Offsets == nil {
		c.Layout.Offsets = map[int]float64{}
	}
}

// Offset returns the horizontal layout offset for the image at index, zero when absent.
func (c *Config) Offset(index int) float64 {
	return c.Layout.Offsets[index]
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
