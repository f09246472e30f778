// Package config handles renderer configuration loading and management.
package config

// Config holds all renderer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window" toml:"window"`
	Render   RenderConfig   `yaml:"render" toml:"render"`
	Camera   CameraConfig   `yaml:"camera" toml:"camera"`
	Rotation RotationConfig `yaml:"rotation" toml:"rotation"`
	Style    StyleConfig    `yaml:"style" toml:"style"`
	Assets   AssetsConfig   `yaml:"assets" toml:"assets"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// Backends understood by render.backend.
const (
	BackendSDL      = "sdl"
	BackendGL       = "gl"
	BackendEbiten   = "ebiten"
	BackendHeadless = "headless"
)

// Capture formats understood by render.capture_format.
const (
	CapturePNG  = "png"
	CaptureWebP = "webp"
)

// HeadlessFrames bounds the headless backend when max_frames is unset.
const HeadlessFrames = 120

// Vec3 is a point or offset in config files.
type Vec3 struct {
	X float32 `yaml:"x" toml:"x"`
	Y float32 `yaml:"y" toml:"y"`
	Z float32 `yaml:"z" toml:"z"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title" toml:"title"`
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	Borderless bool   `yaml:"borderless" toml:"borderless"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
}

// RenderConfig selects the backend and frame pacing.
type RenderConfig struct {
	Backend   string `yaml:"backend" toml:"backend"`
	FPS       int    `yaml:"fps" toml:"fps"` // 0 = unpaced
	DepthSort bool   `yaml:"depth_sort" toml:"depth_sort"`
	MaxFrames uint64 `yaml:"max_frames" toml:"max_frames"` // 0 = until quit

	CaptureDir    string `yaml:"capture_dir" toml:"capture_dir"`
	CaptureEvery  int    `yaml:"capture_every" toml:"capture_every"`
	CaptureFormat string `yaml:"capture_format" toml:"capture_format"`
}

// CameraConfig holds the perspective projection.
type CameraConfig struct {
	Near     float32 `yaml:"near" toml:"near"`
	Far      float32 `yaml:"far" toml:"far"`
	FOV      float32 `yaml:"fov" toml:"fov"` // degrees
	Position Vec3    `yaml:"position" toml:"position"`
}

// RotationConfig holds the per-frame motion of the mesh.
type RotationConfig struct {
	Step         float32  `yaml:"step" toml:"step"`
	InitialAngle float32  `yaml:"initial_angle" toml:"initial_angle"`
	Axes         []string `yaml:"axes" toml:"axes"`
	Offset       Vec3     `yaml:"offset" toml:"offset"`
}

// StyleConfig holds triangle colours as "#rrggbb" or "#rrggbbaa".
type StyleConfig struct {
	Outline string   `yaml:"outline" toml:"outline"`
	Vertex  []string `yaml:"vertex" toml:"vertex"`
	Alpha   float32  `yaml:"alpha" toml:"alpha"`
	Clear   string   `yaml:"clear" toml:"clear"`
}

// AssetsConfig holds input file paths.
type AssetsConfig struct {
	Mesh       string `yaml:"mesh" toml:"mesh"`
	Background string `yaml:"background" toml:"background"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	LogFile    string `yaml:"log_file" toml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Melencholia 1.0",
			Width:      640,
			Height:     640,
			Borderless: true,
			VSync:      true,
		},
		Render: RenderConfig{
			Backend:       BackendSDL,
			FPS:           60,
			CaptureEvery:  1,
			CaptureFormat: CapturePNG,
		},
		Camera: CameraConfig{
			Near: 0.1,
			Far:  1000,
			FOV:  90,
		},
		Rotation: RotationConfig{
			Step:         0.04,
			InitialAngle: 2.0,
			Axes:         []string{"y"},
			Offset:       Vec3{Z: 3},
		},
		Style: StyleConfig{
			Outline: "#000000",
			Vertex:  []string{"#ff0000", "#00ff00", "#0000ff"},
			Alpha:   0.8,
			Clear:   "#000000",
		},
		Assets: AssetsConfig{
			Mesh:       "./res/durer-solid.obj",
			Background: "./res/hare.png",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
