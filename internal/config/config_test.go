package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Width != 640 || cfg.Window.Height != 640 {
		t.Errorf("expected 640x640, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Title != "Melencholia 1.0" {
		t.Errorf("unexpected title %q", cfg.Window.Title)
	}
	if !cfg.Window.Borderless {
		t.Error("expected borderless window by default")
	}

	// Test motion defaults
	if cfg.Rotation.Step != 0.04 {
		t.Errorf("expected step 0.04, got %f", cfg.Rotation.Step)
	}
	if cfg.Rotation.InitialAngle != 2.0 {
		t.Errorf("expected initial angle 2.0, got %f", cfg.Rotation.InitialAngle)
	}
	if cfg.Rotation.Offset != (Vec3{Z: 3}) {
		t.Errorf("expected offset (0,0,3), got %+v", cfg.Rotation.Offset)
	}

	// Test camera defaults
	if cfg.Camera.Near != 0.1 || cfg.Camera.Far != 1000 || cfg.Camera.FOV != 90 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 800
  height: 600
  borderless: false

render:
  backend: headless
  fps: 30
  depth_sort: true

rotation:
  step: 0.1
  axes: [x, z]
  offset: {x: 0, y: 0, z: 5}

style:
  vertex: ["#ffffff", "#808080", "#000000"]
  alpha: 0.5

logging:
  level: "debug"
  log_file: "render.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Borderless {
		t.Error("expected borderless to be false")
	}
	if cfg.Render.Backend != BackendHeadless {
		t.Errorf("expected headless backend, got %s", cfg.Render.Backend)
	}
	if !cfg.Render.DepthSort {
		t.Error("expected depth sort")
	}
	if got := strings.Join(cfg.Rotation.Axes, ","); got != "x,z" {
		t.Errorf("expected axes x,z, got %s", got)
	}
	if cfg.Rotation.Offset.Z != 5 {
		t.Errorf("expected offset z 5, got %f", cfg.Rotation.Offset.Z)
	}
	if cfg.Style.Alpha != 0.5 {
		t.Errorf("expected alpha 0.5, got %f", cfg.Style.Alpha)
	}
	if cfg.Logging.LogFile != "render.log" {
		t.Errorf("expected log file 'render.log', got %s", cfg.Logging.LogFile)
	}

	// Untouched sections keep defaults
	if cfg.Camera.FOV != 90 {
		t.Errorf("expected default fov, got %f", cfg.Camera.FOV)
	}
	if cfg.Assets.Background != "./res/hare.png" {
		t.Errorf("expected default background, got %s", cfg.Assets.Background)
	}
}

func TestLoadFromTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
[window]
width = 320
height = 240

[camera]
fov = 60.0
far = 50.0

[assets]
mesh = "cube.obj"
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 320 || cfg.Window.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Camera.FOV != 60 || cfg.Camera.Far != 50 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}
	if cfg.Camera.Near != 0.1 {
		t.Errorf("expected default near, got %f", cfg.Camera.Near)
	}
	if cfg.Assets.Mesh != "cube.obj" {
		t.Errorf("expected mesh cube.obj, got %s", cfg.Assets.Mesh)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]string{
		"invalid.yaml": "window:\n  width: not a number\n  invalid syntax here\n",
		"invalid.toml": "[window\nwidth = \n",
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(tmpDir, name)
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid config, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"negative height", func(c *Config) { c.Window.Height = -1 }, "window size"},
		{"unknown backend", func(c *Config) { c.Render.Backend = "vulkan" }, "render backend"},
		{"negative fps", func(c *Config) { c.Render.FPS = -1 }, "fps"},
		{"capture every", func(c *Config) { c.Render.CaptureEvery = 0 }, "capture_every"},
		{"capture format", func(c *Config) { c.Render.CaptureFormat = "gif" }, "capture format"},
		{"near after far", func(c *Config) { c.Camera.Near = 10; c.Camera.Far = 5 }, "less than far"},
		{"zero near", func(c *Config) { c.Camera.Near = 0 }, "near"},
		{"fov 180", func(c *Config) { c.Camera.FOV = 180 }, "fov"},
		{"unknown axis", func(c *Config) { c.Rotation.Axes = []string{"w"} }, "rotation axis"},
		{"alpha above one", func(c *Config) { c.Style.Alpha = 1.5 }, "alpha"},
		{"two vertex colours", func(c *Config) { c.Style.Vertex = c.Style.Vertex[:2] }, "vertex colours"},
		{"bad colour", func(c *Config) { c.Style.Outline = "black" }, "colour"},
		{"no mesh", func(c *Config) { c.Assets.Mesh = "" }, "mesh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Render.Backend = "nope"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"window size", "render backend"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#ff0000", color.NRGBA{R: 255, A: 255}, false},
		{"00ff00", color.NRGBA{G: 255, A: 255}, false},
		{"#0000ff80", color.NRGBA{B: 255, A: 128}, false},
		{"#fff", color.NRGBA{}, true},
		{"#gg0000", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStyleColors(t *testing.T) {
	outline, vertex, clear, err := Default().Style.Colors()
	if err != nil {
		t.Fatalf("Colors: %v", err)
	}
	if outline != (color.NRGBA{A: 255}) || clear != (color.NRGBA{A: 255}) {
		t.Errorf("expected opaque black, got %v %v", outline, clear)
	}
	want := [3]color.NRGBA{{R: 255, A: 255}, {G: 255, A: 255}, {B: 255, A: 255}}
	if vertex != want {
		t.Errorf("expected RGB vertex colours, got %v", vertex)
	}
}

func TestSaveTo(t *testing.T) {
	for _, name := range []string{"out/config.yaml", "out/config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := Default()
			cfg.Window.Width = 1024
			cfg.Rotation.Axes = []string{"z"}
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo: %v", err)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if loaded.Window.Width != 1024 {
				t.Errorf("expected width 1024, got %d", loaded.Window.Width)
			}
			if len(loaded.Rotation.Axes) != 1 || loaded.Rotation.Axes[0] != "z" {
				t.Errorf("expected axes [z], got %v", loaded.Rotation.Axes)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// A TOML file in the current directory is found too
	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[window]\nwidth = 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path != "./config.toml" {
		t.Errorf("expected ./config.toml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 1024
				*flagHeight = 768
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 1024 || cfg.Window.Height != 768 {
					t.Errorf("expected 1024x768, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "backend and fps flags",
			setup: func() {
				*flagBackend = BackendEbiten
				*flagFPS = 0
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.Backend != BackendEbiten {
					t.Errorf("expected ebiten backend, got %s", cfg.Render.Backend)
				}
				if cfg.Render.FPS != 0 {
					t.Errorf("expected unpaced, got %d", cfg.Render.FPS)
				}
			},
			teardown: func() {
				*flagBackend = ""
				*flagFPS = -1
			},
		},
		{
			name: "asset flags",
			setup: func() {
				*flagMesh = "cube.glb"
				*flagBackground = "sky.tga"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Assets.Mesh != "cube.glb" || cfg.Assets.Background != "sky.tga" {
					t.Errorf("unexpected assets %+v", cfg.Assets)
				}
			},
			teardown: func() {
				*flagMesh = ""
				*flagBackground = ""
			},
		},
		{
			name: "frames and capture flags",
			setup: func() {
				*flagFrames = 10
				*flagCapture = "frames"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.MaxFrames != 10 || cfg.Render.CaptureDir != "frames" {
					t.Errorf("unexpected render %+v", cfg.Render)
				}
			},
			teardown: func() {
				*flagFrames = 0
				*flagCapture = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  fov: 200\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFile(configPath)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
