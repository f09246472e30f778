package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagBackend    = flag.String("backend", "", "Render backend: sdl, gl, ebiten or headless")
	flagFPS        = flag.Int("fps", -1, "Frame rate cap (0 = unpaced)")
	flagMesh       = flag.String("mesh", "", "Mesh file (.obj, .gltf or .glb)")
	flagBackground = flag.String("background", "", "Background image")
	flagFrames     = flag.Uint64("frames", 0, "Stop after this many frames")
	flagCapture    = flag.String("capture", "", "Directory for captured frames")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagBackend != "" {
		cfg.Render.Backend = *flagBackend
	}
	if *flagFPS >= 0 {
		cfg.Render.FPS = *flagFPS
	}
	if *flagMesh != "" {
		cfg.Assets.Mesh = *flagMesh
	}
	if *flagBackground != "" {
		cfg.Assets.Background = *flagBackground
	}
	if *flagFrames > 0 {
		cfg.Render.MaxFrames = *flagFrames
	}
	if *flagCapture != "" {
		cfg.Render.CaptureDir = *flagCapture
	}
}
