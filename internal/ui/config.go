package ui

// Config contains window and input related settings.
type Config struct {
	Title     string // window title
	Scale     int    // integer upscaling factor
	ROMsDir   string // directory to browse for ROMs
	StateDir  string // directory holding save state slots
	ShotScale int    // upscaling factor of screenshots
	FastSpeed int    // frames per update while fast-forwarding
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.ROMsDir == "" {
		c.ROMsDir = "roms"
	}
	if c.StateDir == "" {
		c.StateDir = "."
	}
	if c.ShotScale <= 0 {
		c.ShotScale = 2
	}
	if c.FastSpeed <= 1 {
		c.FastSpeed = 5
	}
}
