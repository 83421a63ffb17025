package ui

// Config contains window and input related settings.
type Config struct {
	Title     string // window title
	Scale     int    // integer upscaling factor
	StatePath string // F5/F9 save state slot
	Paused    bool   // start paused at the first instruction
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbcore"
	}
	if c.Scale <= 0 {
		c.Scale = 2
	}
	if c.StatePath == "" {
		c.StatePath = "slot0.savestate"
	}
}
