package models

import "time"

// Chooser names the policy used when several meetings are active at once.
type Chooser string

const (
	ChooserFirst  Chooser = "first"  // Take the first candidate in source order
	ChooserPrompt Chooser = "prompt" // Ask on the terminal
	ChooserGUI    Chooser = "gui"    // Ask in a window
)

// Buffer widens or narrows the window in which a meeting counts as in session.
type Buffer struct {
	Start time.Duration // how early before the start a meeting is joinable
	End   time.Duration // remaining time before the end required to join
}

// Config holds application configuration
type Config struct {
	Sources     []string `mapstructure:"source"`
	BufferStart int      `mapstructure:"buffer_start"` // seconds
	BufferEnd   int      `mapstructure:"buffer_end"`   // seconds
	Chooser     Chooser  `mapstructure:"chooser"`
	Chime       bool     `mapstructure:"chime"`
	DryRun      bool     `mapstructure:"dry_run"`
	LogLevel    string   `mapstructure:"log_level"`
	LogFormat   string   `mapstructure:"log_format"`
}

// NeedsConfiguration returns true if no schedule source is configured
func (c *Config) NeedsConfiguration() bool {
	return len(c.Sources) == 0
}

// Buffer returns the configured buffers as durations
func (c *Config) Buffer() Buffer {
	return Buffer{
		Start: time.Duration(c.BufferStart) * time.Second,
		End:   time.Duration(c.BufferEnd) * time.Second,
	}
}

// ValidChooser reports whether the chooser is one of the known policies
func (c *Config) ValidChooser() bool {
	switch c.Chooser {
	case ChooserFirst, ChooserPrompt, ChooserGUI:
		return true
	}
	return false
}
