package emu

import "github.com/xXJSONDeruloXx/simple-gb-emu/internal/logger"

// Config contains settings that affect emulation behavior.
type Config struct {
	Trace      bool // log CPU instructions
	BaseCycles bool // charge each instruction its nominal cost instead of a flat 4 cycles
	LogEntries int  // capacity of the machine log
}

// Defaults returns the configuration used when no flags are given.
func Defaults() Config {
	return Config{
		LogEntries: logger.DefaultMaxEntries,
	}
}
