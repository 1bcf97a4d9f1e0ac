// Package config provides configuration for the DCE/RPC client core.
package config

import "time"

// Defaults mirror the constants fixed by the wire protocol (§5 of the spec):
// 32768-byte fragments proposed at BIND, and a 128 KiB scratch buffer per PDU.
const (
	DefaultMaxFrag      = 32768
	DefaultScratchBytes = 128 * 1024
	DefaultDialTimeout  = 30 * time.Second
)

// Config holds the tunables around the RPC core. The core never reads
// environment variables or flags; callers pass a *Config to
// dcerpc.NewCtx, whose Bind and CallAsync read the scratch-buffer and
// fragment sizes from it.
type Config struct {
	debug    bool
	noColors bool

	dialTimeout  time.Duration
	maxXmitFrag  uint16
	maxRecvFrag  uint16
	scratchBytes int
}

// New creates a Config with protocol defaults, overridden by the given
// debug flag. A nil noColors leaves colors enabled.
func New(debug bool, noColors *bool) *Config {
	cfg := &Config{
		debug:        debug,
		dialTimeout:  DefaultDialTimeout,
		maxXmitFrag:  DefaultMaxFrag,
		maxRecvFrag:  DefaultMaxFrag,
		scratchBytes: DefaultScratchBytes,
	}
	if noColors != nil {
		cfg.noColors = *noColors
	}
	return cfg
}

func (c *Config) Debug() bool      { return c.debug }
func (c *Config) NoColors() bool   { return c.noColors }
func (c *Config) SetDebug(v bool)  { c.debug = v }
func (c *Config) SetNoColors(v bool) { c.noColors = v }

func (c *Config) DialTimeout() time.Duration { return c.dialTimeout }
func (c *Config) SetDialTimeout(d time.Duration) { c.dialTimeout = d }

func (c *Config) MaxXmitFrag() uint16 { return c.maxXmitFrag }
func (c *Config) MaxRecvFrag() uint16 { return c.maxRecvFrag }

func (c *Config) ScratchBytes() int { return c.scratchBytes }
func (c *Config) SetScratchBytes(n int) {
	if n > 0 {
		c.scratchBytes = n
	}
}
