// Package config provides YAML-based device configuration for the
// platformer: screen, timing, physics and brightness tunables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tilt-platformer/internal/core"
	"github.com/vovakirdan/tilt-platformer/internal/game"
	"github.com/vovakirdan/tilt-platformer/internal/physics"
	"github.com/vovakirdan/tilt-platformer/internal/render"
)

// Config contains all configuration for a device.
type Config struct {
	Display     DisplayConfig     `yaml:"display"`
	Timing      TimingConfig      `yaml:"timing"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Brightness  BrightnessConfig  `yaml:"brightness"`
	Multiplayer MultiplayerConfig `yaml:"multiplayer"`
}

// DisplayConfig defines the LED matrix.
type DisplayConfig struct {
	Size          int `yaml:"size"`            // side length in pixels
	ScrollSpeedMS int `yaml:"scroll_speed_ms"` // per character of a banner
}

// TimingConfig defines the tick loop.
type TimingConfig struct {
	TickRate   int `yaml:"tick_rate"`   // ticks per second
	FlashCount int `yaml:"flash_count"` // death screen ticks before a retry
}

// PhysicsConfig defines movement constants.
type PhysicsConfig struct {
	JumpImpulse   int `yaml:"jump_impulse"`
	TiltThreshold int `yaml:"tilt_threshold"`
}

// BrightnessConfig defines LED levels (0-255).
type BrightnessConfig struct {
	Player int `yaml:"player"`
	Solid  int `yaml:"solid"`
	Flag   int `yaml:"flag"`
	Coin   int `yaml:"coin"`
	Flash  int `yaml:"flash"`
}

// MultiplayerConfig defines race behavior.
type MultiplayerConfig struct {
	WaitTimeoutMS int `yaml:"wait_timeout_ms"` // 0 = wait for the partner forever
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Display.Size < 1:
		return errors.New("config: display.size must be at least 1")
	case c.Display.ScrollSpeedMS < 0:
		return errors.New("config: display.scroll_speed_ms must not be negative")
	case c.Timing.TickRate < 1:
		return errors.New("config: timing.tick_rate must be positive")
	case c.Timing.FlashCount < 1:
		return errors.New("config: timing.flash_count must be positive")
	case c.Physics.JumpImpulse < 1:
		return errors.New("config: physics.jump_impulse must be positive")
	case c.Physics.TiltThreshold < 0 || c.Physics.TiltThreshold >= core.TiltMax:
		return fmt.Errorf("config: physics.tilt_threshold must be in [0, %d)", core.TiltMax)
	case c.Multiplayer.WaitTimeoutMS < 0:
		return errors.New("config: multiplayer.wait_timeout_ms must not be negative")
	}

	for name, v := range map[string]int{
		"player": c.Brightness.Player,
		"solid":  c.Brightness.Solid,
		"flag":   c.Brightness.Flag,
		"coin":   c.Brightness.Coin,
		"flash":  c.Brightness.Flash,
	} {
		if v < 0 || v > 255 {
			return fmt.Errorf("config: brightness.%s must be in [0, 255], got %d", name, v)
		}
	}
	return nil
}

// TickInterval returns the sleep between ticks.
func (c Config) TickInterval() time.Duration {
	if c.Timing.TickRate < 1 {
		return time.Second
	}
	return time.Second / time.Duration(c.Timing.TickRate)
}

// ScrollSpeed returns the time a banner spends on each character.
func (c Config) ScrollSpeed() time.Duration {
	return time.Duration(c.Display.ScrollSpeedMS) * time.Millisecond
}

// Settings converts the configuration into game tunables.
func (c Config) Settings() game.Settings {
	return game.Settings{
		ScreenSize:  c.Display.Size,
		TickRate:    c.TickInterval(),
		FlashCount:  c.Timing.FlashCount,
		WaitTimeout: time.Duration(c.Multiplayer.WaitTimeoutMS) * time.Millisecond,
		Physics: physics.Params{
			JumpImpulse:   c.Physics.JumpImpulse,
			TiltThreshold: c.Physics.TiltThreshold,
		},
		Palette: render.Palette{
			Player: core.Brightness(c.Brightness.Player),
			Solid:  core.Brightness(c.Brightness.Solid),
			Flag:   core.Brightness(c.Brightness.Flag),
			Coin:   core.Brightness(c.Brightness.Coin),
		},
		Flash: core.Brightness(c.Brightness.Flash),
	}
}

// Preset represents a named speed level.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
)

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case "", PresetNormal:
		return PresetNormal, nil
	case PresetEasy, PresetHard:
		return Preset(s), nil
	default:
		return "", fmt.Errorf("config: unknown preset %q (easy, normal, hard)", s)
	}
}

// ApplyPreset modifies the config based on a preset. Easy slows the tick
// loop and makes tilt more sensitive; hard does the opposite.
func ApplyPreset(cfg *Config, preset Preset) {
	switch preset {
	case PresetEasy:
		cfg.Timing.TickRate = max(cfg.Timing.TickRate*2/3, 1)
		cfg.Physics.TiltThreshold = cfg.Physics.TiltThreshold * 2 / 3
	case PresetHard:
		cfg.Timing.TickRate = cfg.Timing.TickRate * 3 / 2
		cfg.Physics.TiltThreshold = min(cfg.Physics.TiltThreshold*3/2, core.TiltMax-1)
	}
}
