package config

import (
	_ "embed"
)

//go:embed defaults/platformer.yaml
var defaultYAML []byte

// DefaultConfig returns the default device configuration.
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			Size:          5,
			ScrollSpeedMS: 80,
		},
		Timing: TimingConfig{
			TickRate:   10,
			FlashCount: 10,
		},
		Physics: PhysicsConfig{
			JumpImpulse:   3,
			TiltThreshold: 300,
		},
		Brightness: BrightnessConfig{
			Player: 255,
			Solid:  16,
			Flag:   48,
			Coin:   96,
			Flash:  255,
		},
	}
}
