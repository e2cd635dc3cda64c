package c8vm

import (
	"crypto/rand"
	"log/slog"
)

const (
	DefaultSpeed          uint = 500
	MaxSpeed              uint = 700
	MinSpeed              uint = 5
	DefaultCyclesPerFrame uint = 0
)

// Config of the CPU
type Config struct {
	// SpeedInHz is the number of instructions run per second
	SpeedInHz uint
	// CyclesPerFrame fixes the number of instructions run every frame.
	// When 0 the number is derived from SpeedInHz and the time elapsed since the last frame.
	CyclesPerFrame uint
	Logger         *slog.Logger
	// Random is the byte source of the RND instruction
	Random func() (byte, error)
}

type ConfigCb func(config *Config)

func defaultConfig() *Config {
	return &Config{
		SpeedInHz:      DefaultSpeed,
		CyclesPerFrame: DefaultCyclesPerFrame,
		Logger:         slog.Default(),
		Random:         cryptoRandomByte,
	}
}

func WithSpeed(inHz uint) ConfigCb {
	return func(config *Config) {
		config.SpeedInHz = inHz
	}
}

func WithCyclesPerFrame(n uint) ConfigCb {
	return func(config *Config) {
		config.CyclesPerFrame = n
	}
}

func WithLogger(logger *slog.Logger) ConfigCb {
	return func(config *Config) {
		config.Logger = logger
	}
}

func WithRandom(random func() (byte, error)) ConfigCb {
	return func(config *Config) {
		config.Random = random
	}
}

func cryptoRandomByte() (byte, error) {
	buff := [1]byte{}
	if _, err := rand.Read(buff[:]); err != nil {
		return 0, err
	}

	return buff[0], nil
}

func clampSpeed(inHz uint) uint {
	return min(max(inHz, MinSpeed), MaxSpeed)
}
