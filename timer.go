package c8vm

import "time"

const (
	TimerFrequency = 60
	// FrameDuration is the time between two timer ticks, hosts usually render at the same rate
	FrameDuration = time.Second / TimerFrequency

	// Longer gaps between frames, like after the host was suspended, are not caught up on
	maxElapsedPerFrame = time.Second
)

// Clock turns the time elapsed on the host into instruction cycles and timer ticks.
// Both are accumulated separately so the instruction rate never changes the timer rate.
type Clock struct {
	cycleStep time.Duration
	cycleAcc  time.Duration
	timerAcc  time.Duration
}

func NewClock(speedInHz uint) *Clock {
	c := &Clock{}
	c.SetSpeed(speedInHz)

	return c
}

func (c *Clock) SetSpeed(inHz uint) {
	c.cycleStep = time.Second / time.Duration(max(inHz, 1))
}

// Advance adds the elapsed time and returns how many cycles and timer ticks are due
func (c *Clock) Advance(elapsed time.Duration) (cycles, ticks int) {
	elapsed = min(max(elapsed, 0), maxElapsedPerFrame)

	c.cycleAcc += elapsed
	cycles = int(c.cycleAcc / c.cycleStep)
	c.cycleAcc -= time.Duration(cycles) * c.cycleStep

	c.timerAcc += elapsed
	ticks = int(c.timerAcc / FrameDuration)
	c.timerAcc -= time.Duration(ticks) * FrameDuration

	return cycles, ticks
}

func (c *Clock) Reset() {
	c.cycleAcc = 0
	c.timerAcc = 0
}

// TickTimers decrements the delay and sound timers, it is called 60 times per second
func (cpu *Cpu) TickTimers() {
	if cpu.Dt > 0 {
		cpu.Dt--
	}
	if cpu.St > 0 {
		cpu.St--
	}
}
