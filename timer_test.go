package c8vm_test

import (
	"testing"
	"time"

	"github.com/guslan/c8vm"
)

func TestClockAdvance(t *testing.T) {
	clock := c8vm.NewClock(500)

	cycles, ticks := clock.Advance(time.Second)
	if cycles != 500 || ticks != 60 {
		t.Fatalf("Advance(1s) = %d cycles, %d ticks, expected 500, 60", cycles, ticks)
	}

	clock.Reset()
	var totalCycles, totalTicks int
	for i := 0; i < 100; i++ {
		c, tk := clock.Advance(time.Millisecond)
		totalCycles += c
		totalTicks += tk
	}
	if totalCycles != 50 || totalTicks != 6 {
		t.Fatalf("100 x Advance(1ms) = %d cycles, %d ticks, expected 50, 6", totalCycles, totalTicks)
	}
}

func TestClockSpeedDoesNotChangeTheTimerRate(t *testing.T) {
	for _, speed := range []uint{5, 60, 700} {
		clock := c8vm.NewClock(speed)

		_, ticks := clock.Advance(500 * time.Millisecond)
		if ticks != 30 {
			t.Fatalf("%d Hz: Advance(500ms) = %d ticks, expected 30", speed, ticks)
		}
	}
}

func TestClockIgnoresNegativeAndHugeGaps(t *testing.T) {
	clock := c8vm.NewClock(100)

	if cycles, ticks := clock.Advance(-time.Second); cycles != 0 || ticks != 0 {
		t.Fatalf("Advance(-1s) = %d, %d", cycles, ticks)
	}
	if cycles, ticks := clock.Advance(time.Hour); cycles != 100 || ticks != 60 {
		t.Fatalf("Advance(1h) = %d, %d, expected at most a second worth", cycles, ticks)
	}
}

func TestTickTimers(t *testing.T) {
	cpu := c8vm.NewCpu(c8vm.NewMemory(), c8vm.DummyDisplay{}, c8vm.NewInMemoryKeyboard(), c8vm.NewDummyBuzzer())
	cpu.Dt = 1
	cpu.St = 3

	cpu.TickTimers()
	cpu.TickTimers()

	if cpu.Dt != 0 || cpu.St != 1 {
		t.Fatalf("Dt = %d, St = %d, expected 0 and 1", cpu.Dt, cpu.St)
	}
}
