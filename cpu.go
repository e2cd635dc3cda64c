package c8vm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Chip-8 CPU
type Cpu struct {
	Memory *Memory
	// V 8-bit registers, VF doubles as the flag register
	V [16]byte
	// I 16-bit register
	I uint16
	// Delay timer register
	Dt byte
	// Sound timer register
	St byte
	// Program counter
	Pc uint16
	// Return addresses
	Stack Stack

	program []byte

	cycles         uint
	frames         uint
	unknownOpCodes uint

	speedInHz      uint
	cyclesPerFrame uint
	clock          *Clock

	screen        Screen
	isScreenDirty bool

	Display  Display
	Keyboard Keyboard
	Buzzer   Buzzer

	logger *slog.Logger
	random func() (byte, error)

	isBooted       bool
	isPaused       bool
	isBuzzing      bool
	waitingForKey  bool
	keyDstRegister byte
	lastError      error

	// Hooks that run before every frame
	beforeFrameHooks []Hook
	// Hooks that run before every cycle
	beforeCycleHooks []Hook
	// Hooks that run after every cycle
	afterCycleHooks []Hook
	// Hooks that run after every frame
	afterFrameHooks []Hook
	// Hooks that run after an error
	errorHooks []Hook
}

func NewCpu(memory *Memory, display Display, keyboard Keyboard, buzzer Buzzer, configs ...ConfigCb) *Cpu {
	config := defaultConfig()
	for _, cb := range configs {
		cb(config)
	}

	speed := clampSpeed(config.SpeedInHz)

	cpu := &Cpu{
		Memory: memory,
		Pc:     startOfProgram,

		speedInHz:      speed,
		cyclesPerFrame: config.CyclesPerFrame,
		clock:          NewClock(speed),

		Display:  display,
		Keyboard: keyboard,
		Buzzer:   buzzer,

		logger: config.Logger,
		random: config.Random,

		beforeFrameHooks: make([]Hook, 0),
		beforeCycleHooks: make([]Hook, 0),
		afterCycleHooks:  make([]Hook, 0),
		afterFrameHooks:  make([]Hook, 0),
		errorHooks:       make([]Hook, 0),
	}

	if cpu.logger == nil {
		cpu.logger = slog.Default()
	}
	if cpu.random == nil {
		cpu.random = cryptoRandomByte
	}

	return cpu
}

// New creates a CPU with its own memory and loads the program into it
func New(program []byte, display Display, keyboard Keyboard, buzzer Buzzer, configs ...ConfigCb) (*Cpu, error) {
	cpu := NewCpu(NewMemory(), display, keyboard, buzzer, configs...)
	if err := cpu.LoadProgram(program); err != nil {
		return nil, err
	}

	return cpu, nil
}

func (cpu Cpu) IsRunning() bool {
	return !cpu.isPaused
}

func (cpu Cpu) IsWaitingForKey() bool {
	return cpu.waitingForKey
}

func (cpu Cpu) IsSoundTimerActive() bool {
	return cpu.St > 0
}

func (cpu Cpu) IsDelayTimerActive() bool {
	return cpu.Dt > 0
}

func (cpu Cpu) SpeedInHz() uint {
	return cpu.speedInHz
}

// SetSpeedInHz changes the number of instructions per second, clamped to [MinSpeed, MaxSpeed]
func (cpu *Cpu) SetSpeedInHz(inHz uint) {
	cpu.speedInHz = clampSpeed(inHz)
	cpu.clock.SetSpeed(cpu.speedInHz)
}

func (cpu Cpu) CyclesPerFrame() uint {
	return cpu.cyclesPerFrame
}

// SetCyclesPerFrame fixes the instructions run every frame, 0 goes back to SpeedInHz
func (cpu *Cpu) SetCyclesPerFrame(n uint) {
	cpu.cyclesPerFrame = n
}

func (cpu Cpu) Cycles() uint {
	return cpu.cycles
}

func (cpu Cpu) Frames() uint {
	return cpu.frames
}

// UnknownOpCodes counts the instruction words that were skipped because they did not decode
func (cpu Cpu) UnknownOpCodes() uint {
	return cpu.unknownOpCodes
}

// Err returns the error that halted the CPU, if any
func (cpu Cpu) Err() error {
	return cpu.lastError
}

// Screen returns a snapshot of the framebuffer
func (cpu *Cpu) Screen() Screen {
	return cpu.screen
}

func (cpu *Cpu) Start() {
	cpu.isPaused = false
}

func (cpu *Cpu) Stop() {
	cpu.isPaused = true
}

// Boot initializes all the components
// If the CPU was already booted, this method is a noop
func (cpu *Cpu) Boot() error {
	if cpu.isBooted {
		return nil
	}

	if err := cpu.Display.Boot(); err != nil {
		return fmt.Errorf("booting display: %w", err)
	}

	if err := cpu.Keyboard.Boot(); err != nil {
		return fmt.Errorf("booting keyboard: %w", err)
	}

	if err := cpu.Buzzer.Boot(); err != nil {
		return fmt.Errorf("booting buzzer: %w", err)
	}

	cpu.isBooted = true

	return nil
}

// LoadProgram loads the program into memory and resets the CPU to the start-of-program address
func (cpu *Cpu) LoadProgram(program []byte) error {
	if err := cpu.Memory.LoadProgram(program); err != nil {
		return err
	}

	cpu.program = append(cpu.program[:0], program...)
	cpu.resetState()

	return nil
}

// Reset restarts the loaded program from a fresh memory image
func (cpu *Cpu) Reset() {
	// The program already fit once
	_ = cpu.Memory.LoadProgram(cpu.program)
	cpu.resetState()
}

func (cpu *Cpu) resetState() {
	cpu.V = [16]byte{}
	cpu.I = 0
	cpu.Dt = 0
	cpu.St = 0
	cpu.Pc = startOfProgram
	cpu.Stack.Clear()

	cpu.frames = 0
	cpu.cycles = 0
	cpu.unknownOpCodes = 0
	cpu.clock.Reset()

	cpu.waitingForKey = false
	cpu.keyDstRegister = 0
	cpu.lastError = nil

	cpu.clearScreen()
	cpu.stopBuzzer()
}

// Loop runs a frame every 1/60s until the context is done or the CPU halts
func (cpu *Cpu) Loop(ctx context.Context) error {
	if !cpu.isBooted {
		return ErrCpuIsNotBooted
	}

	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil

		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now

			if err := cpu.RunFrame(elapsed); err != nil {
				return err
			}
		}
	}
}

// RunFrame advances the CPU by the time elapsed since the previous frame.
// It runs the instructions that are due, ticks the timers once per elapsed 1/60s
// and renders the screen if it changed.
func (cpu *Cpu) RunFrame(elapsed time.Duration) error {
	if !cpu.isBooted {
		return ErrCpuIsNotBooted
	}

	if cpu.lastError != nil {
		return fmt.Errorf("%w: %w", ErrCpuHalted, cpu.lastError)
	}

	// a paused CPU runs no frame, so neither frame hook fires
	if cpu.isPaused {
		return nil
	}

	cpu.runBeforeFrameHooks()

	cycles, ticks := cpu.clock.Advance(elapsed)
	if cpu.cyclesPerFrame > 0 {
		cycles = int(cpu.cyclesPerFrame)
	}

	for i := 0; i < cycles; i++ {
		if cpu.waitingForKey && !cpu.pollKey() {
			break
		}

		if err := cpu.runNextCycle(); err != nil {
			return err
		}
	}

	for i := 0; i < ticks; i++ {
		cpu.TickTimers()
	}
	cpu.updateBuzzer()

	if err := cpu.render(); err != nil {
		return cpu.halt(err)
	}

	cpu.frames++
	cpu.runAfterFrameHooks()

	return nil
}

// LoopOnce runs a single instruction bypassing the pause state.
// Timers are not ticked.
func (cpu *Cpu) LoopOnce() error {
	if !cpu.isBooted {
		return ErrCpuIsNotBooted
	}

	if cpu.lastError != nil {
		return fmt.Errorf("%w: %w", ErrCpuHalted, cpu.lastError)
	}

	if cpu.waitingForKey && !cpu.pollKey() {
		return nil
	}

	if err := cpu.runNextCycle(); err != nil {
		return err
	}

	if err := cpu.render(); err != nil {
		return cpu.halt(err)
	}

	return nil
}

// CurrentOpCode returns the instruction word at PC, 0 when PC is outside of memory
func (cpu *Cpu) CurrentOpCode() uint16 {
	opCode, _ := cpu.Memory.ReadWord(cpu.Pc)

	return opCode
}

func (cpu *Cpu) runNextCycle() error {
	cpu.runBeforeCycleHooks()

	if err := cpu.executeNextInstruction(); err != nil {
		return cpu.halt(err)
	}

	cpu.cycles++
	cpu.runAfterCycleHooks()

	return nil
}

func (cpu *Cpu) executeNextInstruction() error {
	pc := cpu.Pc
	opCode, err := cpu.Memory.ReadWord(pc)
	if err != nil {
		return fmt.Errorf("fetching at PC=0x%03X: %w", pc, err)
	}
	cpu.Pc += 2

	if cpu.logger.Enabled(context.Background(), slog.LevelDebug) {
		cpu.logger.Debug("Executing",
			slog.String("pc", fmt.Sprintf("%03X", pc)),
			slog.String("opcode", fmt.Sprintf("%04X", opCode)),
			slog.String("instruction", Disassemble(opCode)))
	}

	err = cpu.executeInstruction(Decode(opCode))

	var unknown ErrOpCodeUnknown
	if errors.As(err, &unknown) {
		unknown.Pc = pc
		cpu.unknownOpCodes++
		cpu.logger.Warn("Skipping unknown opcode", slog.Any("error", unknown))
		return nil
	}

	if err != nil {
		return fmt.Errorf("executing %04X at PC=0x%03X: %w", opCode, pc, err)
	}

	return nil
}

// halt puts the CPU in its terminal state, only Reset or LoadProgram leave it
func (cpu *Cpu) halt(err error) error {
	cpu.lastError = err
	cpu.stopBuzzer()
	cpu.logger.Error("CPU halted", slog.Any("error", err))
	cpu.runErrorHooks()

	return err
}

func (cpu *Cpu) pollKey() bool {
	k, pressed := cpu.Keyboard.GetPressed()
	if !pressed {
		return false
	}

	cpu.V[cpu.keyDstRegister] = k
	cpu.waitingForKey = false

	return true
}

func (cpu *Cpu) render() error {
	if !cpu.isScreenDirty {
		return nil
	}

	cpu.isScreenDirty = false

	return cpu.Display.Render(cpu.screen)
}

func (cpu *Cpu) clearScreen() {
	cpu.screen.Clear()
	cpu.isScreenDirty = true
}

func (cpu *Cpu) updateBuzzer() {
	switch {
	case cpu.St > 0 && !cpu.isBuzzing:
		cpu.isBuzzing = true
		cpu.Buzzer.Play()
	case cpu.St == 0 && cpu.isBuzzing:
		cpu.stopBuzzer()
	}
}

func (cpu *Cpu) stopBuzzer() {
	if cpu.isBuzzing {
		cpu.isBuzzing = false
		cpu.Buzzer.Stop()
	}
}

func bool2byte(b bool) byte {
	if b {
		return 1
	}

	return 0
}
