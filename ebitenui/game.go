package ebitenui

import (
	"fmt"
	"image/color"
	"log/slog"
	"unicode"

	"github.com/guslan/c8vm"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	DefaultScale = 10
	WindowTitle  = "c8vm"
)

var (
	PixelColor      = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	BackgroundColor = color.RGBA{A: 0xFF}
)

type GameConfig struct {
	Scale          int
	KeyboardLayout c8vm.KeyboardLayout
	CpuConfigs     []c8vm.ConfigCb
}
type GameConfigCb func(config *GameConfig)

// Game runs the console inside ebiten's game loop.
// Update runs a frame of the CPU, so ebiten's tick rate drives the timers.
// P pauses, Backspace resets and N runs a single cycle while paused.
type Game struct {
	*c8vm.InMemoryKeyboard
	Cpu *c8vm.Cpu

	scale  int
	keymap map[ebiten.Key]byte

	pixels [c8vm.ScreenWidth * c8vm.ScreenHeight * 4]byte
	disp   *ebiten.Image
}

func NewGame(program []byte, configs ...GameConfigCb) (*Game, error) {
	config := &GameConfig{
		Scale:          DefaultScale,
		KeyboardLayout: c8vm.DefaultKeyboardLayout,
	}
	for _, cb := range configs {
		cb(config)
	}

	g := &Game{
		InMemoryKeyboard: c8vm.NewInMemoryKeyboard(),
		scale:            max(config.Scale, 1),
		keymap:           keymap(config.KeyboardLayout),
	}
	g.fillPixels(&c8vm.Screen{})

	cpu, err := c8vm.New(program, g, g.InMemoryKeyboard, g, config.CpuConfigs...)
	if err != nil {
		return nil, err
	}
	g.Cpu = cpu

	return g, nil
}

// Run opens the window and blocks until it is closed
func (g *Game) Run() error {
	if err := g.Cpu.Boot(); err != nil {
		return err
	}

	ebiten.SetWindowSize(c8vm.ScreenWidth*g.scale, c8vm.ScreenHeight*g.scale)
	ebiten.SetWindowTitle(WindowTitle)
	ebiten.SetTPS(c8vm.TimerFrequency)

	return ebiten.RunGame(g)
}

// Boot implements c8vm.Display and c8vm.Buzzer.
func (g *Game) Boot() error {
	return nil
}

// Render implements c8vm.Display.
func (g *Game) Render(screen c8vm.Screen) error {
	g.fillPixels(&screen)

	return nil
}

// Play implements c8vm.Buzzer.
func (g *Game) Play() {
	ebiten.SetWindowTitle(WindowTitle + " *beep*")
}

// Stop implements c8vm.Buzzer.
func (g *Game) Stop() {
	ebiten.SetWindowTitle(WindowTitle)
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.handleControls()
	g.handleKeys()

	if g.Cpu.Err() != nil {
		// keep the window open showing the error until it is reset
		return nil
	}

	if err := g.Cpu.RunFrame(c8vm.FrameDuration); err != nil {
		slog.Error("CPU halted", slog.Any("error", err))
	}

	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.disp == nil {
		g.disp = ebiten.NewImage(c8vm.ScreenWidth, c8vm.ScreenHeight)
	}
	g.disp.WritePixels(g.pixels[:])

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.disp, op)

	switch {
	case g.Cpu.Err() != nil:
		drawStatus(screen, fmt.Sprintf("HALTED: %v\nBackspace resets", g.Cpu.Err()))
	case !g.Cpu.IsRunning():
		drawStatus(screen, fmt.Sprintf("PAUSED  PC %03X  %s", g.Cpu.Pc, c8vm.Disassemble(g.Cpu.CurrentOpCode())))
	}
}

func drawStatus(screen *ebiten.Image, status string) {
	ebitenutil.DebugPrintAt(screen, status, 4, 4)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return c8vm.ScreenWidth * g.scale, c8vm.ScreenHeight * g.scale
}

func (g *Game) handleControls() {
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		slog.Info("Resetting the program to the beginning")
		g.Cpu.Reset()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.Cpu.IsRunning() {
			g.Cpu.Stop()
		} else {
			g.Cpu.Start()
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyN) && !g.Cpu.IsRunning() {
		if err := g.Cpu.LoopOnce(); err != nil {
			slog.Error("Error running a single cycle", slog.Any("error", err))
		}
	}
}

func (g *Game) handleKeys() {
	var state c8vm.KeyboardState
	for _, key := range inpututil.AppendPressedKeys(nil) {
		if k, ok := g.keymap[key]; ok {
			state |= 1 << k
		}
	}

	g.Set(state)
}

func (g *Game) fillPixels(screen *c8vm.Screen) {
	for y := 0; y < c8vm.ScreenHeight; y++ {
		for x := 0; x < c8vm.ScreenWidth; x++ {
			c := BackgroundColor
			if screen.At(x, y) {
				c = PixelColor
			}

			i := (y*c8vm.ScreenWidth + x) * 4
			g.pixels[i+0] = c.R
			g.pixels[i+1] = c.G
			g.pixels[i+2] = c.B
			g.pixels[i+3] = c.A
		}
	}
}

var runeKeys = map[rune]ebiten.Key{
	'0': ebiten.KeyDigit0, '1': ebiten.KeyDigit1, '2': ebiten.KeyDigit2, '3': ebiten.KeyDigit3,
	'4': ebiten.KeyDigit4, '5': ebiten.KeyDigit5, '6': ebiten.KeyDigit6, '7': ebiten.KeyDigit7,
	'8': ebiten.KeyDigit8, '9': ebiten.KeyDigit9,
	'A': ebiten.KeyA, 'B': ebiten.KeyB, 'C': ebiten.KeyC, 'D': ebiten.KeyD, 'E': ebiten.KeyE,
	'F': ebiten.KeyF, 'G': ebiten.KeyG, 'H': ebiten.KeyH, 'I': ebiten.KeyI, 'J': ebiten.KeyJ,
	'K': ebiten.KeyK, 'L': ebiten.KeyL, 'M': ebiten.KeyM, 'N': ebiten.KeyN, 'O': ebiten.KeyO,
	'P': ebiten.KeyP, 'Q': ebiten.KeyQ, 'R': ebiten.KeyR, 'S': ebiten.KeyS, 'T': ebiten.KeyT,
	'U': ebiten.KeyU, 'V': ebiten.KeyV, 'W': ebiten.KeyW, 'X': ebiten.KeyX, 'Y': ebiten.KeyY,
	'Z': ebiten.KeyZ,
}

// keymap translates the layout to ebiten keys, runes without a physical key are dropped
func keymap(layout c8vm.KeyboardLayout) map[ebiten.Key]byte {
	m := map[ebiten.Key]byte{}
	for r, k := range c8vm.LookupMap(layout) {
		if key, ok := runeKeys[unicode.ToUpper(r)]; ok {
			m[key] = k
		}
	}

	return m
}
