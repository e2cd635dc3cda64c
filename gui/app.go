package gui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/c8vm"
)

const (
	ToolbarGap       = 5
	ToolbarBtnWidth  = 80
	ToolbarBtnHeight = 40
	ToolbarHeight    = 50
	ToolbarBtnOffset = ToolbarBtnWidth + ToolbarGap

	ScreenPixelSize = 15
	ScreenPositionX = 0
	ScreenPositionY = ToolbarHeight + 1

	DebuggerWidth = 220

	MessageBarGap   = 5
	MessageBarHeigh = 30
)

var MessageBarBgColor = rl.DarkGray
var MessageBarInfoColor = rl.SkyBlue
var MessageBarSuccessColor = rl.Lime
var MessageBarWarningColor = rl.Gold
var MessageBarErrorColor = rl.Red

type MessageType byte

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

type AppConfig struct {
	Speed          uint
	CyclesPerFrame uint
	// UseDebugger shows the registers next to the screen
	UseDebugger    bool
	KeyboardLayout c8vm.KeyboardLayout
}
type AppConfigCb func(config *AppConfig)

// App is a window that owns the CPU: every frame of the window runs a frame of the CPU.
// It is the display and the buzzer of the console.
type App struct {
	*c8vm.InMemoryKeyboard
	Cpu *c8vm.Cpu

	speed float32
	// last rendered frame
	screen c8vm.Screen

	keyboardLookupMap map[int32]byte
	useDebugger       bool
	isBuzzing         bool

	// Window width and height
	winW, winH int

	// Toolbar
	startBtn, stopBtn, stepBtn, restBtn bool

	loadedProgramPath string

	lastMessage      string
	lastMessageColor rl.Color
}

func NewApp(configs ...AppConfigCb) *App {
	config := &AppConfig{
		Speed:          c8vm.DefaultSpeed,
		CyclesPerFrame: c8vm.DefaultCyclesPerFrame,
		KeyboardLayout: c8vm.DefaultKeyboardLayout,
	}
	for _, cb := range configs {
		cb(config)
	}

	app := &App{
		InMemoryKeyboard:  c8vm.NewInMemoryKeyboard(),
		keyboardLookupMap: keyboardLookupMap(config.KeyboardLayout),
		useDebugger:       config.UseDebugger,
	}

	app.Cpu = c8vm.NewCpu(c8vm.NewMemory(), app, app.InMemoryKeyboard, app,
		c8vm.WithSpeed(config.Speed),
		c8vm.WithCyclesPerFrame(config.CyclesPerFrame),
	)
	app.speed = float32(app.Cpu.SpeedInHz())
	app.Cpu.Stop()

	app.updateWindowSize()

	return app
}

// keyboardLookupMap translates the layout to raylib key codes,
// which match the upper case ASCII code of letters and digits
func keyboardLookupMap(layout c8vm.KeyboardLayout) map[int32]byte {
	m := map[int32]byte{}
	for r, k := range c8vm.LookupMap(layout) {
		m[int32(unicode.ToUpper(r))] = k
	}

	return m
}

// Run opens the window and runs the console until the window is closed
func (app *App) Run(autostart bool) {
	rl.InitWindow(int32(app.winW), int32(app.winH), "c8vm")
	defer rl.CloseWindow()

	if err := app.Cpu.Boot(); err != nil {
		slog.Error("Error booting CPU", slog.Any("error", err))
		return
	}

	if autostart && app.hasProgramLoaded() {
		app.Cpu.Start()
	}

	gui.LoadStyleDefault()
	rl.SetTargetFPS(c8vm.TimerFrequency)
	for !rl.WindowShouldClose() {
		rl.BeginDrawing()

		rl.ClearBackground(rl.Black)

		app.handleFileLoad()
		app.handleActions()
		app.handleKeyPress()
		app.updateCpuSpeed()
		app.runFrame()

		// Sections get rendered from bottom to the top so that the toolbar stays on top
		app.drawMessageBar()
		app.drawScreen()
		app.drawDebugger()
		app.drawToolbar()

		rl.EndDrawing()
	}
}

// Load reads and loads a dropped ROM. A bad file only shows an error message.
func (app *App) Load(path string) {
	program, err := c8vm.ReadRomFile(path)
	if err != nil {
		slog.Error("Error loading program", slog.String("path", path), slog.Any("error", err))
		app.showMessage(err.Error(), MessageError)
		return
	}

	_ = app.LoadProgram(path, program)
}

// LoadProgram loads program into memory, name is shown in the message bar.
func (app *App) LoadProgram(name string, program []byte) error {
	if err := app.Cpu.LoadProgram(program); err != nil {
		slog.Error("Error loading program", slog.String("path", name), slog.Any("error", err))
		app.showMessage(err.Error(), MessageError)
		return err
	}

	app.loadedProgramPath = name
	slog.Info("Program loaded", slog.String("path", name))
	app.showMessage(fmt.Sprintf("Program '%s' loaded", app.loadedProgramPath), MessageInfo)

	return nil
}

// Play implements c8vm.Buzzer.
func (app *App) Play() {
	app.isBuzzing = true
}

// Stop implements c8vm.Buzzer.
func (app *App) Stop() {
	app.isBuzzing = false
}

func (app *App) runFrame() {
	if !app.hasProgramLoaded() || app.Cpu.Err() != nil {
		return
	}

	elapsed := time.Duration(rl.GetFrameTime() * float32(time.Second))
	if err := app.Cpu.RunFrame(elapsed); err != nil {
		app.showMessage(err.Error(), MessageError)
	}
}

func (app *App) updateWindowSize() {
	app.winW = c8vm.ScreenWidth * ScreenPixelSize
	if app.useDebugger {
		app.winW += DebuggerWidth
	}
	app.winH = c8vm.ScreenHeight*ScreenPixelSize + ToolbarHeight + MessageBarHeigh
	slog.Info("Updating window size", slog.Int("width", app.winW), slog.Int("height", app.winH))
}

func (app *App) handleFileLoad() {
	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		defer rl.UnloadDroppedFiles()

		slog.Info("Files were dropped", "files", strings.Join(files, ","))

		app.Load(files[0])
	}
}

func (app App) hasProgramLoaded() bool {
	return len(app.loadedProgramPath) > 0
}

func (app *App) handleActions() {
	if app.startBtn {
		if app.hasProgramLoaded() {
			app.Cpu.Start()
			slog.Info("Starting the console")
		} else {
			app.showMessage("There is no program loaded", MessageError)
		}
	}
	if app.stopBtn {
		app.Cpu.Stop()
		slog.Info("Stopping the console")
	}
	if app.restBtn {
		app.Cpu.Reset()
		app.showMessage("Program reset", MessageInfo)
		slog.Info("Resetting the program to the beginning")
	}
	if app.stepBtn && app.hasProgramLoaded() {
		if err := app.Cpu.LoopOnce(); err != nil {
			app.showMessage(err.Error(), MessageError)
		}
		slog.Info("Running a single cycle")
	}
}

func (app *App) handleKeyPress() {
	var state c8vm.KeyboardState
	for key, k := range app.keyboardLookupMap {
		if rl.IsKeyDown(key) {
			state |= 1 << k
		}
	}

	app.Set(state)
}

func (app *App) updateCpuSpeed() {
	app.Cpu.SetSpeedInHz(uint(app.speed))
}

func (app *App) drawToolbar() {
	rl.DrawRectangle(0, 0, int32(rl.GetScreenWidth()), ToolbarHeight, rl.Gray)

	app.startBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*0, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_PLAY, "Start"),
	)
	app.stopBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*1, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_STOP, "Stop"),
	)
	app.stepBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*2, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_NEXT, "Step"),
	)
	app.restBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*3, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_ROTATE, "Reset"),
	)

	status := "Stopped"
	switch {
	case app.Cpu.Err() != nil:
		status = "Halted"
	case app.Cpu.IsWaitingForKey():
		status = "Waiting"
	case app.Cpu.IsRunning():
		status = "Running"
	}
	if app.isBuzzing {
		status += " (beep)"
	}
	gui.Label(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*4, ToolbarGap, ToolbarBtnWidth+40, ToolbarBtnHeight),
		status,
	)

	gui.Label(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150, 26, 50, 20),
		fmt.Sprintf("%.0f Hz", app.speed),
	)

	if gui.Button(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150+50, 26, 50, 20),
		gui.IconText(gui.ICON_ROTATE, ""),
	) {
		app.speed = float32(c8vm.DefaultSpeed)
	}

	app.speed = gui.Slider(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150, ToolbarGap, 100, 20),
		fmt.Sprintf("%d Hz", c8vm.MinSpeed), fmt.Sprintf("%d Hz", c8vm.MaxSpeed),
		app.speed,
		float32(c8vm.MinSpeed),
		float32(c8vm.MaxSpeed),
	)
}

func (app *App) showMessage(msg string, mType MessageType) {
	app.lastMessage = msg
	switch mType {
	case MessageInfo:
		app.lastMessageColor = MessageBarInfoColor

	case MessageSuccess:
		app.lastMessageColor = MessageBarSuccessColor

	case MessageWarning:
		app.lastMessageColor = MessageBarWarningColor

	case MessageError:
		app.lastMessageColor = MessageBarErrorColor
	}
}

func (app *App) drawMessageBar() {
	rl.DrawRectangle(
		0,
		int32(app.winH)-MessageBarHeigh,
		int32(app.winW),
		MessageBarHeigh,
		MessageBarBgColor,
	)

	rl.DrawText(
		app.lastMessage,
		MessageBarGap,
		int32(app.winH)-MessageBarHeigh+MessageBarGap,
		16,
		app.lastMessageColor,
	)
}
