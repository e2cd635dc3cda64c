package web

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/guslan/c8vm"
)

// StateSize is the length of an encoded CPU state
const StateSize = 2 + 2 + 16 + 2 + 1 + 2*c8vm.StackSize + 1 + 1 + 2

type HttpDebugger struct {
	Cpu           *c8vm.Cpu
	CurrentOpCode uint16

	SendEvery uint

	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewHttpDebugger creates a new debugger
// This method will pause the cpu, register the hooks and run a single cycle per frame
func NewHttpDebugger(cpu *c8vm.Cpu) *HttpDebugger {
	deb := &HttpDebugger{
		Cpu:       cpu,
		SendEvery: 1,
		clients:   map[chan []byte]struct{}{},
	}

	cpu.AddBeforeCycleHook(deb.beforeCycle)
	cpu.AddAfterCycleHook(deb.afterCycle)
	cpu.AddErrorHook(deb.publish)
	cpu.SetCyclesPerFrame(1)

	cpu.Stop()

	return deb
}

// ServeHTTP streams the CPU state after every cycle through a websocket
func (d *HttpDebugger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Error upgrading the debugger connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	slog.Info("Connecting to debugger")
	events := d.subscribe()
	defer d.unsubscribe(events)

	// the socket is write only, reading notices when the client goes away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	slog.Info("Listening for events")
	for {
		select {
		case event := <-events:
			if err := conn.WriteMessage(websocket.BinaryMessage, event); err != nil {
				slog.Error("Error writing debugger message", slog.Any("error", err))
				return
			}

		case <-closed:
			return

		case <-r.Context().Done():
			return
		}
	}
}

func (d *HttpDebugger) subscribe() chan []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	events := make(chan []byte, 64)
	d.clients[events] = struct{}{}

	return events
}

func (d *HttpDebugger) unsubscribe(events chan []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.clients, events)
}

func (d *HttpDebugger) beforeCycle(cpu *c8vm.Cpu) {
	d.CurrentOpCode = cpu.CurrentOpCode()
}

func (d *HttpDebugger) afterCycle(cpu *c8vm.Cpu) {
	if d.SendEvery == 0 || cpu.Cycles()%d.SendEvery == 0 {
		d.publish(cpu)
	}
}

// publish never blocks the CPU, slow clients miss states
func (d *HttpDebugger) publish(cpu *c8vm.Cpu) {
	event := EncodeState(d.CurrentOpCode, cpu)

	d.mu.Lock()
	defer d.mu.Unlock()

	for events := range d.clients {
		select {
		case events <- event:
		default:
		}
	}
}

// EncodeState serializes the registers of the CPU, big-endian:
// opcode, PC, V0-VF, I, stack depth, stack, DT, ST, screen width and height.
func EncodeState(opCode uint16, cpu *c8vm.Cpu) []byte {
	buf := make([]byte, 0, StateSize)

	buf = append(buf, byte(opCode>>8), byte(opCode))
	buf = append(buf, byte(cpu.Pc>>8), byte(cpu.Pc))
	buf = append(buf, cpu.V[:]...)
	buf = append(buf, byte(cpu.I>>8), byte(cpu.I))
	buf = append(buf, cpu.Stack.Depth())

	stack := [c8vm.StackSize]uint16{}
	copy(stack[:], cpu.Stack.Entries())
	for _, addr := range stack {
		buf = append(buf, byte(addr>>8), byte(addr))
	}

	buf = append(buf, cpu.Dt, cpu.St)
	buf = append(buf, c8vm.ScreenWidth, c8vm.ScreenHeight)

	return buf
}
