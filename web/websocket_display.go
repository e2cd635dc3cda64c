package web

import (
	"encoding/binary"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guslan/c8vm"
)

var upgrader = websocket.Upgrader{} // use default options

// Boot implements Display.
func (server *Server) Boot() error {
	return nil
}

func (server *Server) setWs(conn *websocket.Conn) {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	server.socket = conn
}

func (server *Server) hasWs() bool {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	return server.socket != nil
}

func (server *Server) unsetWs(conn *websocket.Conn) {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	if server.socket == conn {
		server.socket = nil
	}
}

// Render implements Display.
// The screen is sent packed, one bit per pixel.
func (server *Server) Render(screen c8vm.Screen) error {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	if server.socket == nil {
		return nil
	}

	if server.writeTimeout > 0 {
		server.socket.SetWriteDeadline(time.Now().Add(server.writeTimeout))
	}
	if err := server.socket.WriteMessage(websocket.BinaryMessage, screen.Pack()); err != nil {
		// a broken client must not halt the CPU
		slog.Warn("Error writing to the display", slog.Any("error", err))
		server.socket.Close()
		server.socket = nil
	}

	return nil
}

// serveDisplay streams the screen to the client and reads the keyboard state back.
// Key states are two bytes, big-endian, bit k set while key k is down.
func (server *Server) serveDisplay(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Error upgrading the display connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	slog.Info("Connecting to display")
	server.setWs(conn)
	defer server.unsetWs(conn)

	// the client starts from the current screen
	err = server.do(r.Context(), func(cpu *c8vm.Cpu) {
		server.Render(cpu.Screen())
	})
	if err != nil {
		return
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			slog.Info("Disconnecting from display")
			return
		}

		if len(msg) != 2 {
			slog.Warn("Ignoring keyboard message", slog.Int("length", len(msg)))
			continue
		}

		server.Set(c8vm.KeyboardState(binary.BigEndian.Uint16(msg)))
	}
}
