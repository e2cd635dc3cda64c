package web

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guslan/c8vm"
)

func TestRenderDropsAClientThatStopsReading(t *testing.T) {
	server := NewServer(func(config *ServerConfig) {
		config.StaticDir = ""
		config.DisplayWriteTimeout = 20 * time.Millisecond
	})
	if err := server.LoadProgram([]byte{0x12, 0x00}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		server.Run(ctx)
	}()

	ts := httptest.NewServer(server)
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})

	// the client connects and never reads a message
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/display", nil)
	if err != nil {
		t.Fatalf(`Dial() returned an error %v`, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for !server.hasWs() {
		if time.Now().After(deadline) {
			t.Fatalf(`the display socket was never set`)
		}
		time.Sleep(5 * time.Millisecond)
	}

	var screen c8vm.Screen
	deadline = time.Now().Add(20 * time.Second)
	for i := 0; server.hasWs(); i++ {
		if time.Now().After(deadline) {
			t.Fatalf(`the stalled client was not dropped after %d renders`, i)
		}

		screen.DrawSprite(byte(i), byte(i/64), []byte{0x80})

		start := time.Now()
		if err := server.Render(screen); err != nil {
			t.Fatalf(`Render() returned an error %v`, err)
		}
		if took := time.Since(start); took > time.Second {
			t.Fatalf(`Render() blocked for %v`, took)
		}
	}
}
