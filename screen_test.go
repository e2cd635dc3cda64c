package c8vm_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/guslan/c8vm"
)

// screenWith lights the listed pixels of an empty screen
func screenWith(pixels ...[2]int) c8vm.Screen {
	var s c8vm.Screen
	for _, p := range pixels {
		s[p[1]*c8vm.ScreenWidth+p[0]] = true
	}

	return s
}

func TestDrawGlyphProgram(t *testing.T) {
	program := []byte{
		0x60, 0x05,
		0x61, 0x05,
		0xA0, 0x50,
		0xD0, 0x15,
	}
	cpu, _ := newCpu(t, program)
	cpu.V[0xF] = 1
	mustRunNCycles(t, cpu, 4)

	glyph := []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}
	var want c8vm.Screen
	for row, b := range glyph {
		for bit := 0; bit < 8; bit++ {
			if b&(0x80>>bit) != 0 {
				want[(5+row)*c8vm.ScreenWidth+5+bit] = true
			}
		}
	}

	got := cpu.Screen()
	if diff := cmp.Diff(want.String(), got.String()); diff != "" {
		t.Fatalf("screen: (-want, +got)\n%s", diff)
	}
	assertVxEq(t, "no collision", cpu, 0xF, 0)
}

func TestDrawingTwiceRestoresTheScreen(t *testing.T) {
	program := []byte{
		0x60, 0x3C,
		0x61, 0x1E,
		0xA0, 0x5A,
		0xD0, 0x15,
		0xD0, 0x15,
	}
	cpu, _ := newCpu(t, program)

	mustRunNCycles(t, cpu, 4)
	assertVxEq(t, "first draw", cpu, 0xF, 0)
	drawn := cpu.Screen()
	if drawn == (c8vm.Screen{}) {
		t.Fatalf(`nothing was drawn`)
	}

	mustRunNCycles(t, cpu, 1)
	assertVxEq(t, "second draw collides", cpu, 0xF, 1)
	if after := cpu.Screen(); after != (c8vm.Screen{}) {
		t.Fatalf("screen is not blank after drawing twice:\n%s", after.String())
	}
}

func TestClearScreen(t *testing.T) {
	program := []byte{
		0xA0, 0x50,
		0xD0, 0x05,
		0x00, 0xE0,
	}
	display := c8vm.NewInMemoryDisplay()
	cpu := c8vm.NewCpu(c8vm.NewMemory(), display, c8vm.NewInMemoryKeyboard(), c8vm.NewDummyBuzzer())
	if err := cpu.LoadProgram(program); err != nil {
		t.Fatal(err)
	}
	if err := cpu.Boot(); err != nil {
		t.Fatal(err)
	}

	mustRunNCycles(t, cpu, 2)
	if display.Last == (c8vm.Screen{}) {
		t.Fatalf(`the display did not receive the sprite`)
	}

	mustRunNCycles(t, cpu, 1)
	if cpu.Screen() != (c8vm.Screen{}) {
		t.Fatalf(`CLS left pixels on`)
	}
	if display.Last != (c8vm.Screen{}) {
		t.Fatalf(`the display did not receive the cleared screen`)
	}
}

func TestRenderOnlyWhenTheScreenChanged(t *testing.T) {
	program := []byte{
		0xA0, 0x50,
		0xD0, 0x05,
		0x12, 0x04,
	}
	display := c8vm.NewInMemoryDisplay()
	cpu := c8vm.NewCpu(c8vm.NewMemory(), display, c8vm.NewInMemoryKeyboard(), c8vm.NewDummyBuzzer(), c8vm.WithCyclesPerFrame(2))
	if err := cpu.LoadProgram(program); err != nil {
		t.Fatal(err)
	}
	if err := cpu.Boot(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		if err := cpu.RunFrame(c8vm.FrameDuration); err != nil {
			t.Fatal(err)
		}
	}

	// The first frame also carries the clear from loading the program
	if display.Renders != 1 {
		t.Fatalf(`display.Renders = %d, expected 1`, display.Renders)
	}
}

func TestDrawSprite(t *testing.T) {
	tests := []struct {
		name          string
		x, y          byte
		rows          []byte
		want          c8vm.Screen
		wantCollision bool
	}{
		{
			name: "top left corner",
			x:    0, y: 0,
			rows: []byte{0b11000000, 0b01000000},
			want: screenWith([2]int{0, 0}, [2]int{1, 0}, [2]int{1, 1}),
		},
		{
			name: "origin wraps around",
			x:    64 + 2, y: 32 + 3,
			rows: []byte{0b10000000},
			want: screenWith([2]int{2, 3}),
		},
		{
			name: "clipped on the right edge",
			x:    62, y: 0,
			rows: []byte{0b11110000},
			want: screenWith([2]int{62, 0}, [2]int{63, 0}),
		},
		{
			name: "clipped on the bottom edge",
			x:    0, y: 31,
			rows: []byte{0b10000000, 0b10000000, 0b10000000},
			want: screenWith([2]int{0, 31}),
		},
		{
			name: "wrapped origin is still clipped",
			x:    255, y: 0,
			rows: []byte{0b11000000},
			want: screenWith([2]int{63, 0}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s c8vm.Screen
			collision := s.DrawSprite(tt.x, tt.y, tt.rows)

			if collision != tt.wantCollision {
				t.Fatalf(`DrawSprite() = %v, expected %v`, collision, tt.wantCollision)
			}
			if diff := cmp.Diff(tt.want.String(), s.String()); diff != "" {
				t.Fatalf("screen: (-want, +got)\n%s", diff)
			}
		})
	}
}

func TestDrawSpriteCollisionSpansTheWholeSprite(t *testing.T) {
	s := screenWith([2]int{10, 10})

	// only the first row overlaps, the last one does not
	collision := s.DrawSprite(10, 10, []byte{0b10000000, 0b10000000})
	if !collision {
		t.Fatalf(`DrawSprite() did not report the collision in the first row`)
	}

	want := screenWith([2]int{10, 11})
	if diff := cmp.Diff(want.String(), s.String()); diff != "" {
		t.Fatalf("screen: (-want, +got)\n%s", diff)
	}

	// lit pixels that stay lit are not collisions
	s = screenWith([2]int{0, 0})
	if s.DrawSprite(1, 0, []byte{0b10000000}) {
		t.Fatalf(`DrawSprite() reported a collision for disjoint pixels`)
	}
}

func TestScreenPack(t *testing.T) {
	s := screenWith([2]int{0, 0}, [2]int{9, 0}, [2]int{63, 31})
	packed := s.Pack()

	if len(packed) != c8vm.ScreenWidth*c8vm.ScreenHeight/8 {
		t.Fatalf(`len(Pack()) = %d, expected %d`, len(packed), c8vm.ScreenWidth*c8vm.ScreenHeight/8)
	}
	if packed[0] != 0x80 || packed[1] != 0x40 || packed[len(packed)-1] != 0x01 {
		t.Fatalf(`Pack() = %x..., %x`, packed[:2], packed[len(packed)-1])
	}
}
