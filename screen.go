package c8vm

const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Screen is the monochrome framebuffer, row-major with the origin at the top-left corner.
// It is a value type so a copy is a snapshot.
type Screen [ScreenWidth * ScreenHeight]bool

// At reports whether the pixel at column x and row y is on.
// Coordinates outside of the screen are off.
func (s *Screen) At(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}

	return s[y*ScreenWidth+x]
}

func (s *Screen) Clear() {
	*s = Screen{}
}

// DrawSprite XORs the sprite rows onto the screen and reports whether any lit pixel was turned off.
// The origin wraps around the screen once, pixels falling past the right or bottom edge are clipped.
func (s *Screen) DrawSprite(x, y byte, rows []byte) bool {
	x0 := int(x) % ScreenWidth
	y0 := int(y) % ScreenHeight

	collision := false
	for i, row := range rows {
		py := y0 + i
		if py >= ScreenHeight {
			break
		}

		for bit := 0; bit < 8; bit++ {
			px := x0 + bit
			if px >= ScreenWidth {
				break
			}

			if row&(0x80>>bit) == 0 {
				continue
			}

			t := py*ScreenWidth + px
			if s[t] {
				collision = true
			}
			s[t] = !s[t]
		}
	}

	return collision
}

// Pack encodes the screen as one bit per pixel, row-major, most significant bit first
func (s *Screen) Pack() []byte {
	buf := make([]byte, len(s)/8)
	for t, on := range s {
		if on {
			buf[t/8] |= 0x80 >> (t % 8)
		}
	}

	return buf
}

// String renders the screen with one character per pixel, handy in test failures
func (s *Screen) String() string {
	buf := make([]byte, 0, (ScreenWidth+1)*ScreenHeight)
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			if s.At(x, y) {
				buf = append(buf, '#')
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}

	return string(buf)
}
