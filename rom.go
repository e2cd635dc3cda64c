package c8vm

import (
	"fmt"
	"io"
	"os"
)

// ReadRom reads a raw program image from r
func ReadRom(r io.Reader) ([]byte, error) {
	// Read one byte past the limit so oversized images are detected without reading them whole
	program, err := io.ReadAll(io.LimitReader(r, MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRomUnreadable, err)
	}

	if len(program) > MaxProgramSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrRomTooLarge, MaxProgramSize)
	}

	return program, nil
}

// ReadRomFile reads the program image stored at path
func ReadRomFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRomUnreadable, err)
	}
	defer f.Close()

	return ReadRom(f)
}
