package c8vm

import (
	"fmt"
	"strings"
)

const StackSize = 16

// Stack of return addresses.
// depth counts the stored entries, the next push goes to entries[depth].
type Stack struct {
	entries [StackSize]uint16
	depth   uint8
}

func (s *Stack) Push(addr uint16) error {
	if s.depth >= StackSize {
		return ErrStackOverflow
	}

	s.entries[s.depth] = addr
	s.depth++

	return nil
}

func (s *Stack) Pop() (uint16, error) {
	if s.depth == 0 {
		return 0, ErrStackUnderflow
	}

	s.depth--

	return s.entries[s.depth], nil
}

func (s Stack) Depth() uint8 {
	return s.depth
}

// Entries returns the stored return addresses, oldest first
func (s Stack) Entries() []uint16 {
	return append([]uint16(nil), s.entries[:s.depth]...)
}

func (s *Stack) Clear() {
	*s = Stack{}
}

func (s Stack) String() string {
	if s.depth == 0 {
		return "empty stack"
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("SP: %d, stack:", s.depth))
	for _, addr := range s.entries[:s.depth] {
		sb.WriteString(fmt.Sprintf(" %04X", addr))
	}

	return sb.String()
}
