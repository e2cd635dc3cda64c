package c8vm_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/guslan/c8vm"
)

func TestDecode(t *testing.T) {
	want := c8vm.Instruction{
		OpCode: 0xD12F,
		Kind:   0xD,
		X:      0x1,
		Y:      0x2,
		N:      0xF,
		NN:     0x2F,
		NNN:    0x12F,
	}

	if diff := cmp.Diff(want, c8vm.Decode(0xD12F)); diff != "" {
		t.Fatalf("Decode(): (-want, +got)\n%s", diff)
	}
}

func TestDisassemble(t *testing.T) {
	tests := map[uint16]string{
		0x00E0: "CLS",
		0x00EE: "RET",
		0x0123: "DW 0123",
		0x1ABC: "JP ABC",
		0x2206: "CALL 206",
		0x3A12: "SE VA, 12",
		0x5120: "SE V1, V2",
		0x5121: "DW 5121",
		0x8124: "ADD V1, V2",
		0x812E: "SHL V1, V2",
		0x8128: "DW 8128",
		0xB300: "JP V0, 300",
		0xD015: "DRW V0, V1, 5",
		0xE59E: "SKP V5",
		0xE5A1: "SKNP V5",
		0xF50A: "LD V5, K",
		0xF533: "LD B, V5",
		0xF5FF: "DW F5FF",
	}

	for opCode, want := range tests {
		if got := c8vm.Disassemble(opCode); got != want {
			t.Errorf("Disassemble(%04X) = %q, expected %q", opCode, got, want)
		}
	}
}
