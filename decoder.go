package c8vm

import "fmt"

// Instruction is an instruction word split into its fields
type Instruction struct {
	OpCode uint16
	// Kind is the highest nibble and selects the instruction family
	Kind byte
	X    byte
	Y    byte
	N    byte
	NN   byte
	NNN  uint16
}

// Decode splits the instruction word into its nibble fields
func Decode(opCode uint16) Instruction {
	return Instruction{
		OpCode: opCode,
		Kind:   byte(opCode >> 12),
		X:      byte((opCode & 0x0F00) >> 8),
		Y:      byte((opCode & 0x00F0) >> 4),
		N:      byte(opCode & 0x000F),
		NN:     byte(opCode & 0x00FF),
		NNN:    opCode & 0x0FFF,
	}
}

// Disassemble renders the instruction in the usual Cowgod mnemonics.
// Unknown words are rendered as raw data.
func Disassemble(opCode uint16) string {
	ins := Decode(opCode)

	switch ins.Kind {
	case 0x0:
		switch opCode {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
	case 0x1:
		return fmt.Sprintf("JP %03X", ins.NNN)
	case 0x2:
		return fmt.Sprintf("CALL %03X", ins.NNN)
	case 0x3:
		return fmt.Sprintf("SE V%X, %02X", ins.X, ins.NN)
	case 0x4:
		return fmt.Sprintf("SNE V%X, %02X", ins.X, ins.NN)
	case 0x5:
		if ins.N == 0 {
			return fmt.Sprintf("SE V%X, V%X", ins.X, ins.Y)
		}
	case 0x6:
		return fmt.Sprintf("LD V%X, %02X", ins.X, ins.NN)
	case 0x7:
		return fmt.Sprintf("ADD V%X, %02X", ins.X, ins.NN)
	case 0x8:
		if m, ok := aluMnemonics[ins.N]; ok {
			return fmt.Sprintf("%s V%X, V%X", m, ins.X, ins.Y)
		}
	case 0x9:
		if ins.N == 0 {
			return fmt.Sprintf("SNE V%X, V%X", ins.X, ins.Y)
		}
	case 0xA:
		return fmt.Sprintf("LD I, %03X", ins.NNN)
	case 0xB:
		return fmt.Sprintf("JP V0, %03X", ins.NNN)
	case 0xC:
		return fmt.Sprintf("RND V%X, %02X", ins.X, ins.NN)
	case 0xD:
		return fmt.Sprintf("DRW V%X, V%X, %X", ins.X, ins.Y, ins.N)
	case 0xE:
		switch ins.NN {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", ins.X)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", ins.X)
		}
	case 0xF:
		if f, ok := miscMnemonics[ins.NN]; ok {
			return fmt.Sprintf(f, ins.X)
		}
	}

	return fmt.Sprintf("DW %04X", opCode)
}

var aluMnemonics = map[byte]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
	0xE: "SHL",
}

var miscMnemonics = map[byte]string{
	0x07: "LD V%X, DT",
	0x0A: "LD V%X, K",
	0x15: "LD DT, V%X",
	0x18: "LD ST, V%X",
	0x1E: "ADD I, V%X",
	0x29: "LD F, V%X",
	0x33: "LD B, V%X",
	0x55: "LD [I], V%X",
	0x65: "LD V%X, [I]",
}
