package c8vm

// opHandler executes a single decoded instruction.
// PC already points to the next instruction when it runs.
type opHandler func(cpu *Cpu, ins Instruction) error

// opTable is indexed by the highest nibble of the instruction word
var opTable = [16]opHandler{
	0x0: dispatchSystem,
	0x1: opJump,
	0x2: opCall,
	0x3: opSkipIfEqualByte,
	0x4: opSkipIfNotEqualByte,
	0x5: opSkipIfEqualRegister,
	0x6: opLoadByte,
	0x7: opAddByte,
	0x8: dispatchArithmetic,
	0x9: opSkipIfNotEqualRegister,
	0xA: opLoadIndex,
	0xB: opJumpWithOffset,
	0xC: opRandom,
	0xD: opDraw,
	0xE: dispatchKeySkips,
	0xF: dispatchMisc,
}

// systemOps is keyed by the whole instruction word
var systemOps = map[uint16]opHandler{
	0x00E0: opClear,
	0x00EE: opReturn,
}

// arithmeticOps is keyed by N
var arithmeticOps = map[byte]opHandler{
	0x0: opLoadRegister,
	0x1: opOr,
	0x2: opAnd,
	0x3: opXor,
	0x4: opAdd,
	0x5: opSub,
	0x6: opShiftRight,
	0x7: opSubN,
	0xE: opShiftLeft,
}

// keySkipOps is keyed by NN
var keySkipOps = map[byte]opHandler{
	0x9E: opSkipIfKeyDown,
	0xA1: opSkipIfKeyUp,
}

// miscOps is keyed by NN
var miscOps = map[byte]opHandler{
	0x07: opLoadDelayTimer,
	0x0A: opWaitForKey,
	0x15: opSetDelayTimer,
	0x18: opSetSoundTimer,
	0x1E: opAddIndex,
	0x29: opLoadGlyph,
	0x33: opStoreBCD,
	0x55: opStoreRegisters,
	0x65: opLoadRegisters,
}

func (cpu *Cpu) executeInstruction(ins Instruction) error {
	return opTable[ins.Kind](cpu, ins)
}

func unknownOpCode(ins Instruction) error {
	return ErrOpCodeUnknown{OpCode: ins.OpCode}
}

func dispatchSystem(cpu *Cpu, ins Instruction) error {
	// SYS addr is ignored by modern interpreters, it decodes as unknown
	if op, ok := systemOps[ins.OpCode]; ok {
		return op(cpu, ins)
	}

	return unknownOpCode(ins)
}

func dispatchArithmetic(cpu *Cpu, ins Instruction) error {
	if op, ok := arithmeticOps[ins.N]; ok {
		return op(cpu, ins)
	}

	return unknownOpCode(ins)
}

func dispatchKeySkips(cpu *Cpu, ins Instruction) error {
	if op, ok := keySkipOps[ins.NN]; ok {
		return op(cpu, ins)
	}

	return unknownOpCode(ins)
}

func dispatchMisc(cpu *Cpu, ins Instruction) error {
	if op, ok := miscOps[ins.NN]; ok {
		return op(cpu, ins)
	}

	return unknownOpCode(ins)
}

// CLS :: Clear the display.
func opClear(cpu *Cpu, ins Instruction) error {
	cpu.clearScreen()

	return nil
}

// RET :: Return from a subroutine.
func opReturn(cpu *Cpu, ins Instruction) error {
	addr, err := cpu.Stack.Pop()
	if err != nil {
		return err
	}

	cpu.Pc = addr

	return nil
}

// JP addr :: Jump to location nnn.
func opJump(cpu *Cpu, ins Instruction) error {
	cpu.Pc = ins.NNN

	return nil
}

// CALL addr :: Call subroutine at nnn.
func opCall(cpu *Cpu, ins Instruction) error {
	if err := cpu.Stack.Push(cpu.Pc); err != nil {
		return err
	}

	cpu.Pc = ins.NNN

	return nil
}

// SE Vx, byte :: Skip next instruction if Vx = kk.
func opSkipIfEqualByte(cpu *Cpu, ins Instruction) error {
	if cpu.V[ins.X] == ins.NN {
		cpu.Pc += 2
	}

	return nil
}

// SNE Vx, byte :: Skip next instruction if Vx != kk.
func opSkipIfNotEqualByte(cpu *Cpu, ins Instruction) error {
	if cpu.V[ins.X] != ins.NN {
		cpu.Pc += 2
	}

	return nil
}

// SE Vx, Vy :: Skip next instruction if Vx = Vy.
func opSkipIfEqualRegister(cpu *Cpu, ins Instruction) error {
	if ins.N != 0 {
		return unknownOpCode(ins)
	}

	if cpu.V[ins.X] == cpu.V[ins.Y] {
		cpu.Pc += 2
	}

	return nil
}

// LD Vx, byte :: Set Vx = kk.
func opLoadByte(cpu *Cpu, ins Instruction) error {
	cpu.V[ins.X] = ins.NN

	return nil
}

// ADD Vx, byte :: Set Vx = Vx + kk.
func opAddByte(cpu *Cpu, ins Instruction) error {
	cpu.V[ins.X] += ins.NN

	return nil
}

// LD Vx, Vy :: Set Vx = Vy.
func opLoadRegister(cpu *Cpu, ins Instruction) error {
	cpu.V[ins.X] = cpu.V[ins.Y]

	return nil
}

// OR Vx, Vy :: Set Vx = Vx OR Vy.
func opOr(cpu *Cpu, ins Instruction) error {
	cpu.V[ins.X] |= cpu.V[ins.Y]

	return nil
}

// AND Vx, Vy :: Set Vx = Vx AND Vy.
func opAnd(cpu *Cpu, ins Instruction) error {
	cpu.V[ins.X] &= cpu.V[ins.Y]

	return nil
}

// XOR Vx, Vy :: Set Vx = Vx XOR Vy.
func opXor(cpu *Cpu, ins Instruction) error {
	cpu.V[ins.X] ^= cpu.V[ins.Y]

	return nil
}

// The flag is written after the result in every arithmetic instruction, so VF holds the flag even when x = F.

// ADD Vx, Vy :: Set Vx = Vx + Vy, set VF = carry.
func opAdd(cpu *Cpu, ins Instruction) error {
	r := uint16(cpu.V[ins.X]) + uint16(cpu.V[ins.Y])
	cpu.V[ins.X] = byte(r)
	cpu.V[0xF] = bool2byte(r > 0xFF)

	return nil
}

// SUB Vx, Vy :: Set Vx = Vx - Vy, set VF = Vx > Vy.
func opSub(cpu *Cpu, ins Instruction) error {
	carry := cpu.V[ins.X] > cpu.V[ins.Y]
	cpu.V[ins.X] = cpu.V[ins.X] - cpu.V[ins.Y]
	cpu.V[0xF] = bool2byte(carry)

	return nil
}

// SHR Vx :: Set Vx = Vx SHR 1, set VF to the bit shifted out.
func opShiftRight(cpu *Cpu, ins Instruction) error {
	carry := cpu.V[ins.X] & 0b00000001
	cpu.V[ins.X] = cpu.V[ins.X] >> 1
	cpu.V[0xF] = carry

	return nil
}

// SUBN Vx, Vy :: Set Vx = Vy - Vx, set VF = Vy > Vx.
func opSubN(cpu *Cpu, ins Instruction) error {
	carry := cpu.V[ins.Y] > cpu.V[ins.X]
	cpu.V[ins.X] = cpu.V[ins.Y] - cpu.V[ins.X]
	cpu.V[0xF] = bool2byte(carry)

	return nil
}

// SHL Vx :: Set Vx = Vx SHL 1, set VF to the bit shifted out.
func opShiftLeft(cpu *Cpu, ins Instruction) error {
	carry := (cpu.V[ins.X] & 0b10000000) >> 7
	cpu.V[ins.X] = cpu.V[ins.X] << 1
	cpu.V[0xF] = carry

	return nil
}

// SNE Vx, Vy :: Skip next instruction if Vx != Vy.
func opSkipIfNotEqualRegister(cpu *Cpu, ins Instruction) error {
	if ins.N != 0 {
		return unknownOpCode(ins)
	}

	if cpu.V[ins.X] != cpu.V[ins.Y] {
		cpu.Pc += 2
	}

	return nil
}

// LD I, addr :: Set I = nnn.
func opLoadIndex(cpu *Cpu, ins Instruction) error {
	cpu.I = ins.NNN

	return nil
}

// JP V0, addr :: Jump to location nnn + V0.
func opJumpWithOffset(cpu *Cpu, ins Instruction) error {
	cpu.Pc = ins.NNN + uint16(cpu.V[0])

	return nil
}

// RND Vx, byte :: Set Vx = random byte AND kk.
func opRandom(cpu *Cpu, ins Instruction) error {
	b, err := cpu.random()
	if err != nil {
		return err
	}

	cpu.V[ins.X] = b & ins.NN

	return nil
}

// DRW Vx, Vy, nibble :: Display n-byte sprite starting at memory location I at (Vx, Vy), set VF = collision.
func opDraw(cpu *Cpu, ins Instruction) error {
	sprite, err := cpu.Memory.ReadRange(cpu.I, int(ins.N))
	if err != nil {
		return err
	}

	collision := cpu.screen.DrawSprite(cpu.V[ins.X], cpu.V[ins.Y], sprite)
	cpu.isScreenDirty = true
	cpu.V[0xF] = bool2byte(collision)

	return nil
}

// SKP Vx :: Skip next instruction if key with the value of Vx is pressed.
func opSkipIfKeyDown(cpu *Cpu, ins Instruction) error {
	if cpu.Keyboard.IsPressed(cpu.V[ins.X]) {
		cpu.Pc += 2
	}

	return nil
}

// SKNP Vx :: Skip next instruction if key with the value of Vx is not pressed.
func opSkipIfKeyUp(cpu *Cpu, ins Instruction) error {
	if !cpu.Keyboard.IsPressed(cpu.V[ins.X]) {
		cpu.Pc += 2
	}

	return nil
}

// LD Vx, DT :: Set Vx = delay timer value.
func opLoadDelayTimer(cpu *Cpu, ins Instruction) error {
	cpu.V[ins.X] = cpu.Dt

	return nil
}

// LD Vx, K :: Wait for a key press, store the value of the key in Vx.
func opWaitForKey(cpu *Cpu, ins Instruction) error {
	// Only presses that happen from now on end the wait
	cpu.Keyboard.GetPressed()

	cpu.waitingForKey = true
	cpu.keyDstRegister = ins.X

	return nil
}

// LD DT, Vx :: Set delay timer = Vx.
func opSetDelayTimer(cpu *Cpu, ins Instruction) error {
	cpu.Dt = cpu.V[ins.X]

	return nil
}

// LD ST, Vx :: Set sound timer = Vx.
func opSetSoundTimer(cpu *Cpu, ins Instruction) error {
	cpu.St = cpu.V[ins.X]

	return nil
}

// ADD I, Vx :: Set I = I + Vx.
func opAddIndex(cpu *Cpu, ins Instruction) error {
	cpu.I += uint16(cpu.V[ins.X])

	return nil
}

// LD F, Vx :: Set I = location of sprite for digit Vx.
func opLoadGlyph(cpu *Cpu, ins Instruction) error {
	cpu.I = GlyphAddress(cpu.V[ins.X])

	return nil
}

// LD B, Vx :: Store BCD representation of Vx in memory locations I, I+1, and I+2.
func opStoreBCD(cpu *Cpu, ins Instruction) error {
	v := cpu.V[ins.X]

	return cpu.Memory.WriteRange(cpu.I, []byte{v / 100, (v / 10) % 10, v % 10})
}

// LD [I], Vx :: Store registers V0 through Vx in memory starting at location I.
func opStoreRegisters(cpu *Cpu, ins Instruction) error {
	return cpu.Memory.WriteRange(cpu.I, cpu.V[:ins.X+1])
}

// LD Vx, [I] :: Read registers V0 through Vx from memory starting at location I.
func opLoadRegisters(cpu *Cpu, ins Instruction) error {
	values, err := cpu.Memory.ReadRange(cpu.I, int(ins.X)+1)
	if err != nil {
		return err
	}

	copy(cpu.V[:], values)

	return nil
}
