package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrProgramTooLarge means the program does not fit above 0x200.
	ErrProgramTooLarge = errors.New("program too large")

	// ErrStackOverflow means a CALL exceeded the 16-deep call stack.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackUnderflow means a RET with no call frame to return to.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrBadAddress means the program counter ran past the end of memory.
	ErrBadAddress = errors.New("fetch out of bounds")
)

// Interpreter runs CHIP-8 programs against a Machine. The caller owns all
// pacing: Tick once per instruction at whatever rate it likes and
// DecrementTimers at a steady 60Hz.
type Interpreter struct {
	m *Machine

	// program is retained so Reset can reload it.
	program []byte

	// waiting is set while an FX0A is parked on the program counter.
	// baseKeys is the keypad snapshot captured when the wait began; the
	// wait completes on the first press transition relative to it.
	waiting  bool
	baseKeys [NumKeys]bool
}

// NewInterpreter returns an interpreter bound to m.
func NewInterpreter(m *Machine) *Interpreter {
	return &Interpreter{m: m}
}

// Machine returns the machine this interpreter runs against.
func (ip *Interpreter) Machine() *Machine {
	return ip.m
}

// LoadProgram copies a raw big-endian opcode stream into memory at 0x200 and
// points PC there. Program memory is cleared first, so loading over a longer
// program leaves no tail bytes behind. On ErrProgramTooLarge the machine is
// left unmodified.
func (ip *Interpreter) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	ip.program = append([]byte(nil), program...)

	clear(ip.m.Memory[ProgramStart:])
	copy(ip.m.Memory[ProgramStart:], program)
	ip.m.PC = ProgramStart

	return nil
}

// Reset restores the machine to power-on state and reloads the retained
// program, if any.
func (ip *Interpreter) Reset() {
	ip.m.Reset()
	ip.waiting = false

	if ip.program != nil {
		copy(ip.m.Memory[ProgramStart:], ip.program)
		ip.m.PC = ProgramStart
	}
}

// Tick runs one fetch/decode/execute cycle. PC advances by 2 before
// execution, so jumps simply overwrite it. Unknown opcodes are no-ops;
// stack faults and a runaway PC are fatal and leave the interpreter
// unusable until Reset.
func (ip *Interpreter) Tick() error {
	pc := ip.m.PC
	if pc+1 >= MemorySize {
		return fmt.Errorf("%w: PC=%#04x", ErrBadAddress, pc)
	}

	op := uint16(ip.m.Memory[pc])<<8 | uint16(ip.m.Memory[pc+1])
	ip.m.PC = pc + 2

	in := decode(op)

	return in.exec(ip, operandsOf(op))
}

// DecrementTimers counts the delay and sound timers down one step, flooring
// at zero. Call it exactly once per 60Hz period, independent of the
// instruction rate.
func (ip *Interpreter) DecrementTimers() {
	if ip.m.DT > 0 {
		ip.m.DT--
	}
	if ip.m.ST > 0 {
		ip.m.ST--
	}
}

// skip jumps PC over the next instruction.
func (ip *Interpreter) skip() {
	ip.m.PC += 2
}

// sys (0NNN) called native RCA 1802 code on the original hardware; ignored.
func (ip *Interpreter) sys(operands) error {
	return nil
}

// cls (00E0) clears the display.
func (ip *Interpreter) cls(operands) error {
	ip.m.Video = [DisplayWidth * DisplayHeight]bool{}
	return nil
}

// ret (00EE) returns from a subroutine.
func (ip *Interpreter) ret(operands) error {
	if ip.m.SP == 0 {
		return fmt.Errorf("%w: RET at PC=%#04x", ErrStackUnderflow, ip.m.PC-2)
	}

	ip.m.SP--
	ip.m.PC = ip.m.Stack[ip.m.SP]

	return nil
}

// jp (1NNN) jumps to addr.
func (ip *Interpreter) jp(o operands) error {
	ip.m.PC = o.addr
	return nil
}

// call (2NNN) pushes the return address and jumps to addr.
func (ip *Interpreter) call(o operands) error {
	if ip.m.SP >= StackDepth {
		return fmt.Errorf("%w: CALL %#04x at PC=%#04x", ErrStackOverflow, o.addr, ip.m.PC-2)
	}

	ip.m.Stack[ip.m.SP] = ip.m.PC
	ip.m.SP++
	ip.m.PC = o.addr

	return nil
}

// seByte (3XKK) skips the next instruction if Vx == KK.
func (ip *Interpreter) seByte(o operands) error {
	if ip.m.V[o.x] == o.b {
		ip.skip()
	}
	return nil
}

// sneByte (4XKK) skips the next instruction if Vx != KK.
func (ip *Interpreter) sneByte(o operands) error {
	if ip.m.V[o.x] != o.b {
		ip.skip()
	}
	return nil
}

// seReg (5XY0) skips the next instruction if Vx == Vy.
func (ip *Interpreter) seReg(o operands) error {
	if ip.m.V[o.x] == ip.m.V[o.y] {
		ip.skip()
	}
	return nil
}

// sneReg (9XY0) skips the next instruction if Vx != Vy.
func (ip *Interpreter) sneReg(o operands) error {
	if ip.m.V[o.x] != ip.m.V[o.y] {
		ip.skip()
	}
	return nil
}

// loadByte (6XKK) sets Vx = KK.
func (ip *Interpreter) loadByte(o operands) error {
	ip.m.V[o.x] = o.b
	return nil
}

// addByte (7XKK) adds KK to Vx, wrapping, no flag.
func (ip *Interpreter) addByte(o operands) error {
	ip.m.V[o.x] += o.b
	return nil
}

// loadReg (8XY0) sets Vx = Vy.
func (ip *Interpreter) loadReg(o operands) error {
	ip.m.V[o.x] = ip.m.V[o.y]
	return nil
}

// or (8XY1), and (8XY2), xor (8XY3).
func (ip *Interpreter) or(o operands) error {
	ip.m.V[o.x] |= ip.m.V[o.y]
	return nil
}

func (ip *Interpreter) and(o operands) error {
	ip.m.V[o.x] &= ip.m.V[o.y]
	return nil
}

func (ip *Interpreter) xor(o operands) error {
	ip.m.V[o.x] ^= ip.m.V[o.y]
	return nil
}

// addReg (8XY4) adds Vy to Vx; VF = 1 on 8-bit overflow.
func (ip *Interpreter) addReg(o operands) error {
	sum := uint16(ip.m.V[o.x]) + uint16(ip.m.V[o.y])
	ip.m.V[o.x] = byte(sum)
	ip.m.V[0xF] = byte(sum >> 8)
	return nil
}

// sub (8XY5) sets Vx = Vx - Vy; VF = 1 if Vx >= Vy before subtracting.
func (ip *Interpreter) sub(o operands) error {
	flag := byte(0)
	if ip.m.V[o.x] >= ip.m.V[o.y] {
		flag = 1
	}

	ip.m.V[o.x] -= ip.m.V[o.y]
	ip.m.V[0xF] = flag
	return nil
}

// subn (8XY7) sets Vx = Vy - Vx; VF = 1 if Vy >= Vx.
func (ip *Interpreter) subn(o operands) error {
	flag := byte(0)
	if ip.m.V[o.y] >= ip.m.V[o.x] {
		flag = 1
	}

	ip.m.V[o.x] = ip.m.V[o.y] - ip.m.V[o.x]
	ip.m.V[0xF] = flag
	return nil
}

// shr (8XY6) shifts Vx right one bit; VF = the bit shifted out. Vy is
// ignored, the modern convention. Quirk documented in DESIGN.md.
func (ip *Interpreter) shr(o operands) error {
	flag := ip.m.V[o.x] & 1
	ip.m.V[o.x] >>= 1
	ip.m.V[0xF] = flag
	return nil
}

// shl (8XYE) shifts Vx left one bit; VF = the bit shifted out. Vy ignored.
func (ip *Interpreter) shl(o operands) error {
	flag := ip.m.V[o.x] >> 7
	ip.m.V[o.x] <<= 1
	ip.m.V[0xF] = flag
	return nil
}

// loadI (ANNN) sets I = addr.
func (ip *Interpreter) loadI(o operands) error {
	ip.m.I = o.addr
	return nil
}

// jpV0 (BNNN) jumps to addr + V0. A target past the end of memory is caught
// by the next fetch.
func (ip *Interpreter) jpV0(o operands) error {
	ip.m.PC = o.addr + uint16(ip.m.V[0])
	return nil
}

// rnd (CXKK) sets Vx to a random byte masked with KK.
func (ip *Interpreter) rnd(o operands) error {
	ip.m.V[o.x] = ip.m.randByte() & o.b
	return nil
}

// drw (DXYN) XORs an N-byte sprite at address I onto the display at
// (Vx mod 64, Vy mod 32). The origin wraps; pixels past the right or bottom
// edge clip. VF = 1 if any pixel flipped from on to off.
func (ip *Interpreter) drw(o operands) error {
	m := ip.m

	x0 := int(m.V[o.x]) % DisplayWidth
	y0 := int(m.V[o.y]) % DisplayHeight

	m.V[0xF] = 0
	for row := range int(o.n) {
		y := y0 + row
		if y >= DisplayHeight {
			break
		}

		sprite := m.Memory[(m.I+uint16(row))&(MemorySize-1)]
		for bit := range 8 {
			if sprite&(0x80>>bit) == 0 {
				continue
			}

			x := x0 + bit
			if x >= DisplayWidth {
				break
			}

			p := y*DisplayWidth + x
			if m.Video[p] {
				m.V[0xF] = 1
			}
			m.Video[p] = !m.Video[p]
		}
	}

	return nil
}

// skp (EX9E) skips the next instruction if key Vx is down.
func (ip *Interpreter) skp(o operands) error {
	if ip.m.Keys[ip.m.V[o.x]&0xF] {
		ip.skip()
	}
	return nil
}

// sknp (EXA1) skips the next instruction if key Vx is up.
func (ip *Interpreter) sknp(o operands) error {
	if !ip.m.Keys[ip.m.V[o.x]&0xF] {
		ip.skip()
	}
	return nil
}

// loadFromDT (FX07) sets Vx to the delay timer.
func (ip *Interpreter) loadFromDT(o operands) error {
	ip.m.V[o.x] = ip.m.DT
	return nil
}

// storeDT (FX15) and storeST (FX18) load the timers from Vx.
func (ip *Interpreter) storeDT(o operands) error {
	ip.m.DT = ip.m.V[o.x]
	return nil
}

func (ip *Interpreter) storeST(o operands) error {
	ip.m.ST = ip.m.V[o.x]
	return nil
}

// waitKey (FX0A) parks PC on this instruction until a key press transition
// is observed: a key down now that was up in the previous Tick's snapshot.
// A key already held when the wait begins does not satisfy it. This is the
// only instruction that spans multiple Tick calls; it re-checks
// cooperatively, once per Tick, with no side effects until satisfied.
func (ip *Interpreter) waitKey(o operands) error {
	if ip.waiting {
		for k := range NumKeys {
			if ip.m.Keys[k] && !ip.baseKeys[k] {
				ip.m.V[o.x] = byte(k)
				ip.waiting = false
				return nil
			}
		}
	}

	ip.waiting = true
	ip.baseKeys = ip.m.Keys

	// no press yet, rewind to re-execute next Tick
	ip.m.PC -= 2
	return nil
}

// addI (FX1E) adds Vx to I. VF is untouched; I is masked to the memory size
// on dereference. Quirk documented in DESIGN.md.
func (ip *Interpreter) addI(o operands) error {
	ip.m.I += uint16(ip.m.V[o.x])
	return nil
}

// loadFont (FX29) points I at the font glyph for the low nibble of Vx.
func (ip *Interpreter) loadFont(o operands) error {
	ip.m.I = uint16(ip.m.V[o.x]&0xF) * 5
	return nil
}

// storeBCD (FX33) writes the decimal digits of Vx to memory[I..I+2],
// hundreds first.
func (ip *Interpreter) storeBCD(o operands) error {
	v := ip.m.V[o.x]
	ip.m.Memory[ip.m.I&(MemorySize-1)] = v / 100
	ip.m.Memory[(ip.m.I+1)&(MemorySize-1)] = v / 10 % 10
	ip.m.Memory[(ip.m.I+2)&(MemorySize-1)] = v % 10
	return nil
}

// storeRegs (FX55) copies V0..Vx to memory[I..I+x]. I itself is unchanged.
func (ip *Interpreter) storeRegs(o operands) error {
	for i := uint16(0); i <= uint16(o.x); i++ {
		ip.m.Memory[(ip.m.I+i)&(MemorySize-1)] = ip.m.V[i]
	}
	return nil
}

// loadRegs (FX65) copies memory[I..I+x] to V0..Vx. I itself is unchanged.
func (ip *Interpreter) loadRegs(o operands) error {
	for i := uint16(0); i <= uint16(o.x); i++ {
		ip.m.V[i] = ip.m.Memory[(ip.m.I+i)&(MemorySize-1)]
	}
	return nil
}
