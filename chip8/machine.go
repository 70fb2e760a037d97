// Package chip8 implements the CHIP-8 virtual machine: the machine state,
// the instruction interpreter, and the 60Hz timer registers. Frontends feed
// it key snapshots and a program, pace Tick and DecrementTimers themselves,
// and read the display buffer and sound timer back out.
package chip8

import (
	"math/rand/v2"
	"time"
)

const (
	// MemorySize is the addressable memory, 0x000-0xFFF.
	MemorySize = 0x1000

	// ProgramStart is where programs load and begin execution.
	ProgramStart = 0x200

	// DisplayWidth and DisplayHeight are the fixed display dimensions.
	DisplayWidth  = 64
	DisplayHeight = 32

	// NumRegisters is the number of V registers.
	NumRegisters = 16

	// NumKeys is the number of keypad keys, 0x0-0xF.
	NumKeys = 16

	// StackDepth is the maximum call depth.
	StackDepth = 16
)

// MaxProgramSize is the largest program that fits in memory above 0x200.
const MaxProgramSize = MemorySize - ProgramStart

// Machine holds all mutable CHIP-8 state. It has no behavior beyond
// accessors and Reset; the Interpreter mutates it. There is exactly one
// mutator at a time, so no locking.
type Machine struct {
	// Memory is the 4KB address space. The font sprites occupy the
	// bottom of the reserved first 512 bytes.
	Memory [MemorySize]byte

	// V are the 16 virtual registers. V[0xF] doubles as the
	// carry/borrow/collision flag.
	V [NumRegisters]byte

	// I is the address register, effectively 12 bits.
	I uint16

	// PC is the program counter.
	PC uint16

	// Stack holds return addresses. SP indexes the next free cell.
	Stack [StackDepth]uint16
	SP    byte

	// DT and ST are the delay and sound timers, counted down at 60Hz
	// by DecrementTimers.
	DT byte
	ST byte

	// Video is the 64x32 pixel grid, row-major, one bool per pixel.
	// Only the draw instruction mutates it.
	Video [DisplayWidth * DisplayHeight]bool

	// Keys is the current keypad snapshot, replaced wholesale by SetKeys.
	Keys [NumKeys]bool

	rand *rand.Rand
}

// NewMachine returns a machine with the font loaded and everything else
// zeroed. The random source is seeded from the wall clock; use Seed for
// deterministic runs.
func NewMachine() *Machine {
	m := &Machine{
		rand: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	m.Reset()

	return m
}

// Reset restores the just-constructed state: font reloaded, memory above the
// font cleared, registers, stack, timers, display, and keypad zeroed. PC is
// zero until a program is loaded.
func (m *Machine) Reset() {
	m.Memory = [MemorySize]byte{}
	copy(m.Memory[:], fontSprites[:])

	m.V = [NumRegisters]byte{}
	m.Stack = [StackDepth]uint16{}
	m.Video = [DisplayWidth * DisplayHeight]bool{}
	m.Keys = [NumKeys]bool{}

	m.I = 0
	m.PC = 0
	m.SP = 0
	m.DT = 0
	m.ST = 0
}

// Seed replaces the machine's random source with one seeded
// deterministically.
func (m *Machine) Seed(seed uint64) {
	m.rand = rand.New(rand.NewPCG(seed, 0))
}

// SetKeys replaces the keypad snapshot. Callers push the latest snapshot
// before each Tick; no instruction ever observes a partial update.
func (m *Machine) SetKeys(keys [NumKeys]bool) {
	m.Keys = keys
}

// Display returns the pixel grid, row-major. The slice aliases machine
// state and must be treated as read-only.
func (m *Machine) Display() []bool {
	return m.Video[:]
}

// Pixel reports the pixel at (x, y).
func (m *Machine) Pixel(x, y int) bool {
	return m.Video[y*DisplayWidth+x]
}

// DelayTimer returns the current delay timer value.
func (m *Machine) DelayTimer() byte {
	return m.DT
}

// SoundTimer returns the current sound timer value.
func (m *Machine) SoundTimer() byte {
	return m.ST
}

// SoundActive reports whether the sound timer is running, i.e. whether the
// frontend should be playing a tone.
func (m *Machine) SoundActive() bool {
	return m.ST > 0
}

// randByte returns a uniformly distributed byte for the RND instruction.
func (m *Machine) randByte() byte {
	return byte(m.rand.UintN(256))
}
