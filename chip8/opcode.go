package chip8

// operands are the fields carved out of a 16-bit opcode. Which ones are
// meaningful depends on the instruction; x and y are always in 0-15.
type operands struct {
	addr uint16 // NNN, low 12 bits
	b    byte   // KK, low byte
	n    byte   // N, low nibble
	x    byte   // second nibble, Vx selector
	y    byte   // third nibble, Vy selector
}

func operandsOf(op uint16) operands {
	return operands{
		addr: op & 0x0FFF,
		b:    byte(op),
		n:    byte(op) & 0x0F,
		x:    byte(op>>8) & 0x0F,
		y:    byte(op>>4) & 0x0F,
	}
}

// instruction is one decoded variant: a mnemonic and its exec function.
// Decoding is closed over the 35 CHIP-8 instructions; everything else maps
// to opNOP.
type instruction struct {
	name string
	exec func(*Interpreter, operands) error
}

var (
	opSYS  = instruction{"SYS", (*Interpreter).sys}
	opCLS  = instruction{"CLS", (*Interpreter).cls}
	opRET  = instruction{"RET", (*Interpreter).ret}
	opJP   = instruction{"JP", (*Interpreter).jp}
	opCALL = instruction{"CALL", (*Interpreter).call}
	opSEB  = instruction{"SE Vx,byte", (*Interpreter).seByte}
	opSNEB = instruction{"SNE Vx,byte", (*Interpreter).sneByte}
	opSEV  = instruction{"SE Vx,Vy", (*Interpreter).seReg}
	opLDB  = instruction{"LD Vx,byte", (*Interpreter).loadByte}
	opADDB = instruction{"ADD Vx,byte", (*Interpreter).addByte}
	opLDV  = instruction{"LD Vx,Vy", (*Interpreter).loadReg}
	opOR   = instruction{"OR", (*Interpreter).or}
	opAND  = instruction{"AND", (*Interpreter).and}
	opXOR  = instruction{"XOR", (*Interpreter).xor}
	opADDV = instruction{"ADD Vx,Vy", (*Interpreter).addReg}
	opSUB  = instruction{"SUB", (*Interpreter).sub}
	opSHR  = instruction{"SHR", (*Interpreter).shr}
	opSUBN = instruction{"SUBN", (*Interpreter).subn}
	opSHL  = instruction{"SHL", (*Interpreter).shl}
	opSNEV = instruction{"SNE Vx,Vy", (*Interpreter).sneReg}
	opLDI  = instruction{"LD I,addr", (*Interpreter).loadI}
	opJPV0 = instruction{"JP V0,addr", (*Interpreter).jpV0}
	opRND  = instruction{"RND", (*Interpreter).rnd}
	opDRW  = instruction{"DRW", (*Interpreter).drw}
	opSKP  = instruction{"SKP", (*Interpreter).skp}
	opSKNP = instruction{"SKNP", (*Interpreter).sknp}
	opLDDT = instruction{"LD Vx,DT", (*Interpreter).loadFromDT}
	opLDK  = instruction{"LD Vx,K", (*Interpreter).waitKey}
	opSTDT = instruction{"LD DT,Vx", (*Interpreter).storeDT}
	opSTST = instruction{"LD ST,Vx", (*Interpreter).storeST}
	opADDI = instruction{"ADD I,Vx", (*Interpreter).addI}
	opLDF  = instruction{"LD F,Vx", (*Interpreter).loadFont}
	opBCD  = instruction{"LD B,Vx", (*Interpreter).storeBCD}
	opSTR  = instruction{"LD [I],Vx", (*Interpreter).storeRegs}
	opLDR  = instruction{"LD Vx,[I]", (*Interpreter).loadRegs}

	// opNOP swallows unassigned opcodes. Original hardware behavior is
	// undefined here; ignoring is the safe choice.
	opNOP = instruction{"NOP", func(*Interpreter, operands) error { return nil }}
)

// decode classifies an opcode by its high nibble, disambiguating the 0x0,
// 0x8, 0xE, and 0xF groups by their trailing byte or nibble.
func decode(op uint16) instruction {
	switch op & 0xF000 {
	case 0x0000:
		switch op {
		case 0x00E0:
			return opCLS
		case 0x00EE:
			return opRET
		}
		return opSYS
	case 0x1000:
		return opJP
	case 0x2000:
		return opCALL
	case 0x3000:
		return opSEB
	case 0x4000:
		return opSNEB
	case 0x5000:
		if op&0x000F == 0 {
			return opSEV
		}
	case 0x6000:
		return opLDB
	case 0x7000:
		return opADDB
	case 0x8000:
		switch op & 0x000F {
		case 0x0:
			return opLDV
		case 0x1:
			return opOR
		case 0x2:
			return opAND
		case 0x3:
			return opXOR
		case 0x4:
			return opADDV
		case 0x5:
			return opSUB
		case 0x6:
			return opSHR
		case 0x7:
			return opSUBN
		case 0xE:
			return opSHL
		}
	case 0x9000:
		if op&0x000F == 0 {
			return opSNEV
		}
	case 0xA000:
		return opLDI
	case 0xB000:
		return opJPV0
	case 0xC000:
		return opRND
	case 0xD000:
		return opDRW
	case 0xE000:
		switch op & 0x00FF {
		case 0x9E:
			return opSKP
		case 0xA1:
			return opSKNP
		}
	case 0xF000:
		switch op & 0x00FF {
		case 0x07:
			return opLDDT
		case 0x0A:
			return opLDK
		case 0x15:
			return opSTDT
		case 0x18:
			return opSTST
		case 0x1E:
			return opADDI
		case 0x29:
			return opLDF
		case 0x33:
			return opBCD
		case 0x55:
			return opSTR
		case 0x65:
			return opLDR
		}
	}

	return opNOP
}
