package cpu

import "fmt"

// Op identifies one of the 34 CHIP-8 instructions.
type Op uint8

const (
	OpInvalid Op = iota
	OpCls
	OpRet
	OpJump
	OpJumpV0
	OpCall
	OpSkipEqImm
	OpSkipNeqImm
	OpSkipEq
	OpSkipNeq
	OpLoadImm
	OpAddImm
	OpMove
	OpOr
	OpAnd
	OpXor
	OpAdd
	OpSub
	OpShr
	OpSubN
	OpShl
	OpLoadAddr
	OpAddAddr
	OpRandAnd
	OpDraw
	OpSkipKeyPressed
	OpSkipKeyNotPressed
	OpLoadDelay
	OpWaitForKey
	OpSetDelay
	OpSetSound
	OpSpriteLoc
	OpStoreBCD
	OpStoreRegs
	OpLoadRegs

	opCount
)

var opNames = [opCount]string{
	OpInvalid:           "Invalid",
	OpCls:               "Cls",
	OpRet:               "Ret",
	OpJump:              "Jump",
	OpJumpV0:            "JumpV0",
	OpCall:              "Call",
	OpSkipEqImm:         "SkipEqImm",
	OpSkipNeqImm:        "SkipNeqImm",
	OpSkipEq:            "SkipEq",
	OpSkipNeq:           "SkipNeq",
	OpLoadImm:           "LoadImm",
	OpAddImm:            "AddImm",
	OpMove:              "Move",
	OpOr:                "Or",
	OpAnd:               "And",
	OpXor:               "Xor",
	OpAdd:               "Add",
	OpSub:               "Sub",
	OpShr:               "Shr",
	OpSubN:              "SubN",
	OpShl:               "Shl",
	OpLoadAddr:          "LoadAddr",
	OpAddAddr:           "AddAddr",
	OpRandAnd:           "RandAnd",
	OpDraw:              "Draw",
	OpSkipKeyPressed:    "SkipKeyPressed",
	OpSkipKeyNotPressed: "SkipKeyNotPressed",
	OpLoadDelay:         "LoadDelay",
	OpWaitForKey:        "WaitForKey",
	OpSetDelay:          "SetDelay",
	OpSetSound:          "SetSound",
	OpSpriteLoc:         "SpriteLoc",
	OpStoreBCD:          "StoreBCD",
	OpStoreRegs:         "StoreRegs",
	OpLoadRegs:          "LoadRegs",
}

func (o Op) String() string {
	if o >= opCount {
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
	return opNames[o]
}

// Instruction is a decoded opcode. Only the operand fields used by Op are
// meaningful; the others are zero.
type Instruction struct {
	Op Op
	// X and Y are register indices (0..15).
	X uint8
	Y uint8
	// N is the sprite height nibble of Draw.
	N uint8
	// KK is an 8-bit immediate.
	KK uint8
	// Addr is a 12-bit address.
	Addr uint16
}

func nibbleX(word uint16) uint8 { return uint8(word>>8) & 0xF }
func nibbleY(word uint16) uint8 { return uint8(word>>4) & 0xF }

// Decode maps a big-endian 16-bit opcode to an Instruction. The second
// result is false if the word matches no defined instruction.
func Decode(word uint16) (Instruction, bool) {
	x := nibbleX(word)
	y := nibbleY(word)
	n := uint8(word) & 0xF
	kk := uint8(word)
	addr := word & 0x0FFF

	switch word & 0xF000 {
	case 0x0000:
		switch word {
		case 0x00E0:
			return Instruction{Op: OpCls}, true
		case 0x00EE:
			return Instruction{Op: OpRet}, true
		}
	case 0x1000:
		return Instruction{Op: OpJump, Addr: addr}, true
	case 0x2000:
		return Instruction{Op: OpCall, Addr: addr}, true
	case 0x3000:
		return Instruction{Op: OpSkipEqImm, X: x, KK: kk}, true
	case 0x4000:
		return Instruction{Op: OpSkipNeqImm, X: x, KK: kk}, true
	case 0x5000:
		if n == 0 {
			return Instruction{Op: OpSkipEq, X: x, Y: y}, true
		}
	case 0x6000:
		return Instruction{Op: OpLoadImm, X: x, KK: kk}, true
	case 0x7000:
		return Instruction{Op: OpAddImm, X: x, KK: kk}, true
	case 0x8000:
		var op Op
		switch n {
		case 0x0:
			op = OpMove
		case 0x1:
			op = OpOr
		case 0x2:
			op = OpAnd
		case 0x3:
			op = OpXor
		case 0x4:
			op = OpAdd
		case 0x5:
			op = OpSub
		case 0x6:
			op = OpShr
		case 0x7:
			op = OpSubN
		case 0xE:
			op = OpShl
		default:
			return Instruction{}, false
		}
		return Instruction{Op: op, X: x, Y: y}, true
	case 0x9000:
		if n == 0 {
			return Instruction{Op: OpSkipNeq, X: x, Y: y}, true
		}
	case 0xA000:
		return Instruction{Op: OpLoadAddr, Addr: addr}, true
	case 0xB000:
		return Instruction{Op: OpJumpV0, Addr: addr}, true
	case 0xC000:
		return Instruction{Op: OpRandAnd, X: x, KK: kk}, true
	case 0xD000:
		return Instruction{Op: OpDraw, X: x, Y: y, N: n}, true
	case 0xE000:
		switch kk {
		case 0x9E:
			return Instruction{Op: OpSkipKeyPressed, X: x}, true
		case 0xA1:
			return Instruction{Op: OpSkipKeyNotPressed, X: x}, true
		}
	case 0xF000:
		var op Op
		switch kk {
		case 0x07:
			op = OpLoadDelay
		case 0x0A:
			op = OpWaitForKey
		case 0x15:
			op = OpSetDelay
		case 0x18:
			op = OpSetSound
		case 0x1E:
			op = OpAddAddr
		case 0x29:
			op = OpSpriteLoc
		case 0x33:
			op = OpStoreBCD
		case 0x55:
			op = OpStoreRegs
		case 0x65:
			op = OpLoadRegs
		default:
			return Instruction{}, false
		}
		return Instruction{Op: op, X: x}, true
	}
	return Instruction{}, false
}

// Encode returns the canonical opcode word for ins. Operand fields are
// masked to their encoded width. OpInvalid encodes as 0x0000.
func Encode(ins Instruction) uint16 {
	x := uint16(ins.X&0xF) << 8
	y := uint16(ins.Y&0xF) << 4
	kk := uint16(ins.KK)
	addr := ins.Addr & 0x0FFF

	switch ins.Op {
	case OpCls:
		return 0x00E0
	case OpRet:
		return 0x00EE
	case OpJump:
		return 0x1000 | addr
	case OpCall:
		return 0x2000 | addr
	case OpSkipEqImm:
		return 0x3000 | x | kk
	case OpSkipNeqImm:
		return 0x4000 | x | kk
	case OpSkipEq:
		return 0x5000 | x | y
	case OpLoadImm:
		return 0x6000 | x | kk
	case OpAddImm:
		return 0x7000 | x | kk
	case OpMove:
		return 0x8000 | x | y
	case OpOr:
		return 0x8001 | x | y
	case OpAnd:
		return 0x8002 | x | y
	case OpXor:
		return 0x8003 | x | y
	case OpAdd:
		return 0x8004 | x | y
	case OpSub:
		return 0x8005 | x | y
	case OpShr:
		return 0x8006 | x | y
	case OpSubN:
		return 0x8007 | x | y
	case OpShl:
		return 0x800E | x | y
	case OpSkipNeq:
		return 0x9000 | x | y
	case OpLoadAddr:
		return 0xA000 | addr
	case OpJumpV0:
		return 0xB000 | addr
	case OpRandAnd:
		return 0xC000 | x | kk
	case OpDraw:
		return 0xD000 | x | y | uint16(ins.N&0xF)
	case OpSkipKeyPressed:
		return 0xE09E | x
	case OpSkipKeyNotPressed:
		return 0xE0A1 | x
	case OpLoadDelay:
		return 0xF007 | x
	case OpWaitForKey:
		return 0xF00A | x
	case OpSetDelay:
		return 0xF015 | x
	case OpSetSound:
		return 0xF018 | x
	case OpAddAddr:
		return 0xF01E | x
	case OpSpriteLoc:
		return 0xF029 | x
	case OpStoreBCD:
		return 0xF033 | x
	case OpStoreRegs:
		return 0xF055 | x
	case OpLoadRegs:
		return 0xF065 | x
	}
	return 0
}

// String renders the instruction in the conventional CHIP-8 assembly
// mnemonics, the same syntax pkg/asm accepts.
func (ins Instruction) String() string {
	switch ins.Op {
	case OpCls:
		return "CLS"
	case OpRet:
		return "RET"
	case OpJump:
		return fmt.Sprintf("JP $%03X", ins.Addr)
	case OpJumpV0:
		return fmt.Sprintf("JP V0, $%03X", ins.Addr)
	case OpCall:
		return fmt.Sprintf("CALL $%03X", ins.Addr)
	case OpSkipEqImm:
		return fmt.Sprintf("SE V%X, $%02X", ins.X, ins.KK)
	case OpSkipNeqImm:
		return fmt.Sprintf("SNE V%X, $%02X", ins.X, ins.KK)
	case OpSkipEq:
		return fmt.Sprintf("SE V%X, V%X", ins.X, ins.Y)
	case OpSkipNeq:
		return fmt.Sprintf("SNE V%X, V%X", ins.X, ins.Y)
	case OpLoadImm:
		return fmt.Sprintf("LD V%X, $%02X", ins.X, ins.KK)
	case OpAddImm:
		return fmt.Sprintf("ADD V%X, $%02X", ins.X, ins.KK)
	case OpMove:
		return fmt.Sprintf("LD V%X, V%X", ins.X, ins.Y)
	case OpOr:
		return fmt.Sprintf("OR V%X, V%X", ins.X, ins.Y)
	case OpAnd:
		return fmt.Sprintf("AND V%X, V%X", ins.X, ins.Y)
	case OpXor:
		return fmt.Sprintf("XOR V%X, V%X", ins.X, ins.Y)
	case OpAdd:
		return fmt.Sprintf("ADD V%X, V%X", ins.X, ins.Y)
	case OpSub:
		return fmt.Sprintf("SUB V%X, V%X", ins.X, ins.Y)
	case OpShr:
		return fmt.Sprintf("SHR V%X, V%X", ins.X, ins.Y)
	case OpSubN:
		return fmt.Sprintf("SUBN V%X, V%X", ins.X, ins.Y)
	case OpShl:
		return fmt.Sprintf("SHL V%X, V%X", ins.X, ins.Y)
	case OpLoadAddr:
		return fmt.Sprintf("LD I, $%03X", ins.Addr)
	case OpAddAddr:
		return fmt.Sprintf("ADD I, V%X", ins.X)
	case OpRandAnd:
		return fmt.Sprintf("RND V%X, $%02X", ins.X, ins.KK)
	case OpDraw:
		return fmt.Sprintf("DRW V%X, V%X, $%X", ins.X, ins.Y, ins.N)
	case OpSkipKeyPressed:
		return fmt.Sprintf("SKP V%X", ins.X)
	case OpSkipKeyNotPressed:
		return fmt.Sprintf("SKNP V%X", ins.X)
	case OpLoadDelay:
		return fmt.Sprintf("LD V%X, DT", ins.X)
	case OpWaitForKey:
		return fmt.Sprintf("LD V%X, K", ins.X)
	case OpSetDelay:
		return fmt.Sprintf("LD DT, V%X", ins.X)
	case OpSetSound:
		return fmt.Sprintf("LD ST, V%X", ins.X)
	case OpSpriteLoc:
		return fmt.Sprintf("LD F, V%X", ins.X)
	case OpStoreBCD:
		return fmt.Sprintf("LD B, V%X", ins.X)
	case OpStoreRegs:
		return fmt.Sprintf("LD [I], V%X", ins.X)
	case OpLoadRegs:
		return fmt.Sprintf("LD V%X, [I]", ins.X)
	}
	return "<INVALID>"
}
