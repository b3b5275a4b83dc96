// Package cpu implements the CHIP-8 instruction decoder and interpreter.
package cpu

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"gochip8/pkg/grid"
	"gochip8/pkg/peripherals"
	"gochip8/pkg/rng"
)

// Status is the execution state of the CPU.
type Status uint8

const (
	Running Status = iota
	WaitingForKey
	Halted
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case WaitingForKey:
		return "WaitingForKey"
	case Halted:
		return "Halted"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

const (
	NumRegisters = 16
	// FlagRegister is VF, written by ALU carries, shifts and sprite collisions.
	FlagRegister = 0xF
	StackDepth   = 16
	// RandomSequence is the PCG stream selector used for every seed.
	RandomSequence = 42
	// DrawColor is the pixel value XORed in for each set sprite bit.
	DrawColor uint32 = 0xFFFFFFFF
)

type CPU struct {
	V [NumRegisters]uint8
	I uint16

	PC uint16
	SP uint16

	Stack [StackDepth]uint16

	// Cycles counts Tick calls, including ones that fault.
	Cycles uint64

	Status Status

	rand rng.PCG32
}

// NewCPU returns a CPU that starts executing at pc with the random stream
// seeded to 0.
func NewCPU(pc uint16) *CPU {
	c := &CPU{PC: pc}
	c.SeedRandom(0)
	return c
}

// SeedRandom reseeds the generator behind RND.
func (c *CPU) SeedRandom(seed uint64) {
	c.rand.Reset(seed, RandomSequence)
}

func (c *CPU) setFlag(set bool) {
	if set {
		c.V[FlagRegister] = 1
	} else {
		c.V[FlagRegister] = 0
	}
}

// Exec runs a single decoded instruction located at c.PC. When jump is true
// the program counter must be set to next, otherwise it advances by 2. Exec
// never modifies c.PC itself.
func (c *CPU) Exec(ins Instruction, p *peripherals.Peripherals) (next uint16, jump bool, err error) {
	vx := c.V[ins.X&0xF]
	vy := c.V[ins.Y&0xF]
	skip := c.PC + 4

	switch ins.Op {
	case OpCls:
		p.Screen.Clear(0)

	case OpRet:
		if c.SP == 0 {
			return 0, false, ErrPopEmptyStack
		}
		c.SP--
		return c.Stack[c.SP], true, nil

	case OpJump:
		return ins.Addr, true, nil

	case OpJumpV0:
		return uint16(c.V[0]) + ins.Addr, true, nil

	case OpCall:
		if c.SP >= StackDepth {
			return 0, false, ErrStackOverflow
		}
		c.Stack[c.SP] = c.PC + 2
		c.SP++
		return ins.Addr, true, nil

	case OpSkipEqImm:
		if vx == ins.KK {
			return skip, true, nil
		}
	case OpSkipNeqImm:
		if vx != ins.KK {
			return skip, true, nil
		}
	case OpSkipEq:
		if vx == vy {
			return skip, true, nil
		}
	case OpSkipNeq:
		if vx != vy {
			return skip, true, nil
		}

	case OpLoadImm:
		c.V[ins.X] = ins.KK
	case OpAddImm:
		c.V[ins.X] = vx + ins.KK

	case OpMove:
		c.V[ins.X] = vy
	case OpOr:
		c.V[ins.X] = vx | vy
	case OpAnd:
		c.V[ins.X] = vx & vy
	case OpXor:
		c.V[ins.X] = vx ^ vy

	// The flag is always written after the result so that a VF destination
	// ends up holding the flag.
	case OpAdd:
		sum := uint16(vx) + uint16(vy)
		c.V[ins.X] = uint8(sum)
		c.setFlag(sum >= 0x100)
	case OpSub:
		c.V[ins.X] = vx - vy
		c.setFlag(vx > vy)
	case OpSubN:
		c.V[ins.X] = vy - vx
		c.setFlag(vy > vx)
	case OpShr:
		c.V[ins.X] = vx >> 1
		c.V[FlagRegister] = vx & 0x1
	case OpShl:
		c.V[ins.X] = vx << 1
		c.V[FlagRegister] = vx >> 7

	case OpLoadAddr:
		c.I = ins.Addr
	case OpAddAddr:
		c.I += uint16(vx)

	case OpRandAnd:
		c.V[ins.X] = uint8(c.rand.Generate()) & ins.KK

	case OpDraw:
		return c.draw(vx, vy, ins.N, p)

	case OpSkipKeyPressed:
		if p.Keypad.IsPressed(vx) {
			return skip, true, nil
		}
	case OpSkipKeyNotPressed:
		if !p.Keypad.IsPressed(vx) {
			return skip, true, nil
		}

	case OpLoadDelay:
		c.V[ins.X] = uint8(p.DelayTimer)
	case OpWaitForKey:
		key, ok := p.Keypad.FirstKeyPressed()
		if !ok {
			c.Status = WaitingForKey
			return c.PC, true, nil
		}
		c.V[ins.X] = key
		c.Status = Running
	case OpSetDelay:
		p.DelayTimer = uint16(vx)
	case OpSetSound:
		p.SoundTimer = uint16(vx)

	case OpSpriteLoc:
		if vx >= peripherals.GlyphCount {
			return 0, false, ErrInvalidSprite
		}
		c.I = peripherals.GlyphAddress(vx)

	case OpStoreBCD:
		if int(c.I)+3 > peripherals.MemorySize {
			return 0, false, ErrMemory
		}
		p.Memory[c.I] = vx / 100
		p.Memory[c.I+1] = vx / 10 % 10
		p.Memory[c.I+2] = vx % 10

	case OpStoreRegs:
		n := int(ins.X) + 1
		if int(c.I)+n > peripherals.MemorySize {
			return 0, false, ErrMemory
		}
		copy(p.Memory[c.I:int(c.I)+n], c.V[:n])
	case OpLoadRegs:
		n := int(ins.X) + 1
		if int(c.I)+n > peripherals.MemorySize {
			return 0, false, ErrMemory
		}
		copy(c.V[:n], p.Memory[c.I:int(c.I)+n])

	default:
		return 0, false, ErrInvalidInstruction
	}
	return 0, false, nil
}

// draw XORs an n-row sprite from memory[I] onto the screen at (x, y),
// wrapping at the edges, and sets VF when any lit pixel is erased.
func (c *CPU) draw(x, y, n uint8, p *peripherals.Peripherals) (uint16, bool, error) {
	if int(c.I)+int(n) > peripherals.MemorySize {
		return 0, false, ErrMemory
	}
	erased := false
	for dy := 0; dy < int(n); dy++ {
		row := p.Memory[int(c.I)+dy]
		py := grid.Wrap(int(y)+dy, peripherals.Height)
		for dx := 0; dx < 8; dx++ {
			px := grid.Wrap(int(x)+dx, peripherals.Width)
			var color uint32
			if row>>(7-dx)&1 != 0 {
				color = DrawColor
			}
			if p.Screen.XorPixel(px, py, color) {
				erased = true
			}
		}
	}
	c.setFlag(erased)
	return 0, false, nil
}

// Fetch reads the big-endian opcode at pc.
func Fetch(p *peripherals.Peripherals, pc uint16) (uint16, error) {
	if int(pc)+2 > peripherals.MemorySize {
		return 0, ErrMemory
	}
	return binary.BigEndian.Uint16(p.Memory[pc:]), nil
}

// Tick executes one instruction. On a fault the returned error is a *Fault
// and PC still points at the faulting instruction. A halted CPU does nothing.
func (c *CPU) Tick(p *peripherals.Peripherals) error {
	if c.Status == Halted {
		return nil
	}
	c.Cycles++

	word, err := Fetch(p, c.PC)
	if err != nil {
		return &Fault{Kind: FaultMemory, PC: c.PC}
	}
	ins, ok := Decode(word)
	if !ok {
		return &Fault{Kind: FaultInvalidInstruction, PC: c.PC, Opcode: word}
	}

	next, jump, err := c.Exec(ins, p)
	if err != nil {
		return &Fault{Kind: kindOf(err), PC: c.PC, Opcode: word}
	}
	if jump {
		c.PC = next
	} else {
		c.PC += 2
	}
	return nil
}

// Halt stops execution until Resume is called.
func (c *CPU) Halt() {
	c.Status = Halted
}

// Resume returns a halted CPU to Running. A WaitForKey stall re-evaluates on
// the next Tick.
func (c *CPU) Resume() {
	if c.Status == Halted {
		c.Status = Running
	}
}

// CallStack returns the active return addresses, oldest first.
func (c *CPU) CallStack() []uint16 {
	out := make([]uint16, c.SP)
	copy(out, c.Stack[:c.SP])
	return out
}

// DumpRegisters writes a human-readable register listing to w.
func (c *CPU) DumpRegisters(w io.Writer) {
	var sb strings.Builder
	for r := 0; r < NumRegisters; r++ {
		fmt.Fprintf(&sb, "V%X=%02X", r, c.V[r])
		if r%4 == 3 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	fmt.Fprintf(&sb, "I=%03X PC=%03X SP=%d\n", c.I, c.PC, c.SP)
	fmt.Fprintf(&sb, "cycles=%d status=%s\n", c.Cycles, c.Status)
	_, _ = io.WriteString(w, sb.String())
}

func (c *CPU) String() string {
	var sb strings.Builder
	c.DumpRegisters(&sb)
	return sb.String()
}
