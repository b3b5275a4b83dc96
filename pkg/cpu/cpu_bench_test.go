package cpu

import (
	"testing"

	"gochip8/pkg/peripherals"
)

// fillLoop writes n copies of op followed by a jump back to the program start.
func fillLoop(p *peripherals.Peripherals, op uint16, n int) {
	addr := peripherals.ProgramStart
	for i := 0; i < n; i++ {
		p.Memory[addr] = byte(op >> 8)
		p.Memory[addr+1] = byte(op)
		addr += 2
	}
	jp := Encode(Instruction{Op: OpJump, Addr: peripherals.ProgramStart})
	p.Memory[addr] = byte(jp >> 8)
	p.Memory[addr+1] = byte(jp)
}

// BenchmarkCPU_ADD measures fetch, decode and dispatch of a register ADD.
func BenchmarkCPU_ADD(b *testing.B) {
	p := peripherals.New()
	fillLoop(p, 0x8014, 1000)
	c := NewCPU(peripherals.ProgramStart)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Tick(p); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCPU_Draw measures an 8x15 sprite blit, the most expensive
// instruction.
func BenchmarkCPU_Draw(b *testing.B) {
	p := peripherals.New()
	fillLoop(p, 0xD01F, 100)
	c := NewCPU(peripherals.ProgramStart)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Tick(p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(uint16(i))
	}
}
