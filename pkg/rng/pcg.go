// Package rng provides the deterministic 32-bit random stream used by the RND
// instruction. Output must be reproducible bit for bit from a seed.
package rng

// Multiplier is the 64-bit LCG multiplier of the PCG family.
const Multiplier uint64 = 0x5851F42D4C957F2D

// PCG32 is a permuted congruential generator with 64-bit state and output
// function XSH-RR. The zero value is usable but produces zeros until Reset.
type PCG32 struct {
	state uint64
	inc   uint64
}

// New returns a generator initialised with Reset(seed, sequence).
func New(seed, sequence uint64) *PCG32 {
	p := &PCG32{}
	p.Reset(seed, sequence)
	return p
}

// Reset reseeds the generator. The increment is always odd. The state is mixed
// once before and once after the seed is added.
func (p *PCG32) Reset(seed, sequence uint64) {
	p.state = 0
	p.inc = sequence<<1 | 1
	p.Generate()
	p.state += seed
	p.Generate()
}

// Generate advances the state and returns the next 32-bit output.
func (p *PCG32) Generate() uint32 {
	old := p.state
	p.state = old*Multiplier + p.inc
	// The shifted value keeps 37 bits; the rotate is done in 64 bits with a
	// 31-bit mask on the left shift and the result is truncated afterwards.
	xorShifted := ((old >> 18) ^ old) >> 27
	rot := old >> 59
	return uint32(xorShifted>>rot | xorShifted<<(-rot&31))
}

// State returns the raw generator state and increment.
func (p *PCG32) State() (state, inc uint64) {
	return p.state, p.inc
}
