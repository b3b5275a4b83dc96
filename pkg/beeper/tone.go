// Package beeper produces the single square-wave tone that sounds while the
// sound timer is nonzero.
package beeper

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"
)

const (
	Frequency         = 440
	Volume            = 0.25
	DefaultSampleRate = 44100
)

// Tone is a 440 Hz square wave gated by an enabled flag. The flag may be set
// from the emulator goroutine while an audio backend reads samples.
type Tone struct {
	sampleRate int
	enabled    atomic.Bool

	mu sync.Mutex
	// phase counts Frequency steps modulo sampleRate; the wave is high in the
	// first half of the period.
	phase int
}

func NewTone(sampleRate int) *Tone {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Tone{sampleRate: sampleRate}
}

func (t *Tone) SampleRate() int {
	return t.sampleRate
}

// SetAudioEnabled switches the tone on or off.
func (t *Tone) SetAudioEnabled(enabled bool) {
	t.enabled.Store(enabled)
}

func (t *Tone) Enabled() bool {
	return t.enabled.Load()
}

// Fill writes the next len(buf) mono samples. Samples are silent while the
// tone is disabled; the oscillator keeps running either way.
func (t *Tone) Fill(buf []float32) {
	on := t.enabled.Load()

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range buf {
		var s float32
		if on {
			if t.phase*2 < t.sampleRate {
				s = Volume
			} else {
				s = -Volume
			}
		}
		buf[i] = s
		t.phase = (t.phase + Frequency) % t.sampleRate
	}
}

// Read implements io.Reader with little-endian float32 mono samples, the
// format audio backends such as oto consume. Partial samples are not written.
func (t *Tone) Read(p []byte) (int, error) {
	n := len(p) / 4
	samples := make([]float32, n)
	t.Fill(samples)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return n * 4, nil
}
