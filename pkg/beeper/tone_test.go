package beeper

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestToneSilentWhenDisabled(t *testing.T) {
	tone := NewTone(8000)
	buf := make([]float32, 100)
	tone.Fill(buf)
	for _, s := range buf {
		assert.Equal(t, float32(0), s)
	}
}

func TestToneSquareWave(t *testing.T) {
	// 440 Hz at 8800 Hz is exactly 20 samples per period.
	tone := NewTone(8800)
	tone.SetAudioEnabled(true)
	assert.True(t, tone.Enabled())

	buf := make([]float32, 40)
	tone.Fill(buf)
	for i, s := range buf {
		expected := float32(Volume)
		if i%20 >= 10 {
			expected = -Volume
		}
		assert.Equal(t, expected, s)
	}
}

func TestToneRead(t *testing.T) {
	tone := NewTone(8800)
	tone.SetAudioEnabled(true)

	p := make([]byte, 4*3+2)
	n, err := tone.Read(p)
	assert.NoError(t, err)
	assert.Equal(t, 12, n)
	for i := 0; i < 3; i++ {
		s := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		assert.Equal(t, float32(Volume), s)
	}
}

func TestToneDefaultSampleRate(t *testing.T) {
	assert.Equal(t, DefaultSampleRate, NewTone(0).SampleRate())
}
