package beeper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/assert"
)

func TestWAVRecorderSamplesTrackElapsedTime(t *testing.T) {
	r := NewWAVRecorder(44100)
	for i := 0; i < 60; i++ {
		r.Record(16)
		r.Record(1)
	}
	// 60 * 17 ms = 1.02 s
	assert.Equal(t, 44982, r.Samples())
}

func TestWAVRecorderSave(t *testing.T) {
	r := NewWAVRecorder(8800)
	r.Record(10) // 88 silent samples
	r.SetAudioEnabled(true)
	r.Record(10) // 88 tone samples

	path := filepath.Join(t.TempDir(), "beep.wav")
	assert.NoError(t, r.Save(path))

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	assert.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	assert.NoError(t, err)

	assert.Equal(t, uint32(8800), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint16(16), dec.BitDepth)
	assert.Len(t, buf.Data, 176)

	assert.Equal(t, 0, buf.Data[0])
	assert.Equal(t, 0, buf.Data[87])
	peak := 8192 // 0.25 * 32767, rounded
	assert.True(t, buf.Data[88] == peak || buf.Data[88] == -peak)
}
