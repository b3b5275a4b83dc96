package beeper

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth  = 16
	wavChannels  = 1
	wavPCMFormat = 1
)

// WAVRecorder renders the tone for each emulated frame into memory and
// writes the result as 16-bit PCM. The whole recording is kept in memory.
type WAVRecorder struct {
	tone *Tone

	elapsedMs uint64
	data      []int
	buf       []float32
}

func NewWAVRecorder(sampleRate int) *WAVRecorder {
	return &WAVRecorder{tone: NewTone(sampleRate)}
}

// SetAudioEnabled gates the tone for the following Record calls.
func (r *WAVRecorder) SetAudioEnabled(enabled bool) {
	r.tone.SetAudioEnabled(enabled)
}

// Record appends elapsedMs worth of samples. Fractional samples carry over to
// the next call so the recording length tracks total elapsed time exactly.
func (r *WAVRecorder) Record(elapsedMs uint32) {
	rate := uint64(r.tone.SampleRate())
	before := r.elapsedMs * rate / 1000
	r.elapsedMs += uint64(elapsedMs)
	n := int(r.elapsedMs*rate/1000 - before)

	if cap(r.buf) < n {
		r.buf = make([]float32, n)
	}
	buf := r.buf[:n]
	r.tone.Fill(buf)
	for _, s := range buf {
		r.data = append(r.data, int(math.Round(float64(s)*math.MaxInt16)))
	}
}

// Samples returns the number of recorded samples.
func (r *WAVRecorder) Samples() int {
	return len(r.data)
}

// Encode writes the recording as a WAV stream.
func (r *WAVRecorder) Encode(w io.WriteSeeker) error {
	enc := wav.NewEncoder(w, r.tone.SampleRate(), wavBitDepth, wavChannels, wavPCMFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: wavChannels,
			SampleRate:  r.tone.SampleRate(),
		},
		Data:           r.data,
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}

// Save writes the recording to filename.
func (r *WAVRecorder) Save(filename string) (rerr error) {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wav: %w", err)
		}
	}()
	return r.Encode(f)
}
