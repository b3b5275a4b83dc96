package emulator

// FrameSink receives a copy-free view of the framebuffer once per host frame.
type FrameSink interface {
	PresentFrame(pixels []uint32, width, height int) error
}

// AudioSink is told whether the tone should be playing. Implementations may
// be read from an audio thread and must synchronise internally.
type AudioSink interface {
	SetAudioEnabled(enabled bool)
}

// Present pushes the current framebuffer and sound state to the sinks. Either
// sink may be nil.
func (e *Emulator) Present(frame FrameSink, audio AudioSink) error {
	if audio != nil {
		audio.SetAudioEnabled(e.SoundEnabled())
	}
	if frame == nil {
		return nil
	}
	w, h := e.FramebufferDims()
	return frame.PresentFrame(e.Framebuffer(), w, h)
}
