package main

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"gochip8/pkg/beeper"
)

const audioBufferSize = 50 * time.Millisecond

// otoOutput streams a beeper tone to the default audio device.
type otoOutput struct {
	ctx    *oto.Context
	player *oto.Player
}

func newOtoOutput(tone *beeper.Tone) (*otoOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   tone.SampleRate(),
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   audioBufferSize,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(tone)
	player.Play()
	return &otoOutput{ctx: ctx, player: player}, nil
}

func (o *otoOutput) Close() error {
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}
