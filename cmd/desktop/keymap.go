package main

import "github.com/hajimehoshi/ebiten/v2"

// keymap maps host keys to the hexadecimal keypad. The numpad and the digit
// row both drive keys 0-9; the letters A-F drive keys A-F.
var keymap = map[ebiten.Key]uint8{
	ebiten.KeyNumpad0: 0x0,
	ebiten.KeyNumpad1: 0x1,
	ebiten.KeyNumpad2: 0x2,
	ebiten.KeyNumpad3: 0x3,
	ebiten.KeyNumpad4: 0x4,
	ebiten.KeyNumpad5: 0x5,
	ebiten.KeyNumpad6: 0x6,
	ebiten.KeyNumpad7: 0x7,
	ebiten.KeyNumpad8: 0x8,
	ebiten.KeyNumpad9: 0x9,

	ebiten.KeyDigit0: 0x0,
	ebiten.KeyDigit1: 0x1,
	ebiten.KeyDigit2: 0x2,
	ebiten.KeyDigit3: 0x3,
	ebiten.KeyDigit4: 0x4,
	ebiten.KeyDigit5: 0x5,
	ebiten.KeyDigit6: 0x6,
	ebiten.KeyDigit7: 0x7,
	ebiten.KeyDigit8: 0x8,
	ebiten.KeyDigit9: 0x9,

	ebiten.KeyA: 0xA,
	ebiten.KeyB: 0xB,
	ebiten.KeyC: 0xC,
	ebiten.KeyD: 0xD,
	ebiten.KeyE: 0xE,
	ebiten.KeyF: 0xF,
}

// keyEvent is a keypad transition derived from host key edges.
type keyEvent struct {
	key  uint8
	down bool
}

// keyEvents turns the host keys that went down or up this frame into keypad
// events. Unmapped keys are ignored.
func keyEvents(pressed, released []ebiten.Key) []keyEvent {
	var events []keyEvent
	for _, k := range pressed {
		if v, ok := keymap[k]; ok {
			events = append(events, keyEvent{key: v, down: true})
		}
	}
	for _, k := range released {
		if v, ok := keymap[k]; ok {
			events = append(events, keyEvent{key: v, down: false})
		}
	}
	return events
}
