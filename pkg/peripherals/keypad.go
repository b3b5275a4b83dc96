package peripherals

// NumKeys is the number of keys on the hexadecimal keypad.
const NumKeys = 16

// Keypad holds the pressed state of the 16 keys as a bitmask, bit n for key n.
type Keypad struct {
	state uint16
}

// KeyPressed marks key as held. Codes outside 0-15 are ignored.
func (k *Keypad) KeyPressed(key uint8) {
	if key < NumKeys {
		k.state |= 1 << key
	}
}

// KeyReleased marks key as released. Codes outside 0-15 are ignored.
func (k *Keypad) KeyReleased(key uint8) {
	if key < NumKeys {
		k.state &^= 1 << key
	}
}

// Clear releases every key.
func (k *Keypad) Clear() {
	k.state = 0
}

// IsPressed reports whether key is held.
func (k *Keypad) IsPressed(key uint8) bool {
	if key >= NumKeys {
		return false
	}
	return k.state>>key&1 != 0
}

// FirstKeyPressed returns the lowest held key code. When several keys are held
// the lowest code wins.
func (k *Keypad) FirstKeyPressed() (uint8, bool) {
	if k.state == 0 {
		return 0, false
	}
	for i := uint8(0); i < NumKeys; i++ {
		if k.state>>i&1 != 0 {
			return i, true
		}
	}
	return 0, false
}

// State returns the raw bitmask.
func (k *Keypad) State() uint16 {
	return k.state
}
