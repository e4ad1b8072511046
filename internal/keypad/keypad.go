// Package keypad tracks the state of the 16-key CHIP-8 input device.
//
// The original machines used a hex keypad with the following layout:
//
//	+---+---+---+---+
//	| 1 | 2 | 3 | C |
//	+---+---+---+---+
//	| 4 | 5 | 6 | D |
//	+---+---+---+---+
//	| 7 | 8 | 9 | E |
//	+---+---+---+---+
//	| A | 0 | B | F |
//	+---+---+---+---+
package keypad

// Key identifies one of the 16 logical keys.
type Key = uint8

const (
	Key0 Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// NumKeys is the number of logical keys.
	NumKeys = 16
)

// Keypad holds the pressed state of every key. It is mutated by the
// input frontend and read by the processor; all access happens on the
// single machine thread.
type Keypad struct {
	pressed [NumKeys]bool
}

// New returns a keypad with all keys released.
func New() *Keypad {
	return &Keypad{}
}

// Press marks key as held down.
func (k *Keypad) Press(key Key) {
	k.pressed[key&0x0F] = true
}

// Release marks key as released.
func (k *Keypad) Release(key Key) {
	k.pressed[key&0x0F] = false
}

// Pressed reports whether key is currently held down.
func (k *Keypad) Pressed(key Key) bool {
	return k.pressed[key&0x0F]
}

// Released reports whether key is currently up.
func (k *Keypad) Released(key Key) bool {
	return !k.Pressed(key)
}

// FirstPressed returns the lowest-numbered key that is currently held
// down. It backs the processor's wait-for-key state, which polls the
// keypad once per cycle instead of blocking inside this package.
func (k *Keypad) FirstPressed() (Key, bool) {
	for key, down := range k.pressed {
		if down {
			return Key(key), true
		}
	}
	return 0, false
}
