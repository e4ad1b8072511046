package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPressRelease(t *testing.T) {
	k := New()

	assert.False(t, k.Pressed(Key5))
	assert.True(t, k.Released(Key5))

	k.Press(Key5)
	assert.True(t, k.Pressed(Key5))
	assert.False(t, k.Released(Key5))
	assert.False(t, k.Pressed(Key6))

	k.Release(Key5)
	assert.False(t, k.Pressed(Key5))
}

func TestFirstPressed(t *testing.T) {
	k := New()

	_, ok := k.FirstPressed()
	assert.False(t, ok)

	k.Press(KeyC)
	k.Press(Key3)

	key, ok := k.FirstPressed()
	assert.True(t, ok)
	assert.Equal(t, Key3, key)

	k.Release(Key3)
	key, ok = k.FirstPressed()
	assert.True(t, ok)
	assert.Equal(t, KeyC, key)
}

func TestKeyValuesMaskedToNibble(t *testing.T) {
	k := New()
	k.Press(0x15)
	assert.True(t, k.Pressed(Key5))
}
