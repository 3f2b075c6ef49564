package vm

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRegisters_Stack(t *testing.T) {
	var r Registers

	for i := range StackSize {
		assert.NoError(t, r.push(uint16(0x200+2*i)))
	}
	assert.Equal(t, uint8(StackSize), r.SP)

	err := r.push(0x300)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint8(StackSize), r.SP)

	for i := StackSize - 1; i >= 0; i-- {
		address, err := r.pop()
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x200+2*i), address)
	}

	_, err = r.pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint8(0), r.SP)
}

func TestRegisters_TickTimers(t *testing.T) {
	r := Registers{DelayTimer: 2, SoundTimer: 1}

	r.tickTimers()
	assert.Equal(t, byte(1), r.DelayTimer)
	assert.Equal(t, byte(0), r.SoundTimer)

	r.tickTimers()
	r.tickTimers()
	assert.Equal(t, byte(0), r.DelayTimer)
	assert.Equal(t, byte(0), r.SoundTimer)
}

func TestKeypad(t *testing.T) {
	var k Keypad

	_, ok := k.FirstPressed()
	assert.False(t, ok)

	assert.NoError(t, k.Set(0xB, true))
	assert.NoError(t, k.Set(0x4, true))

	key, ok := k.FirstPressed()
	assert.True(t, ok)
	assert.Equal(t, byte(0x4), key)

	pressed, err := k.Pressed(0xB)
	assert.NoError(t, err)
	assert.True(t, pressed)

	_, err = k.Pressed(KeyCount)
	assert.True(t, errors.Is(err, ErrInvalidKey))
	assert.True(t, errors.Is(k.Set(KeyCount, true), ErrInvalidKey))
	assert.True(t, errors.Is(k.Set(-1, true), ErrInvalidKey))
}
