package asm

import (
	"strings"

	"github.com/retroenv/retrochip8/internal/vm"
)

// form is one operand layout of a mnemonic.
type form struct {
	op    vm.Operation
	slots []slot
}

func (f form) matches(values []value) bool {
	if len(values) != len(f.slots) {
		return false
	}
	for i, s := range f.slots {
		if values[i].kind != s.kind() {
			return false
		}
	}
	return true
}

var operationForms = []form{
	{vm.OpClear, nil},
	{vm.OpReturn, nil},
	{vm.OpJump, []slot{slotNNN}},
	{vm.OpJumpOffset, []slot{slotV0, slotNNN}},
	{vm.OpCall, []slot{slotNNN}},
	{vm.OpSkipEqualImm, []slot{slotX, slotKK}},
	{vm.OpSkipEqualReg, []slot{slotX, slotY}},
	{vm.OpSkipNotEqualImm, []slot{slotX, slotKK}},
	{vm.OpSkipNotEqualReg, []slot{slotX, slotY}},
	{vm.OpLoadImm, []slot{slotX, slotKK}},
	{vm.OpMove, []slot{slotX, slotY}},
	{vm.OpLoadIndex, []slot{slotIndex, slotNNN}},
	{vm.OpLoadDelay, []slot{slotX, slotDelay}},
	{vm.OpWaitKey, []slot{slotX, slotKey}},
	{vm.OpSetDelay, []slot{slotDelay, slotX}},
	{vm.OpSetSound, []slot{slotSound, slotX}},
	{vm.OpLoadFont, []slot{slotFont, slotX}},
	{vm.OpStoreBCD, []slot{slotBCD, slotX}},
	{vm.OpStoreRegisters, []slot{slotIndirect, slotX}},
	{vm.OpLoadRegisters, []slot{slotX, slotIndirect}},
	{vm.OpAddImm, []slot{slotX, slotKK}},
	{vm.OpAdd, []slot{slotX, slotY}},
	{vm.OpAddIndex, []slot{slotIndex, slotX}},
	{vm.OpOr, []slot{slotX, slotY}},
	{vm.OpAnd, []slot{slotX, slotY}},
	{vm.OpXor, []slot{slotX, slotY}},
	{vm.OpSub, []slot{slotX, slotY}},
	{vm.OpSubReverse, []slot{slotX, slotY}},
	{vm.OpShiftRight, []slot{slotX}},
	{vm.OpShiftRight, []slot{slotX, slotY}},
	{vm.OpShiftLeft, []slot{slotX}},
	{vm.OpShiftLeft, []slot{slotX, slotY}},
	{vm.OpRandom, []slot{slotX, slotKK}},
	{vm.OpDraw, []slot{slotX, slotY, slotN}},
	{vm.OpSkipKeyPressed, []slot{slotX}},
	{vm.OpSkipKeyReleased, []slot{slotX}},
}

// forms maps the lower case mnemonic to all its operand layouts.
var forms = buildForms()

func buildForms() map[string][]form {
	m := make(map[string][]form)
	for _, f := range operationForms {
		name := strings.ToLower(f.op.Mnemonic())
		m[name] = append(m[name], f)
	}
	return m
}
