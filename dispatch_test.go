package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCommandChat(t *testing.T) {
	name, arg, ok := extractCommand("<alice> hello")
	assert.True(t, ok)
	assert.Equal(t, "_ChatMessage", name)
	assert.Equal(t, "<alice> hello", arg)
}

func TestExtractCommandDollarToken(t *testing.T) {
	name, arg, ok := extractCommand("$MyINFO $ALL alice stuff")
	assert.True(t, ok)
	assert.Equal(t, "MyINFO", name)
	assert.Equal(t, "$ALL alice stuff", arg)
}

func TestExtractCommandToRewritesToPrivateMessage(t *testing.T) {
	name, arg, ok := extractCommand("$To: bob From: alice $<alice> hi")
	assert.True(t, ok)
	assert.Equal(t, "_PrivateMessage", name)
	assert.Equal(t, "To: bob From: alice $<alice> hi", arg)
}

func TestExtractCommandNoArgument(t *testing.T) {
	name, arg, ok := extractCommand("$Version")
	assert.True(t, ok)
	assert.Equal(t, "Version", name)
	assert.Equal(t, "", arg)
}

func TestExtractCommandUnrecognized(t *testing.T) {
	_, _, ok := extractCommand("not a valid frame")
	assert.False(t, ok)
}

func TestExtractCommandEmpty(t *testing.T) {
	_, _, ok := extractCommand("")
	assert.False(t, ok)
}

func TestDispatchDropsCommandOutsidePrivilegeSet(t *testing.T) {
	h := &Hub{dir: NewDirectory(), commands: (&Hub{}).newCommandTable()}
	u := newTestUser("")
	u.state = stateNew
	u.validCommands = privilegeSet(phasePreValidate)

	h.dispatch(u, "$MyINFO $ALL alice stuff")

	assert.Empty(t, u.outgoing, "MyINFO is not in the pre-validate privilege set, so nothing should be buffered")
}

func TestDispatchRunsRegisteredCommand(t *testing.T) {
	h := &Hub{dir: NewDirectory(), commands: (&Hub{}).newCommandTable()}
	u := newTestUser("")
	u.validCommands = privilegeSet(phasePreValidate)

	h.dispatch(u, "$Key abc123")
	assert.Equal(t, "abc123", u.key)
}
