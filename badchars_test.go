package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasBadCharsRejectsControlBytes(t *testing.T) {
	assert.True(t, hasBadChars("$Something \x01bad"))
	assert.True(t, hasBadChars("plain chat \x7f message"))
	assert.False(t, hasBadChars("$Version 1,0091|"))
}

func TestHasBadCharsKeyBypass(t *testing.T) {
	assert.False(t, hasBadChars("$Key \x01\x02\x03|"), "$Key frames bypass the badchars check entirely")
}

func TestHasBadCharsMyINFOTeratesOneByte(t *testing.T) {
	ok := "$MyINFO $ALL alice desc<++ V:0.1>$ \x01100$mail@example.com$0$"
	assert.False(t, hasBadChars(ok), "one forbidden byte in the speedclass position is tolerated")

	bad := "$MyINFO $ALL alice \x01desc<++ V:0.1>$ \x01100$mail@example.com$0$"
	assert.True(t, hasBadChars(bad), "a second forbidden byte must still be rejected")
}

func TestHasBadCharsSRToleratesFieldSeparator(t *testing.T) {
	assert.False(t, hasBadChars("$SR alice path\x0510 5/10\x05hub (host) bob"))
}
