package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMyINFORoundTrip covers the parse ∘ format identity law for the fields
// it fully preserves (nick, speed, speedclass, sharesize); description/tag/
// email are preserved up to their length caps, exercised separately by
// TestCheckMyINFOTruncatesOversizedFields.
func TestMyINFORoundTrip(t *testing.T) {
	frame := formatMyINFO("alice", "a description", "<++ V:1.0>", "100", 'P', "alice@example.com", 123456)
	name, arg, ok := extractCommand(strings.TrimSuffix(frame, "|"))
	require.True(t, ok)
	require.Equal(t, "MyINFO", name)

	parsed, err := parseMyINFO(nil, arg)
	require.NoError(t, err)
	f := parsed.(myinfoFields)

	assert.Equal(t, "alice", f.nick)
	assert.Equal(t, "a description", f.description)
	assert.Equal(t, "<++ V:1.0>", f.tag)
	assert.Equal(t, "100", f.speed)
	assert.Equal(t, byte('P'), f.speedClass)
	assert.Equal(t, "alice@example.com", f.email)
	assert.Equal(t, int64(123456), f.shareSize)
}

// TestParseMyINFOCanonicalWireForm feeds the literal spec §6 / E2E scenario
// 1 frame ("$MyINFO $ALL alice desc$ $10\x01$e@x$0$|", dollar-space-dollar
// between the tag and the speed field) rather than round-tripping through
// the student's own formatter, so a formatter/parser that silently agree
// with each other on a malformed separator can't hide behind this test.
func TestParseMyINFOCanonicalWireForm(t *testing.T) {
	frame := "$MyINFO $ALL alice desc$ $10\x01$e@x$0$|"
	name, arg, ok := extractCommand(strings.TrimSuffix(frame, "|"))
	require.True(t, ok)
	require.Equal(t, "MyINFO", name)

	parsed, err := parseMyINFO(nil, arg)
	require.NoError(t, err)
	f := parsed.(myinfoFields)

	assert.Equal(t, "alice", f.nick)
	assert.Equal(t, "desc", f.description)
	assert.Equal(t, "", f.tag)
	assert.Equal(t, "10", f.speed)
	assert.Equal(t, byte('\x01'), f.speedClass)
	assert.Equal(t, "e@x", f.email)
	assert.Equal(t, int64(0), f.shareSize)
}

func TestCheckMyINFOTruncatesOversizedFields(t *testing.T) {
	u := newTestUser("alice")
	u.limits.MaxDescriptionLength = 5

	f := myinfoFields{nick: "alice", description: "way too long", shareSize: 0}
	checked, ok, err := checkMyINFO(nil, u, f)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, checked.(myinfoFields).description, 5)
}

func TestCheckMyINFORejectsNickMismatch(t *testing.T) {
	u := newTestUser("alice")
	_, ok, err := checkMyINFO(nil, u, myinfoFields{nick: "mallory"})
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestGotMyINFOPromotesOnFirstLogin(t *testing.T) {
	h := &Hub{dir: NewDirectory()}
	u := newTestUser("alice")
	u.state = stateAwaitMyINFO
	h.dir.AddSocket(u)
	h.dir.RegisterNick("alice", u)

	gotMyINFO(h, u, myinfoFields{nick: "alice", speed: "100", speedClass: 'P', shareSize: 0})

	assert.True(t, u.loggedIn)
	assert.Equal(t, stateActive, u.state)
	_, inUsers := h.dir.users["alice"]
	assert.True(t, inUsers)
}

func TestBadMyINFORemovesUnloggedUser(t *testing.T) {
	h := &Hub{dir: NewDirectory()}
	u := newTestUser("alice")
	h.dir.AddSocket(u)
	h.dir.RegisterNick("alice", u)

	badMyINFO(h, u, nil)

	_, stillSocketed := h.dir.sockets[u]
	assert.False(t, stillSocketed)
}
