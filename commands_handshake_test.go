package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateNickLoginFlow exercises the anonymous-login scenario end to
// end through the handshake handlers: ValidateNick -> MyINFO, verifying the
// resulting state and presence fan-out.
func TestValidateNickLoginFlow(t *testing.T) {
	h := &Hub{dir: NewDirectory(), commands: (&Hub{}).newCommandTable()}
	u := newTestUser("")
	u.state = stateNew
	u.validCommands = privilegeSet(phasePreValidate)
	h.dir.AddSocket(u)

	h.dispatch(u, "$ValidateNick alice")
	require.Equal(t, "alice", u.nick)
	require.Equal(t, stateAwaitMyINFO, u.state)
	assert.Contains(t, string(u.outgoing), "$Hello alice|")

	u.outgoing = nil
	h.dispatch(u, "$MyINFO $ALL alice desc<++ V:1.0>$ $100P$mail@x.com$0$")
	assert.True(t, u.loggedIn)
	assert.Equal(t, stateActive, u.state)
	assert.Contains(t, string(u.outgoing), "$MyINFO $ALL alice")
	assert.Contains(t, string(u.outgoing), "$NickList alice$$|")
}

// TestValidateNickSameIPCollisionEvictsPrior covers the duplicate-nick
// same-IP scenario: the later connection wins and the earlier session is
// torn down.
func TestValidateNickSameIPCollisionEvictsPrior(t *testing.T) {
	h := &Hub{dir: NewDirectory(), commands: (&Hub{}).newCommandTable()}

	first := newTestUser("alice")
	first.addr = "1.2.3.4:1111"
	h.dir.AddSocket(first)
	h.dir.RegisterNick("alice", first)

	second := newTestUser("")
	second.addr = "1.2.3.4:2222"
	second.validCommands = privilegeSet(phasePreValidate)
	h.dir.AddSocket(second)

	h.dispatch(second, "$ValidateNick alice")

	assert.Equal(t, "alice", second.nick)
	_, stillSocketed := h.dir.sockets[first]
	assert.False(t, stillSocketed, "the prior session sharing the same IP is evicted")
}

// TestValidateNickDifferentIPCollisionRejectsNewcomer covers the
// different-IP collision branch: the existing holder is kept, the
// newcomer is denied and marked to be drained.
func TestValidateNickDifferentIPCollisionRejectsNewcomer(t *testing.T) {
	h := &Hub{dir: NewDirectory(), commands: (&Hub{}).newCommandTable()}

	first := newTestUser("alice")
	first.addr = "1.2.3.4:1111"
	h.dir.AddSocket(first)
	h.dir.RegisterNick("alice", first)

	second := newTestUser("")
	second.addr = "5.6.7.8:2222"
	second.validCommands = privilegeSet(phasePreValidate)
	h.dir.AddSocket(second)

	h.dispatch(second, "$ValidateNick alice")

	assert.True(t, second.ignoreMessages)
	assert.Contains(t, string(second.outgoing), "$ValidateDenide|")
	_, stillSocketed := h.dir.sockets[first]
	assert.True(t, stillSocketed, "a different-IP collision keeps the existing holder")
}

// TestCmdUserIPOwnNickAlwaysAllowed covers hub.py's checkUserIP: any user
// may query their own IP.
func TestCmdUserIPOwnNickAlwaysAllowed(t *testing.T) {
	h := &Hub{dir: NewDirectory()}
	u := newTestUser("alice")
	u.addr = "1.2.3.4:1111"
	h.dir.AddSocket(u)
	h.dir.RegisterNick("alice", u)

	cmdUserIP(h, u, "alice")

	assert.Contains(t, string(u.outgoing), "$UserIP alice 1.2.3.4$$|")
}

// TestCmdUserIPNonOpCannotQueryOthers covers hub.py's checkUserIP: a
// non-op querying a different nick is silently dropped.
func TestCmdUserIPNonOpCannotQueryOthers(t *testing.T) {
	h := &Hub{dir: NewDirectory()}
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	bob.addr = "5.6.7.8:2222"
	for _, u := range []*User{alice, bob} {
		h.dir.AddSocket(u)
		h.dir.RegisterNick(u.nick, u)
	}

	cmdUserIP(h, alice, "bob")

	assert.Empty(t, alice.outgoing)
}

// TestCmdUserIPOpCanQueryOthers covers hub.py's checkUserIP: an op may
// query any validated nick.
func TestCmdUserIPOpCanQueryOthers(t *testing.T) {
	h := &Hub{dir: NewDirectory()}
	op := newTestUser("opuser")
	op.op = true
	bob := newTestUser("bob")
	bob.addr = "5.6.7.8:2222"
	for _, u := range []*User{op, bob} {
		h.dir.AddSocket(u)
		h.dir.RegisterNick(u.nick, u)
	}

	cmdUserIP(h, op, "bob")

	assert.Contains(t, string(op.outgoing), "$UserIP bob 5.6.7.8$$|")
}

// TestCmdUserIPUnknownNickDropsSilently covers hub.py's checkUserIP:
// querying a nick that isn't a validated nick raises no response.
func TestCmdUserIPUnknownNickDropsSilently(t *testing.T) {
	h := &Hub{dir: NewDirectory()}
	u := newTestUser("alice")
	h.dir.AddSocket(u)
	h.dir.RegisterNick("alice", u)

	cmdUserIP(h, u, "ghost")

	assert.Empty(t, u.outgoing)
}

func TestMyPassWrongPasswordSetsIgnoreMessages(t *testing.T) {
	h := &Hub{dir: NewDirectory(), commands: (&Hub{}).newCommandTable()}
	u := newTestUser("alice")
	u.account = &Account{Nick: "alice", Password: "secret"}
	u.state = stateAwaitPass
	u.validCommands = privilegeSet(phaseAwaitingPassword)

	h.dispatch(u, "$MyPass wrong")

	assert.True(t, u.ignoreMessages)
	assert.Equal(t, stateDraining, u.state)
	assert.Contains(t, string(u.outgoing), "$BadPass|")
}
