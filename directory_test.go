package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// newTestUser returns a bare, unconnected User ready to be dropped straight
// into a Directory's indexes.
func newTestUser(nick string) *User {
	u := NewUser(nil, DefaultLimits())
	u.nick = nick
	return u
}

func TestDirectoryInvariantOpsSubsetUsersSubsetNicks(t *testing.T) {
	d := NewDirectory()

	alice := newTestUser("alice")
	bob := newTestUser("bob")
	bob.op = true

	d.AddSocket(alice)
	d.AddSocket(bob)
	d.RegisterNick("alice", alice)
	d.RegisterNick("bob", bob)
	d.PromoteToUser(alice)
	d.PromoteToUser(bob)

	for nick, u := range d.ops {
		assert.Equal(t, nick, u.nick)
		_, inUsers := d.users[nick]
		assert.True(t, inUsers, "every op must also be a user")
	}
	for nick, u := range d.users {
		assert.Equal(t, nick, u.nick)
		_, inNicks := d.nicks[nick]
		assert.True(t, inNicks, "every user must also hold a validated nick")
	}
}

func TestRegisterNickReturnsPriorOccupant(t *testing.T) {
	d := NewDirectory()
	first := newTestUser("alice")
	second := newTestUser("alice")

	prior, ok := d.RegisterNick("alice", first)
	assert.False(t, ok)
	assert.Nil(t, prior)

	prior, ok = d.RegisterNick("alice", second)
	assert.True(t, ok)
	assert.Same(t, first, prior)
	assert.Same(t, second, d.nicks["alice"])
}

// TestRemoveUserIsObjectIdentityScoped covers spec's object-identity-scoped
// removal: a stale reference to a user who has already been replaced in the
// nicks index must not evict the newer occupant.
func TestRemoveUserIsObjectIdentityScoped(t *testing.T) {
	d := NewDirectory()
	first := newTestUser("alice")
	second := newTestUser("alice")

	d.AddSocket(first)
	d.RegisterNick("alice", first)
	d.AddSocket(second)
	d.RegisterNick("alice", second) // second replaces first under the same nick

	d.RemoveUser(first) // stale: first no longer occupies "alice"

	cur, ok := d.nicks["alice"]
	assert.True(t, ok)
	assert.Same(t, second, cur)
}

func TestRegisterBotVisibility(t *testing.T) {
	d := NewDirectory()

	visible := NewBot("TeamChat", DefaultLimits(), defaultBotHandler)
	d.RegisterBot(visible)
	_, inUsers := d.users["TeamChat"]
	assert.True(t, inUsers, "a visible bot appears in users like any human")

	hidden := NewBot("Watchdog", DefaultLimits(), defaultBotHandler)
	hidden.Visible = false
	d.RegisterBot(hidden)
	_, inUsers = d.users["Watchdog"]
	assert.False(t, inUsers, "an invisible bot never appears in the nick list")

	_, isBot := d.bots["Watchdog"]
	assert.True(t, isBot, "both visible and invisible bots are reachable via bots")
}
