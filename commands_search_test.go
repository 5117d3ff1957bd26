package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSearchAcceptsHubHost(t *testing.T) {
	u := newTestUser("alice")
	f := searchFields{host: "Hub:alice", rest: "F?T?9999?1?name"}
	checked, ok, err := checkSearch(&Hub{}, u, f)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, f, checked)
}

func TestCheckSearchRejectsHubHostMismatch(t *testing.T) {
	u := newTestUser("alice")
	f := searchFields{host: "Hub:mallory", rest: "F?T?0?9999?name"}
	_, ok, err := checkSearch(&Hub{}, u, f)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestCheckSearchAcceptsIPHost(t *testing.T) {
	u := newTestUser("alice")
	f := searchFields{host: "1.2.3.4:412", rest: "F?T?9999?1?name"}
	_, ok, err := checkSearch(&Hub{}, u, f)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckSearchRejectsInvalidDataType(t *testing.T) {
	u := newTestUser("alice")
	f := searchFields{host: "Hub:alice", rest: "F?T?99?9999?name"}
	_, ok, err := checkSearch(&Hub{}, u, f)
	assert.False(t, ok)
	assert.Error(t, err)
}

// TestGotSearchBroadcastsExactFrame covers spec §8 scenario 6: the exact
// frame is relayed verbatim to every logged-in user.
func TestGotSearchBroadcastsExactFrame(t *testing.T) {
	h := &Hub{dir: NewDirectory()}
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	for _, u := range []*User{alice, bob} {
		h.dir.AddSocket(u)
		h.dir.RegisterNick(u.nick, u)
		h.dir.PromoteToUser(u)
	}

	gotSearch(h, alice, searchFields{host: "Hub:alice", rest: "F?T?0?9999?name"})

	want := formatSearch("Hub:alice", "F?T?0?9999?name")
	assert.Equal(t, want, string(alice.outgoing))
	assert.Equal(t, want, string(bob.outgoing))
}

// TestSRRoundTrip feeds the canonical spec §4.5 wire form, where the
// requestor is its own trailing \x05 field rather than space-appended text
// inside the hubname/hubhost field.
func TestSRRoundTrip(t *testing.T) {
	arg := "alice path\\to\\file.bin\x0510000 5/10\x05TestHub (hub.example.com:411)\x05bob"
	parsed, err := parseSR(nil, arg)
	require.NoError(t, err)
	f := parsed.(srFields)

	assert.Equal(t, "alice", f.nick)
	assert.Equal(t, "path\\to\\file.bin", f.path)
	assert.Equal(t, int64(10000), f.size)
	assert.Equal(t, int64(5), f.free)
	assert.Equal(t, int64(10), f.total)
	assert.Equal(t, "TestHub", f.hubname)
	assert.Equal(t, "hub.example.com:411", f.hubhost)
	assert.Equal(t, "bob", f.requestor)
}

func TestCheckSRDropsWhenRequestorGone(t *testing.T) {
	h := &Hub{dir: NewDirectory()}
	f := srFields{requestor: "bob"}
	_, ok, err := checkSR(h, nil, f)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckSRAcceptsWhenRequestorPresent(t *testing.T) {
	h := &Hub{dir: NewDirectory()}
	bob := newTestUser("bob")
	h.dir.AddSocket(bob)
	h.dir.RegisterNick("bob", bob)
	h.dir.PromoteToUser(bob)

	f := srFields{requestor: "bob"}
	_, ok, err := checkSR(h, nil, f)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestCmdConnectToMeRelaysWithSenderNick covers spec §4.5: the hub replaces
// the requested target nick with the caller's own nick so the recipient
// knows who is inviting the connection, keeping the ip:port untouched.
func TestCmdConnectToMeRelaysWithSenderNick(t *testing.T) {
	h := &Hub{dir: NewDirectory()}
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	for _, u := range []*User{alice, bob} {
		h.dir.AddSocket(u)
		h.dir.RegisterNick(u.nick, u)
		h.dir.PromoteToUser(u)
	}

	cmdConnectToMe(h, alice, "bob 1.2.3.4:412")

	assert.Equal(t, formatConnectToMe("alice", "1.2.3.4:412"), string(bob.outgoing))
}

func TestCmdConnectToMeNoOpWhenTargetMissing(t *testing.T) {
	h := &Hub{dir: NewDirectory()}
	assert.NotPanics(t, func() {
		cmdConnectToMe(h, newTestUser("alice"), "ghost 1.2.3.4:412")
	})
}
