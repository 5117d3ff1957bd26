package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFrameIncomingSplitsOnPipe covers spec §4.1 step 6: an arbitrary split
// of the byte stream across reads must still yield the same frames once
// reassembled.
func TestFrameIncomingSplitsOnPipe(t *testing.T) {
	u := newTestUser("alice")

	frameIncoming(u, []byte("$Ver"))
	frameIncoming(u, []byte("sion|$GetNickList|"))

	complete := u.incoming[:len(u.incoming)-1]
	require.Len(t, complete, 2)
	assert.Equal(t, "$Version", complete[0])
	assert.Equal(t, "$GetNickList", complete[1])
	assert.Equal(t, "", u.incoming[len(u.incoming)-1], "no partial frame left over")
}

func TestFrameIncomingLeavesOpenPartial(t *testing.T) {
	u := newTestUser("alice")

	frameIncoming(u, []byte("$Version|$Get"))

	complete := u.incoming[:len(u.incoming)-1]
	require.Len(t, complete, 1)
	assert.Equal(t, "$Version", complete[0])
	assert.Equal(t, "$Get", u.incoming[len(u.incoming)-1])
}

// TestProcessQueuedTrimsExcessQueuedCommands covers spec §4.4: flood
// shedding discards from the front of the queue down to one below the
// limit, preserving the open partial.
func TestProcessQueuedTrimsExcessQueuedCommands(t *testing.T) {
	h := &Hub{dir: NewDirectory(), commands: (&Hub{}).newCommandTable()}
	u := newTestUser("alice")
	u.state = stateActive
	u.loggedIn = true
	u.validCommands = privilegeSet(phaseLoggedIn)
	u.limits.MaxQueuedCommands = 2
	h.dir.AddSocket(u)
	h.dir.RegisterNick("alice", u)
	h.dir.PromoteToUser(u)

	u.incoming = []string{"$Version", "$Version", "$Version", ""}

	h.processQueued(u)

	assert.Len(t, u.commandWindow.samples, 1, "three queued with a limit of 2: two are discarded, one is dispatched")
	assert.Empty(t, u.incoming[:len(u.incoming)-1], "the discarded and dispatched frames leave nothing queued")
}

func TestProcessQueuedEnforcesCommandRateCap(t *testing.T) {
	h := &Hub{dir: NewDirectory(), commands: (&Hub{}).newCommandTable()}
	u := newTestUser("alice")
	u.state = stateActive
	u.loggedIn = true
	u.validCommands = privilegeSet(phaseLoggedIn)
	u.limits.MaxCommandsPerTimePeriod = 1
	h.dir.AddSocket(u)
	h.dir.RegisterNick("alice", u)
	h.dir.PromoteToUser(u)

	u.incoming = []string{"$Version", "$Version", ""}

	h.processQueued(u)

	complete := u.incoming[:len(u.incoming)-1]
	assert.Len(t, complete, 1, "only one command should remain queued once the per-period cap is hit")
}

func TestIsTimeout(t *testing.T) {
	assert.False(t, isTimeout(nil))
}
