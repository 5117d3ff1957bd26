package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSettingsRoundTrip(t *testing.T) {
	st := newTestStore(t)

	_, ok, err := st.GetSetting("server_name")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.SetSetting("server_name", "Test Hub"))
	val, ok, err := st.GetSetting("server_name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Test Hub", val)

	require.NoError(t, st.SetSetting("server_name", "Renamed Hub"))
	val, _, _ = st.GetSetting("server_name")
	assert.Equal(t, "Renamed Hub", val)
}

func TestAuditLogOrderedMostRecentFirst(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.InsertAuditLog("op1", "Kick", "alice", ""))
	require.NoError(t, st.InsertAuditLog("op1", "OpForceMove", "bob", "redirect"))

	entries, err := st.GetAuditLog("", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "OpForceMove", entries[0].Action)
	assert.Equal(t, "Kick", entries[1].Action)
}

func TestAuditLogFiltersByAction(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.InsertAuditLog("op1", "Kick", "alice", ""))
	require.NoError(t, st.InsertAuditLog("op1", "Close", "bob", ""))

	entries, err := st.GetAuditLog("Kick", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Target)
}

func TestBanLifecycle(t *testing.T) {
	st := newTestStore(t)

	id, err := st.InsertBan("", "1.2.3.4", "spamming", "op1", 0)
	require.NoError(t, err)

	banned, reason, err := st.IsIPBanned("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, banned)
	assert.Equal(t, "spamming", reason)

	banned, _, err = st.IsIPBanned("5.6.7.8")
	require.NoError(t, err)
	assert.False(t, banned)

	require.NoError(t, st.DeleteBan(id))
	banned, _, err = st.IsIPBanned("1.2.3.4")
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestDeleteBanUnknownIDErrors(t *testing.T) {
	st := newTestStore(t)
	err := st.DeleteBan(999)
	assert.Error(t, err)
}

func TestPurgeExpiredBansRemovesOnlyExpired(t *testing.T) {
	st := newTestStore(t)

	_, err := st.InsertBan("", "1.1.1.1", "temp", "op1", 3600) // not yet expired
	require.NoError(t, err)

	n, err := st.PurgeExpiredBans()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	banned, _, err := st.IsIPBanned("1.1.1.1")
	require.NoError(t, err)
	assert.True(t, banned)
}
