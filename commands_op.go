package main

import "strings"

// OpForceMove / Kick / Close: op-gated user eviction (spec §4.5).
// OpForceMove additionally sends a redirect URL to the target.
func cmdOpForceMove(h *Hub, u *User, arg string) {
	fields := strings.SplitN(arg, " ", 2)
	if len(fields) < 2 {
		return
	}
	target, ok := h.dir.users[fields[0]]
	if !ok {
		return
	}
	target.Send(formatForceMove(fields[1]))
	h.removeuser(target)
	if h.store != nil {
		h.store.InsertAuditLog(u.nick, "OpForceMove", fields[0], fields[1])
	}
}

func cmdKick(h *Hub, u *User, arg string) {
	nick := strings.TrimSpace(arg)
	target, ok := h.dir.users[nick]
	if !ok {
		return
	}
	h.removeuser(target)
	if h.store != nil {
		h.store.InsertAuditLog(u.nick, "Kick", nick, "")
	}
}

func cmdClose(h *Hub, u *User, arg string) {
	nick := strings.TrimSpace(arg)
	target, ok := h.dir.nicks[nick]
	if !ok {
		return
	}
	h.removeuser(target)
	if h.store != nil {
		h.store.InsertAuditLog(u.nick, "Close", nick, "")
	}
}

// ReloadBots: an op-only operation that re-runs the configured bot loader
// (spec §1 "Out of scope ... bot plugin loader ... treated purely as an
// optional extension point — see §9"); the core dispatcher exposes only
// the trigger, the loader itself lives outside the core per spec §1.
func cmdReloadBots(h *Hub, u *User, arg string) {
	if h.reloadBots != nil {
		h.reloadBots(h)
	}
}
