package main

// Presence & broadcast (spec §4.6). Grounded on room.go's
// Broadcast/BroadcastControl/BroadcastToChannel fan-out methods: iterate a
// directory snapshot, append the serialized frame to each recipient's
// outgoing path, with bot recipients of private messages bypassing
// serialization (testbot.go's in-process virtual-client pattern).

// broadcastToUsers appends frame to every logged-in user's outgoing buffer
// (spec §8 "Broadcast completeness").
func (h *Hub) broadcastToUsers(frame string) {
	for _, u := range h.dir.LoggedInUsers() {
		if u.ignoreMessages {
			continue
		}
		u.Send(frame)
	}
}

// broadcastToOps appends frame to every op's outgoing buffer.
func (h *Hub) broadcastToOps(frame string) {
	for _, u := range h.dir.Ops() {
		if u.ignoreMessages {
			continue
		}
		u.Send(frame)
	}
}

// sendHello sends $Hello (and, unless the recipient advertises NoHello,
// the usual trailing nick-list refresh is left to the caller) — spec §4.6
// "NoHello ... extension flags change which of hello/myinfo are sent per
// recipient".
func sendHello(recipient, subject *User) {
	if recipient.supports["NoHello"] {
		return
	}
	recipient.Send(formatHello(subject.nick))
}

// sendMyINFO sends the subject's cached MyINFO string to recipient unless
// NoGetINFO suppresses it.
func sendMyINFO(recipient, subject *User) {
	if recipient.supports["NoGetINFO"] {
		return
	}
	recipient.Send(subject.myinfoCache)
}

// announceLogin runs the full presence fan-out when a user completes
// MyINFO and is promoted into `users` (spec §4.5 "MyINFO ... presence
// broadcasts run").
func (h *Hub) announceLogin(u *User) {
	for _, other := range h.dir.LoggedInUsers() {
		if other.id == u.id {
			continue
		}
		sendHello(other, u)
		sendMyINFO(other, u)
	}
	u.Send(u.myinfoCache)
	u.Send(formatNickList(nickNames(h.dir.LoggedInUsers())))
	if len(h.dir.Ops()) > 0 {
		u.Send(formatOpList(nickNames(h.dir.Ops())))
	}
	h.sendUserCommands(u)
}

// announceQuit broadcasts $Quit to every remaining logged-in user (spec §7.2
// "$Quit is broadcast only if they were in users").
func (h *Hub) announceQuit(nick string) {
	h.broadcastToUsers(formatQuit(nick))
}

func nickNames(users []*User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.nick)
	}
	return out
}

// sendUserCommands replays the usercommand menu to u, filtered by
// permission bits and bot-exclusion (spec §6 "$UserCommand 255 7 |" clear
// frame followed by one $UserCommand per entry).
func (h *Hub) sendUserCommands(u *User) {
	if !u.supports["UserCommand"] {
		return
	}
	u.Send(frameUserCommandClear)
	for _, uc := range h.dir.usercommands {
		if u.op && uc.Permission&UserCommandOp == 0 {
			continue
		}
		if !u.op && uc.Permission&UserCommandRegular == 0 {
			continue
		}
		if u.IsBot() && uc.Permission&UserCommandBotExcluded != 0 {
			continue
		}
		u.Send(formatUserCommand(uc))
	}
}
