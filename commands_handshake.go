package main

import (
	"fmt"
	"strings"
)

// Key: handshake value, stored but unused (spec §3, §4.5 pre-validate set).
func cmdKey(h *Hub, u *User, arg string) {
	u.key = arg
}

// Supports: records the client's advertised extension tokens. The hub's own
// tokens are not sent here; gotValidateNick sends them.
func cmdSupports(h *Hub, u *User, arg string) {
	for _, tok := range strings.Fields(arg) {
		u.supports[tok] = true
	}
}

// ValidateNick (spec §4.5): nick must be non-empty, <= MaxNickLength, and
// contain none of "$<>% \t\n\r". Same-IP collision removes the prior
// session; otherwise the prior session gets a keep-alive and the new one is
// rejected. Both branches register the nick in nicks at this point (an
// account nick is held while its password is awaited, not only after MyPass
// succeeds); accounts then get $GetPass, others $Hello.
func parseValidateNick(u *User, arg string) (any, error) {
	nick := arg
	if nick == "" {
		return nil, fmt.Errorf("empty nick")
	}
	if len(nick) > u.limits.MaxNickLength {
		return nil, fmt.Errorf("nick too long")
	}
	if strings.ContainsAny(nick, "$<>% \t\n\r") {
		return nil, fmt.Errorf("nick contains forbidden characters")
	}
	return nick, nil
}

func checkValidateNick(h *Hub, u *User, parsed any) (any, bool, error) {
	nick := parsed.(string)
	if prior, exists := h.dir.nicks[nick]; exists {
		if prior.RemoteIP() == u.RemoteIP() {
			h.removeuser(prior)
		} else {
			prior.Send("|") // keep-alive to the existing holder of the nick
			u.Send(frameValidateDenied)
			u.ignoreMessages = true
			return nil, false, nil
		}
	}
	return nick, true, nil
}

func gotValidateNick(h *Hub, u *User, args any) {
	nick := args.(string)
	u.nick = nick
	h.dir.RegisterNick(nick, u)
	if acct, ok := h.dir.accounts[nick]; ok {
		u.account = acct
		u.op = acct.Op
		u.state = stateAwaitPass
		u.validCommands = privilegeSet(phaseAwaitingPassword)
		u.Send(formatSupports(hubSupportedTokens))
		u.Send(frameGetPass)
		return
	}
	u.state = stateAwaitMyINFO
	u.validCommands = privilegeSet(phasePostHelloPreMyINFO)
	u.Send(formatSupports(hubSupportedTokens))
	u.Send(formatHello(nick))
}

func badValidateNick(h *Hub, u *User, parsed any) {
	// malformed nick: drop silently, connection stays in NEW.
}

// MyPass (spec §4.5): equality against account password. Success grants the
// Version/GetNickList/MyINFO set and, for op accounts, a logged-in
// notification. Failure buffers $BadPass and sets ignoremessages.
func parseMyPass(u *User, arg string) (any, error) {
	return arg, nil
}

func gotMyPass(h *Hub, u *User, args any) {
	password := args.(string)
	if u.account == nil || u.account.Password != password {
		u.Send(frameBadPass)
		u.ignoreMessages = true
		u.state = stateDraining
		return
	}
	u.state = stateAwaitMyINFO
	u.validCommands = privilegeSet(phasePostHelloPreMyINFO)
	u.notifySpammers = strings.Contains(u.account.Args, "notifyspammers")
	if u.op {
		u.Send(formatLoggedIn(u.nick))
	}
	u.Send(formatHello(u.nick))
}

// Version: trivial acknowledgement (spec §4.5, §6).
func cmdVersion(h *Hub, u *User, arg string) {}

// GetNickList: send the current nick list (spec §4.5, §6).
func cmdGetNickList(h *Hub, u *User, arg string) {
	u.givenNickList = true
	u.Send(formatNickList(nickNames(h.dir.LoggedInUsers())))
}

// GetINFO: resend the named user's cached MyINFO (spec §4.5).
func cmdGetINFO(h *Hub, u *User, arg string) {
	fields := strings.Fields(arg)
	if len(fields) < 1 {
		return
	}
	target, ok := h.dir.users[fields[0]]
	if !ok {
		return
	}
	sendMyINFO(u, target)
}

// UserIP: reply with the named user's IP (spec §6 format `$UserIP <nick>
// <ip>$$|`). The nick must be a validated nick (in nicks), and only an op
// may query a nick other than their own.
func cmdUserIP(h *Hub, u *User, arg string) {
	nick := strings.TrimSpace(arg)
	target, ok := h.dir.nicks[nick]
	if !ok {
		return
	}
	if !u.op && nick != u.nick {
		return
	}
	u.Send(formatUserIP(map[string]string{target.nick: target.RemoteIP()}))
}
