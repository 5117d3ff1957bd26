package main

import (
	"fmt"
	"strconv"
	"strings"
)

// myinfoFields is the parsed result of a $MyINFO command (spec §4.5
// "parse $ALL <nick> <desc><tag>$ $<speed+classbyte>$<email>$<sharesize>$").
type myinfoFields struct {
	nick        string
	description string
	tag         string
	speed       string
	speedClass  byte
	email       string
	shareSize   int64
}

// parseMyINFO implements the round-trip law partner of formatMyINFO (spec
// §8 "parseMyINFO ∘ formatMyINFO preserves nick, speed, speedclass,
// sharesize and preserves description/tag/email up to their length caps").
func parseMyINFO(u *User, arg string) (any, error) {
	if !strings.HasPrefix(arg, "$ALL ") {
		return nil, fmt.Errorf("missing $ALL prefix")
	}
	rest := arg[len("$ALL "):]
	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return nil, fmt.Errorf("missing nick separator")
	}
	nick, info := rest[:sp], rest[sp+1:]

	// Wire form is "<desc><tag>$ $<speed><classbyte>$<email>$<sharesize>$",
	// i.e. description, a literal space, speed+classbyte, email, sharesize,
	// joined by five '$'. Split on all of them: parts[1] is always the
	// literal space and parts[5] (if present) the trailing empty tail.
	parts := strings.Split(info, "$")
	if len(parts) < 5 {
		return nil, fmt.Errorf("malformed MyINFO body")
	}
	descTag := parts[0]
	speedRaw := parts[2]
	email := parts[3]
	shareSize := parts[4]

	description, tag := descTag, ""
	if idx := strings.IndexByte(descTag, '<'); idx >= 0 {
		description, tag = descTag[:idx], descTag[idx:]
	}

	if speedRaw == "" {
		return nil, fmt.Errorf("missing speed/classbyte")
	}
	speed, classByte := speedRaw[:len(speedRaw)-1], speedRaw[len(speedRaw)-1]

	size, _ := strconv.ParseInt(strings.TrimSpace(shareSize), 10, 64)

	return myinfoFields{
		nick:        nick,
		description: description,
		tag:         tag,
		speed:       speed,
		speedClass:  classByte,
		email:       email,
		shareSize:   size,
	}, nil
}

// checkMyINFO enforces field length caps, the per-period cap, and that the
// nick matches the session (spec §4.5).
func checkMyINFO(h *Hub, u *User, parsed any) (any, bool, error) {
	f := parsed.(myinfoFields)
	if f.nick != u.nick {
		return nil, false, fmt.Errorf("nick mismatch: got %q want %q", f.nick, u.nick)
	}
	if len(f.description) > u.limits.MaxDescriptionLength {
		f.description = f.description[:u.limits.MaxDescriptionLength]
	}
	if len(f.tag) > u.limits.MaxTagLength {
		f.tag = f.tag[:u.limits.MaxTagLength]
	}
	if len(f.email) > u.limits.MaxEmailLength {
		f.email = f.email[:u.limits.MaxEmailLength]
	}
	if f.shareSize < u.limits.MinShareSize {
		return nil, false, fmt.Errorf("sharesize below minimum")
	}
	if !u.myinfoWindow.admit(nowFunc(), period(u.limits.TimePeriod), u.limits.MaxMyINFOPerTimePeriod) {
		return nil, false, nil // over the per-period cap: drop silently
	}
	return f, true, nil
}

// gotMyINFO caches the broadcast string and, on first success while
// unlogged in, promotes the user and runs the full presence fan-out (spec
// §4.5 "On first success with all fields set, the user is promoted to
// users/ops and presence broadcasts run").
func gotMyINFO(h *Hub, u *User, args any) {
	f := args.(myinfoFields)
	u.description = f.description
	u.tag = f.tag
	u.speed = f.speed
	u.speedClass = f.speedClass
	u.email = f.email
	u.shareSize = f.shareSize
	u.myinfoCache = formatMyINFO(u.nick, u.description, u.tag, u.speed, u.speedClass, u.email, u.shareSize)

	firstLogin := !u.loggedIn
	if firstLogin {
		u.loggedIn = true
		u.state = stateActive
		u.validCommands = privilegeSet(phaseLoggedIn)
		if u.op {
			for k := range privilegeSet(phaseOp) {
				u.validCommands[k] = true
			}
		}
		h.dir.PromoteToUser(u)
		h.announceLogin(u)
	} else {
		h.broadcastToUsers(u.myinfoCache)
	}
}

// badMyINFO: a malformed MyINFO before login removes the user (spec §7.1
// "for MyINFO before login, it removes the user").
func badMyINFO(h *Hub, u *User, parsed any) {
	if !u.loggedIn {
		h.removeuser(u)
	}
}
