package main

import (
	"fmt"
	"strconv"
	"strings"
)

type searchFields struct {
	host string
	rest string
}

// parseSearch splits "<host> <rest>" (spec §6 "$Search <host> <rest>|").
func parseSearch(u *User, arg string) (any, error) {
	if len(arg) > u.limits.MaxSearchSize {
		return nil, fmt.Errorf("search too large")
	}
	sp := strings.IndexByte(arg, ' ')
	if sp < 0 {
		return nil, fmt.Errorf("missing host/rest separator")
	}
	return searchFields{host: arg[:sp], rest: arg[sp+1:]}, nil
}

// checkSearch enforces spec §4.5 "Search: size bounded, rate-window
// enforced, datatype in {0..9}, host must be Hub:<own-nick> or ip:port".
func checkSearch(h *Hub, u *User, parsed any) (any, bool, error) {
	f := parsed.(searchFields)

	if strings.HasPrefix(f.host, "Hub:") {
		if strings.TrimPrefix(f.host, "Hub:") != u.nick {
			return nil, false, fmt.Errorf("Hub: search host must be own nick")
		}
	} else if !strings.Contains(f.host, ":") {
		return nil, false, fmt.Errorf("search host must be Hub:<nick> or ip:port")
	}

	fields := strings.Split(f.rest, "?")
	if len(fields) < 3 {
		return nil, false, fmt.Errorf("malformed search body")
	}
	dataType, convErr := strconv.Atoi(fields[len(fields)-2])
	if convErr != nil || dataType < 0 || dataType > 9 {
		return nil, false, fmt.Errorf("invalid search datatype")
	}

	if !u.searchWindow.admit(nowFunc(), period(u.limits.TimePeriod), u.limits.MaxSearchesPerTimePeriod) {
		return nil, false, nil
	}
	return f, true, nil
}

// gotSearch broadcasts the exact frame to every logged-in user (spec §8
// scenario 6: "the exact frame, including the Hub:alice host, is appended
// to every logged-in user's outbound buffer").
func gotSearch(h *Hub, u *User, args any) {
	f := args.(searchFields)
	h.broadcastToUsers(formatSearch(f.host, f.rest))
}

type srFields struct {
	nick              string
	path              string
	size, free, total int64
	hubname, hubhost  string
	requestor         string
}

// parseSR parses "<nick> <path>\x05<size> <free>/<total>\x05<hubname>
// (<hubhost>)\x05<requestor>" (spec §4.5 "SR"). The requestor is its own
// trailing \x05 field, not text tacked onto the hubname/hubhost field; a
// handful of older clients omit it, so 3 or 4 \x05-delimited fields are
// both accepted, with the requestor taken as whichever field is last.
func parseSR(u *User, arg string) (any, error) {
	parts := strings.Split(arg, "\x05")
	if len(parts) < 3 || len(parts) > 4 {
		return nil, fmt.Errorf("malformed SR: expected 3 or 4 \\x05-delimited fields")
	}
	nickPath := strings.SplitN(parts[0], " ", 2)
	if len(nickPath) != 2 {
		return nil, fmt.Errorf("missing path")
	}
	sizeFreeTotal := strings.Fields(parts[1])
	if len(sizeFreeTotal) != 2 {
		return nil, fmt.Errorf("malformed size/free/total")
	}
	size, _ := strconv.ParseInt(sizeFreeTotal[0], 10, 64)
	freeTotal := strings.SplitN(sizeFreeTotal[1], "/", 2)
	if len(freeTotal) != 2 {
		return nil, fmt.Errorf("malformed free/total")
	}
	free, _ := strconv.ParseInt(freeTotal[0], 10, 64)
	total, _ := strconv.ParseInt(freeTotal[1], 10, 64)

	hubnameHost := parts[2]
	open := strings.LastIndexByte(hubnameHost, '(')
	closeParen := strings.LastIndexByte(hubnameHost, ')')
	hubname, hubhost := hubnameHost, ""
	if open >= 0 && closeParen > open {
		hubname = strings.TrimSpace(hubnameHost[:open])
		hubhost = hubnameHost[open+1 : closeParen]
	}

	requestor := strings.TrimSpace(parts[len(parts)-1])

	return srFields{
		nick: nickPath[0], path: nickPath[1],
		size: size, free: free, total: total,
		hubname: hubname, hubhost: hubhost, requestor: requestor,
	}, nil
}

// checkSR validates against the requestor's presence and forwards only to
// them (spec §4.5 "SR: ... validated against requestor's presence;
// forwarded only to the requestor").
func checkSR(h *Hub, u *User, parsed any) (any, bool, error) {
	f := parsed.(srFields)
	if f.requestor == "" {
		return nil, false, fmt.Errorf("missing requestor")
	}
	if _, ok := h.dir.users[f.requestor]; !ok {
		return nil, false, nil // requestor no longer present: drop silently
	}
	return f, true, nil
}

func gotSR(h *Hub, u *User, args any) {
	f := args.(srFields)
	target := h.dir.users[f.requestor]
	target.Send(formatSR(f.nick, f.path, f.size, f.free, f.total, f.hubname, f.hubhost))
}

// ConnectToMe / RevConnectToMe: relay to the named target if logged in
// (spec §4.5). ConnectToMe is relayed with the sender's nick in place of the
// target nick; RevConnectToMe is relayed unchanged.
func cmdConnectToMe(h *Hub, u *User, arg string) {
	fields := strings.Fields(arg)
	if len(fields) < 2 {
		return
	}
	target, ok := h.dir.users[fields[0]]
	if !ok {
		return
	}
	target.Send(formatConnectToMe(u.nick, strings.Join(fields[1:], " ")))
}

func cmdRevConnectToMe(h *Hub, u *User, arg string) {
	fields := strings.Fields(arg)
	if len(fields) < 2 {
		return
	}
	target, ok := h.dir.users[fields[1]]
	if !ok {
		return
	}
	target.Send(formatRevConnectToMe(fields[0], fields[1]))
}
