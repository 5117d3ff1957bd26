package main

import (
	"fmt"
	"strings"
)

type chatFields struct {
	nick string
	text string
}

// parseChatMessage implements the round-trip law partner of formatChat
// (spec §8 "parse_ChatMessage ∘ format equals identity on well-formed
// inputs").
func parseChatMessage(u *User, arg string) (any, error) {
	if !strings.HasPrefix(arg, "<") {
		return nil, fmt.Errorf("missing leading '<'")
	}
	end := strings.IndexByte(arg, '>')
	if end < 0 {
		return nil, fmt.Errorf("missing closing '>'")
	}
	nick := arg[1:end]
	rest := arg[end+1:]
	if !strings.HasPrefix(rest, " ") {
		return nil, fmt.Errorf("missing space after nick")
	}
	return chatFields{nick: nick, text: rest[1:]}, nil
}

// checkChatMessage enforces spec §4.5 "_ChatMessage: owning nick must equal
// session nick ... message windows enforced (size, newlines, aggregate
// chars / messages / newlines per period)".
func checkChatMessage(h *Hub, u *User, parsed any) (any, bool, error) {
	f := parsed.(chatFields)
	if f.nick != u.nick {
		return nil, false, fmt.Errorf("chat nick mismatch")
	}
	if len(f.text) > u.limits.MaxMessageSize {
		return nil, false, fmt.Errorf("message too large")
	}
	newlines := strings.Count(f.text, "\n")
	if newlines > u.limits.MaxNewlinesPerMessage {
		return nil, false, fmt.Errorf("too many newlines")
	}
	if !u.chatWindow.admit(nowFunc(), period(u.limits.TimePeriod), len(f.text), newlines,
		u.limits.MaxMessagesPerTimePeriod, u.limits.MaxCharactersPerTimePeriod, u.limits.MaxNewlinesPerTimePeriod) {
		if u.notifySpammers {
			giveSpamNotification(u)
		}
		return nil, false, nil
	}
	return f, true, nil
}

// giveSpamNotification appends a <Hub-Security> notice to the offending
// user's own outgoing buffer only, never broadcast (spec §8 scenario 4,
// original_source/dc/hub.py give_SpamNotification).
func giveSpamNotification(u *User) {
	u.Send(formatChat("Hub-Security", "you have exceeded the chat rate limit"))
}

// gotChatMessage broadcasts to every logged-in user, rewriting the
// "/me"/"+me" prefix to "* nick ..." (spec §4.5, SUPPLEMENTED FEATURES in
// SPEC_FULL.md: both spellings honored).
func gotChatMessage(h *Hub, u *User, args any) {
	f := args.(chatFields)
	var frame string
	switch {
	case strings.HasPrefix(f.text, "/me "):
		frame = formatMeAction(f.nick, strings.TrimPrefix(f.text, "/me "))
	case strings.HasPrefix(f.text, "+me "):
		frame = formatMeAction(f.nick, strings.TrimPrefix(f.text, "+me "))
	default:
		frame = formatChat(f.nick, f.text)
	}
	h.broadcastToUsers(frame)
}

// privateMessageFields is the parsed result of $To: (spec §4.5
// "_PrivateMessage: form $To: X From: Y $<Z> text|").
type privateMessageFields struct {
	to, from, nick, text string
}

func parsePrivateMessage(u *User, arg string) (any, error) {
	// arg is the full frame sans the leading '$' (dispatch rewrote "To:" to
	// "_PrivateMessage" but preserved the original text starting at "To:").
	if !strings.HasPrefix(arg, "To: ") {
		return nil, fmt.Errorf("missing To: prefix")
	}
	rest := strings.TrimPrefix(arg, "To: ")
	toEnd := strings.Index(rest, " From: ")
	if toEnd < 0 {
		return nil, fmt.Errorf("missing From:")
	}
	to := rest[:toEnd]
	rest = rest[toEnd+len(" From: "):]

	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return nil, fmt.Errorf("missing body")
	}
	from := rest[:sp]
	body := rest[sp+1:]

	if !strings.HasPrefix(body, "$<") {
		return nil, fmt.Errorf("missing $<nick> marker")
	}
	end := strings.IndexByte(body, '>')
	if end < 0 {
		return nil, fmt.Errorf("missing closing '>' in $<nick>")
	}
	nick := body[2:end]
	text := strings.TrimPrefix(body[end+1:], " ")

	return privateMessageFields{to: to, from: from, nick: nick, text: text}, nil
}

func checkPrivateMessage(h *Hub, u *User, parsed any) (any, bool, error) {
	f := parsed.(privateMessageFields)
	if f.from != u.nick {
		return nil, false, fmt.Errorf("private message from mismatch")
	}
	return f, true, nil
}

// gotPrivateMessage delivers to the named target; bot targets receive the
// text as a command rather than as bytes (spec §4.6).
func gotPrivateMessage(h *Hub, u *User, args any) {
	f := args.(privateMessageFields)
	if bot, isBot := h.dir.bots[f.to]; isBot {
		bot.ProcessCommand(h, u, f.text)
		return
	}
	target, ok := h.dir.users[f.to]
	if !ok {
		return
	}
	target.Send(formatPrivateMessage(f.to, f.from, f.nick, f.text))
}
