package main

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// command is the uniform parse/check/act/bad pipeline spec §4.5/§9
// describes as a table keyed by command name, replacing the source's
// dynamic `getattr(self, 'parse' + name)` lookup. Each function is
// optional; a nil hook is simply skipped.
//
// Grounded on client.go's processControl(msg, client, room) — the same
// "one dispatch point per typed command" shape, generalized here into a
// table of per-command records instead of a single switch.
type command struct {
	parse func(u *User, arg string) (any, error)
	check func(h *Hub, u *User, parsed any) (any, bool, error)
	got   func(h *Hub, u *User, args any)
	bad   func(h *Hub, u *User, parsed any)
}

// commandTable is built once at hub startup (see commands_table.go newCommandTable).
type commandTable map[string]*command

// extractCommand implements spec §4.5 "Command name extraction":
//   - leading '<' -> _ChatMessage, argument is the full line
//   - leading '$' -> first token (sans '$') is the name; "$To:" rewrites to
//     _PrivateMessage; remainder after one space is the argument
//   - otherwise: unrecognized
func extractCommand(frame string) (name string, arg string, ok bool) {
	if frame == "" {
		return "", "", false
	}
	switch frame[0] {
	case '<':
		return "_ChatMessage", frame, true
	case '$':
		rest := frame[1:]
		sp := strings.IndexByte(rest, ' ')
		var token string
		if sp < 0 {
			token, arg = rest, ""
		} else {
			token, arg = rest[:sp], rest[sp+1:]
		}
		if token == "To:" {
			return "_PrivateMessage", frame[1:], true
		}
		return token, arg, true
	default:
		return "", "", false
	}
}

// dispatch runs the uniform pipeline for one frame against one user (spec
// §4.5 steps 1-4).
func (h *Hub) dispatch(u *User, frame string) {
	name, arg, ok := extractCommand(frame)
	if !ok {
		log.Debug().Str("nick", u.nick).Msg("unrecognized frame, dropped")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Str("cmd", name).Str("nick", u.nick).Msg("command handler panicked")
		}
	}()

	if !u.validCommands[name] {
		log.Debug().Str("nick", u.nick).Str("cmd", name).Msg("command not permitted in current phase, dropped")
		return
	}

	cmd, ok := h.commands[name]
	if !ok {
		log.Debug().Str("cmd", name).Msg("no handler registered, dropped")
		return
	}

	var parsed any
	var err error
	if cmd.parse != nil {
		parsed, err = cmd.parse(u, arg)
		if err != nil {
			log.Debug().Err(err).Str("cmd", name).Str("nick", u.nick).Msg("parse failed")
			if cmd.bad != nil {
				cmd.bad(h, u, nil)
			}
			return
		}
	}

	if cmd.check != nil {
		replaced, proceed, cerr := cmd.check(h, u, parsed)
		if cerr != nil {
			log.Debug().Err(cerr).Str("cmd", name).Str("nick", u.nick).Msg("check failed")
			if cmd.bad != nil {
				cmd.bad(h, u, parsed)
			}
			return
		}
		if !proceed {
			return
		}
		if replaced != nil {
			parsed = replaced
		}
	}

	if cmd.got != nil {
		cmd.got(h, u, parsed)
	}
}
