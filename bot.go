package main

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Bot is an in-process pseudo-user (spec §3 "Bot"): it has no socket, is
// indistinguishable from a human on the wire when Visible is true, and
// receives private messages as command input rather than raw bytes.
//
// Grounded on testbot.go's RunTestBot in-process virtual-client pattern,
// adapted from an audio-tone emitter into a command-driven NMDC bot.
type Bot struct {
	user    *User
	Visible bool

	// handle processes one whitespace-split command line addressed to the
	// bot via a private message (spec §4.6 "Bot recipients of private
	// messages bypass serialization and invoke processcommand in-process").
	handle func(hub *Hub, from *User, args []string) string
}

// NewBot creates a bot and its backing User (conn is nil: no socket).
func NewBot(nick string, limits Limits, handle func(hub *Hub, from *User, args []string) string) *Bot {
	u := NewUser(nil, limits)
	u.nick = nick
	u.loggedIn = true
	b := &Bot{user: u, Visible: true, handle: handle}
	u.bot = b
	return b
}

func (b *Bot) User() *User { return b.user }

// ProcessCommand is the bot's processcommand entry point: a private message
// body is split into whitespace-delimited tokens and handed to the
// registered handler, whose return value (if non-empty) is sent back to the
// sender as a private message from the bot.
func (b *Bot) ProcessCommand(hub *Hub, from *User, text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}
	if b.handle == nil {
		return
	}
	reply := b.handle(hub, from, fields)
	if reply == "" {
		return
	}
	from.Send(formatPrivateMessage(from.nick, b.user.nick, b.user.nick, reply))
}

// defaultBotHandler implements the small built-in command set every bot
// supports out of the box (a "help" reminder); hub-specific bots register
// their own handle func via NewBot.
func defaultBotHandler(hub *Hub, from *User, args []string) string {
	switch strings.ToLower(args[0]) {
	case "help":
		return "available commands: help"
	default:
		log.Debug().Str("bot_cmd", args[0]).Str("from", from.nick).Msg("unrecognized bot command")
		return "unknown command"
	}
}
