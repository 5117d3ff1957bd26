package main

import (
	"fmt"
	"strings"
)

// Wire frame builders (spec §6, verbatim formats). Grounded on the shape of
// protocol.go's ControlMsg helpers — replaced wholesale since the wire
// protocol here is `|`-delimited NMDC text, not JSON.

func formatLock(lockstr, pk string) string {
	return fmt.Sprintf("$Lock %s Pk=%s|", lockstr, pk)
}

func formatHubName(name string) string {
	return fmt.Sprintf("$HubName %s|", name)
}

const frameValidateDenied = "$ValidateDenide|" // spec §6: preserve on-wire misspelling
const frameGetPass = "$GetPass|"
const frameBadPass = "$BadPass|"
const frameHubIsFull = "$HubIsFull|"

func formatLoggedIn(nick string) string {
	return fmt.Sprintf("$LogedIn %s|", nick) // spec §6: preserve on-wire misspelling
}

func formatHello(nick string) string {
	return fmt.Sprintf("$Hello %s|", nick)
}

func formatNickList(nicks []string) string {
	return fmt.Sprintf("$NickList %s$$|", strings.Join(nicks, "$$"))
}

func formatOpList(nicks []string) string {
	return fmt.Sprintf("$OpList %s$$|", strings.Join(nicks, "$$"))
}

// formatMyINFO renders a user's cached self-description broadcast
// (spec §6: `$MyINFO $ALL <nick> <desc><tag>$ $<speed><classbyte>$<email>$<size>$|`).
func formatMyINFO(nick, desc, tag, speed string, speedClass byte, email string, shareSize int64) string {
	return fmt.Sprintf("$MyINFO $ALL %s %s%s$ $%s%c$%s$%d$|",
		nick, desc, tag, speed, speedClass, email, shareSize)
}

func formatQuit(nick string) string {
	return fmt.Sprintf("$Quit %s|", nick)
}

func formatSearch(host, rest string) string {
	return fmt.Sprintf("$Search %s %s|", host, rest)
}

func formatSR(nick, path string, size, free, total int64, hubname, hubhost string) string {
	return fmt.Sprintf("$SR %s %s\x05%d %d/%d\x05%s (%s)|", nick, path, size, free, total, hubname, hubhost)
}

func formatConnectToMe(nick, addr string) string {
	return fmt.Sprintf("$ConnectToMe %s %s|", nick, addr)
}

func formatRevConnectToMe(sender, receiver string) string {
	return fmt.Sprintf("$RevConnectToMe %s %s|", sender, receiver)
}

func formatForceMove(url string) string {
	return fmt.Sprintf("$ForceMove %s|", url)
}

func formatUserIP(pairs map[string]string) string {
	var sb strings.Builder
	sb.WriteString("$UserIP ")
	for nick, ip := range pairs {
		sb.WriteString(nick)
		sb.WriteByte(' ')
		sb.WriteString(ip)
		sb.WriteString("$$")
	}
	sb.WriteByte('|')
	return sb.String()
}

const frameUserCommandClear = "$UserCommand 255 7 |"

func formatUserCommand(uc *UserCommand) string {
	return fmt.Sprintf("$UserCommand %d %d %d %d %s|", uc.Permission, int(uc.Position), uc.Type, uc.Context, uc.Command)
}

func formatSupports(tokens []string) string {
	return fmt.Sprintf("$Supports %s|", strings.Join(tokens, " "))
}

func formatChat(nick, message string) string {
	return fmt.Sprintf("<%s> %s|", nick, message)
}

func formatMeAction(nick, rest string) string {
	return fmt.Sprintf("* %s %s|", nick, rest)
}

func formatPrivateMessage(to, from, nick, text string) string {
	return fmt.Sprintf("$To: %s From: %s $<%s> %s|", to, from, nick, text)
}

// hubSupportedTokens are the extension tokens advertised by the hub itself
// (spec §6).
var hubSupportedTokens = []string{"NoGetINFO", "NoHello", "UserCommand", "UserIP2"}
