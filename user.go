package main

import (
	"net"
	"time"

	"github.com/google/uuid"
)

// sessionState tracks a socket's position in the protocol state machine
// (spec §4.5 "State machine (per socket)").
type sessionState int

const (
	stateNew sessionState = iota
	stateAwaitPass
	stateAwaitMyINFO
	stateActive
	stateDraining
	stateClosed
)

// session is the capability common to both real clients and in-process
// bots (spec §9 "Bots that impersonate users"): broadcast code is
// polymorphic over this interface so presence fan-out never needs to know
// whether a recipient has a socket.
type session interface {
	Nick() string
	Send(frame string)
	Close()
	IsBot() bool
}

// User is a connected client or an in-process bot (spec §3 "User").
type User struct {
	id uuid.UUID // session identity, compared on object-identity-scoped removal (spec §9)

	conn net.Conn // nil for bots
	addr string

	nick        string
	description string
	tag         string
	speed       string
	speedClass  byte
	email       string
	shareSize   int64
	key         string // opaque handshake value, stored but unused (spec §3)

	supports map[string]bool // extension tokens the client advertised

	myinfoCache string // cached $MyINFO broadcast string

	limits Limits

	commandWindow window
	searchWindow  window
	myinfoWindow  window
	chatWindow    chatWindow

	incoming []string // in-flight frames; last element is the open partial (spec §3)
	outgoing []byte   // outgoing byte buffer

	state sessionState

	loggedIn       bool
	op              bool
	ignoreMessages  bool
	givenNickList   bool
	notifySpammers  bool

	validCommands map[string]bool // allowed-command set for the current phase

	account *Account // non-nil once matched to an account

	lastActivity time.Time

	bot *Bot // non-nil if this User wraps an in-process bot
}

// NewUser constructs a User in the NEW state, entering no directory index
// yet (the caller registers it in sockets immediately after, per spec §3
// "Lifecycle").
func NewUser(conn net.Conn, limits Limits) *User {
	addr := ""
	if conn != nil {
		addr = conn.RemoteAddr().String()
	}
	u := &User{
		id:           uuid.New(),
		conn:         conn,
		addr:         addr,
		supports:     make(map[string]bool),
		limits:       limits,
		incoming:     []string{""},
		state:        stateNew,
		lastActivity: time.Now(),
	}
	u.validCommands = privilegeSet(phasePreValidate)
	return u
}

func (u *User) Nick() string { return u.nick }

// Send appends frame to the outgoing buffer. Callers at the broadcast layer
// are responsible for skipping ignoremessages users (spec §3 invariant:
// "outgoing is never emitted for a user with ignoremessages=true; however,
// already-buffered bytes must be drained before the user is removed") —
// rejection frames like $BadPass/$HubIsFull are sent via Send before
// ignoremessages is set, and must still flush.
func (u *User) Send(frame string) {
	u.outgoing = append(u.outgoing, frame...)
}

func (u *User) Close() {
	if u.conn != nil {
		_ = u.conn.Close()
	}
}

func (u *User) IsBot() bool { return u.bot != nil }

func (u *User) RemoteIP() string {
	host, _, err := net.SplitHostPort(u.addr)
	if err != nil {
		return u.addr
	}
	return host
}

// protocol phases for privilege-set lookup (spec §4.5 "Privilege sets").
type phase int

const (
	phasePreValidate phase = iota
	phaseAwaitingPassword
	phasePostHelloPreMyINFO
	phaseLoggedIn
	phaseOp
)

func privilegeSet(p phase) map[string]bool {
	set := map[string]bool{}
	add := func(names ...string) {
		for _, n := range names {
			set[n] = true
		}
	}
	switch p {
	case phasePreValidate:
		add("Key", "Supports", "ValidateNick")
	case phaseAwaitingPassword:
		add("MyPass")
	case phasePostHelloPreMyINFO:
		add("Version", "GetNickList", "MyINFO")
	case phaseLoggedIn:
		add("_ChatMessage", "_PrivateMessage", "MyINFO", "GetINFO", "GetNickList",
			"Search", "SR", "ConnectToMe", "RevConnectToMe", "UserIP")
	case phaseOp:
		for k := range privilegeSet(phaseLoggedIn) {
			set[k] = true
		}
		add("OpForceMove", "Kick", "Close", "ReloadBots")
	}
	return set
}
