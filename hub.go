package main

import (
	"crypto/rand"
	"encoding/hex"
	"net"
	"time"

	"github.com/rs/zerolog/log"

	"dchub/store"
)

// HubConfig holds the protocol-level knobs loaded from the INI config file
// (spec §6 "Persisted files: config").
type HubConfig struct {
	Name        string
	LockString  string
	PrivateKey  string
	MaxUsers    int
	RedirectURL string
	Welcome     string
	Bindings    map[string]string // key -> "ip:port"
	Limits      Limits
}

// DefaultHubConfig returns a minimal runnable configuration.
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		Name:       "Go DC Hub",
		LockString: "EXTENDEDPROTOCOLABCABCABCABCABCABC",
		PrivateKey: randomHex(8),
		MaxUsers:   500,
		Bindings:   map[string]string{"default": ":411"},
		Limits:     DefaultLimits(),
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// PersistentState is handed to a reloaded Hub's constructor so clients never
// observe a reload as a disconnect (spec §4.7 "Reload", §9 "Hot-reload with
// attribute copy"). It contains exactly the directories, buffers, and
// counters that must survive a code reload.
type PersistentState struct {
	dir       *Directory
	listeners []net.Listener
}

// Hub is the lifecycle controller and the owner of every other component
// (spec §2 component G). Grounded on main.go's wiring shape and room.go's
// Room as the thing main.go wires callbacks into; here Hub plays both
// roles since the hub, unlike the teacher's Room, also owns the listeners
// and the single-threaded loop.
type Hub struct {
	cfg *HubConfig
	dir *Directory

	commands commandTable

	listeners []net.Listener

	stop         bool
	reloadOnExit bool

	store *store.Store // audit log / ban persistence (supplemental)

	metrics *hubMetrics

	reloadBots func(*Hub) // optional extension point (spec §1, §9)
}

// NewHub constructs a fresh hub, optionally resuming from a prior instance's
// PersistentState (spec §4.7 "Reload").
func NewHub(cfg *HubConfig, prior *PersistentState) *Hub {
	h := &Hub{cfg: cfg}
	if prior != nil {
		h.dir = prior.dir
		h.listeners = prior.listeners
		log.Info().Int("sockets", len(h.dir.sockets)).Msg("hub resumed from prior instance")
	} else {
		h.dir = NewDirectory()
	}
	h.commands = h.newCommandTable()
	return h
}

// Bind opens every configured listener (spec §4.7 "bind listeners").
func (h *Hub) Bind() error {
	if len(h.listeners) > 0 {
		return nil // resumed from a reload; listeners already open
	}
	for key, addr := range h.cfg.Bindings {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		log.Info().Str("binding", key).Str("addr", addr).Msg("listening")
		h.listeners = append(h.listeners, ln)
	}
	return nil
}

// Snapshot captures the state that must survive a reload (spec §9).
func (h *Hub) Snapshot() *PersistentState {
	return &PersistentState{dir: h.dir, listeners: h.listeners}
}

// Shutdown closes listeners and every user's connection without draining
// outgoing buffers (spec §4.7 "Shutdown"); the directory indexes are left
// as they are.
func (h *Hub) Shutdown() {
	for _, ln := range h.listeners {
		_ = ln.Close()
	}
	for u := range h.dir.sockets {
		u.Close()
	}
}

// RequestStop implements SIGINT/TERM/ABRT/QUIT/USR1/USR2 (spec §5).
func (h *Hub) RequestStop() { h.stop = true }

// RequestReload implements SIGHUP: "set reloadonexit + stop" (spec §5, §4.7).
func (h *Hub) RequestReload() {
	h.reloadOnExit = true
	h.stop = true
}

// adduser implements the admission policy (spec §4.7 "Admission policy
// (adduser)").
func (h *Hub) adduser(conn net.Conn) {
	ip := ""
	if host, _, err := net.SplitHostPort(conn.RemoteAddr().String()); err == nil {
		ip = host
	}

	if len(h.dir.users) >= h.cfg.MaxUsers {
		frame := frameHubIsFull
		if h.cfg.RedirectURL != "" {
			frame = formatForceMove(h.cfg.RedirectURL)
		}
		_, _ = conn.Write([]byte(frame))
		_ = conn.Close()
		log.Info().Str("ip", ip).Msg("admission rejected: hub full")
		return
	}

	if h.dir.joinTimes.recentlyJoined(time.Now(), ip, joinFloodTime) {
		_ = conn.Close()
		log.Info().Str("ip", ip).Msg("admission rejected: join flood")
		return
	}

	if h.store != nil {
		if banned, reason, err := h.store.IsIPBanned(ip); err == nil && banned {
			_ = conn.Close()
			log.Info().Str("ip", ip).Str("reason", reason).Msg("admission rejected: banned")
			return
		}
	}

	u := NewUser(conn, h.cfg.Limits)
	h.dir.AddSocket(u)
	u.Send(formatLock(h.cfg.LockString, h.cfg.PrivateKey))
	u.Send(formatHubName(h.cfg.Name))
	if h.cfg.Welcome != "" {
		u.Send(h.cfg.Welcome)
	}
	log.Debug().Str("ip", ip).Msg("connection admitted")
}

// removeuser tears a user out of every index it occupies, broadcasting
// $Quit only if it had reached `users` (spec §7.2, §4.5 state DRAINING ->
// CLOSED).
func (h *Hub) removeuser(u *User) {
	wasLoggedIn := false
	if cur, ok := h.dir.users[u.nick]; ok && cur.id == u.id {
		wasLoggedIn = true
	}
	nick := u.nick
	h.dir.RemoveUser(u)
	u.Close()
	if wasLoggedIn {
		h.announceQuit(nick)
	}
}
