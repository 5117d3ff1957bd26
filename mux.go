package main

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Run drives the single-threaded readiness loop (spec §2 component A,
// §4.1, §5 "Scheduling model: single-threaded cooperative"). This is the
// one place the architecture deliberately departs from the teacher's
// goroutine-per-connection model (server.go's Run/handleWebSocketClient):
// spec §5 mandates no locking on the directories or per-user queues,
// which requires all state mutation to happen on one loop thread.
//
// net.Conn.SetReadDeadline/SetWriteDeadline substitute for the source's
// select() + small per-socket timeout (spec §4.1 rationale: "an
// implementation using nonblocking I/O may omit it" — here the deadline
// plays the same false-positive-mitigation role without needing epoll).
func (h *Hub) Run(ctx context.Context) error {
	if err := h.Bind(); err != nil {
		return err
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for !h.stop {
		select {
		case <-ctx.Done():
			h.stop = true
			continue
		case <-ticker.C:
		}

		h.acceptReady()
		h.pumpUsers()
	}

	if !h.reloadOnExit {
		h.Shutdown()
	}
	return nil
}

// acceptReady accepts one pending connection per listener without blocking
// past sockTimeout (spec §4.1 steps 1-4).
func (h *Hub) acceptReady() {
	for _, ln := range h.listeners {
		tcpLn, ok := ln.(*net.TCPListener)
		if !ok {
			continue
		}
		_ = tcpLn.SetDeadline(time.Now().Add(sockTimeout))
		conn, err := tcpLn.Accept()
		if err != nil {
			if !isTimeout(err) {
				log.Warn().Err(err).Msg("listener accept error")
			}
			continue
		}
		h.adduser(conn)
	}
}

// pumpUsers drives one read/write pass over every registered socket (spec
// §4.1 steps 5-7) and, first, processes any already-framed commands queued
// from a prior tick (spec §4.7 "Main loop: process queued commands for
// each user, then drive I/O once").
func (h *Hub) pumpUsers() {
	for u := range h.dir.sockets {
		if u.conn == nil {
			continue // bot: no transport
		}
		h.processQueued(u)
		if u.ignoreMessages && len(u.outgoing) == 0 {
			h.removeuser(u)
			continue
		}
		h.readOnce(u)
		h.writeOnce(u)
	}
}

// processQueued enforces the queue-length trim (spec §4.4: "excess frames
// at the front of the queue are discarded down to one below the limit —
// preserving any open partial") and the per-period command cap, then
// dispatches every complete frame in order (spec §5 "frames are processed
// in arrival order").
func (h *Hub) processQueued(u *User) {
	complete := u.incoming[:len(u.incoming)-1]
	if len(complete) > u.limits.MaxQueuedCommands {
		drop := len(complete) - (u.limits.MaxQueuedCommands - 1)
		log.Warn().Str("nick", u.nick).Int("dropped", drop).Msg("flood shedding: queue trimmed")
		if h.metrics != nil {
			h.metrics.dropped.Add(float64(drop))
		}
		complete = complete[drop:]
		u.incoming = append(append([]string{}, complete...), u.incoming[len(u.incoming)-1])
	}

	now := nowFunc()
	for len(u.incoming) > 1 {
		if !u.commandWindow.admit(now, period(u.limits.TimePeriod), u.limits.MaxCommandsPerTimePeriod) {
			break // backpressure: bytes are still read, dispatch is skipped this tick
		}
		frame := u.incoming[0]
		u.incoming = u.incoming[1:]

		if len(frame) > u.limits.MaxCommandSize {
			log.Debug().Str("nick", u.nick).Msg("command exceeds max size, dropped")
			if h.metrics != nil {
				h.metrics.dropped.Inc()
			}
			continue
		}
		if hasBadChars(frame) {
			log.Debug().Str("nick", u.nick).Msg("command contains forbidden characters, dropped")
			if h.metrics != nil {
				h.metrics.dropped.Inc()
			}
			continue
		}
		h.dispatch(u, frame)
	}
}

// readOnce implements spec §4.1 step 5 (read) and step 6 (framing).
func (h *Hub) readOnce(u *User) {
	_ = u.conn.SetReadDeadline(time.Now().Add(sockTimeout))
	buf := make([]byte, readBufSize)
	n, err := u.conn.Read(buf)
	if err != nil {
		if isTimeout(err) {
			return
		}
		h.removeuser(u)
		return
	}
	if n == 0 {
		h.removeuser(u)
		return
	}
	frameIncoming(u, buf[:n])
}

// frameIncoming implements spec §4.1 step 6: split on '|', concatenate the
// first piece onto the open partial, append the remainder; the final
// element is the new open partial.
func frameIncoming(u *User, chunk []byte) {
	pieces := strings.Split(string(chunk), "|")
	last := len(u.incoming) - 1
	u.incoming[last] += pieces[0]
	if len(pieces) > 1 {
		u.incoming = append(u.incoming, pieces[1:]...)
	}
}

// writeOnce implements spec §4.1 step 7: attempt to send outgoing; short
// writes are tolerated.
func (h *Hub) writeOnce(u *User) {
	if len(u.outgoing) == 0 {
		return
	}
	_ = u.conn.SetWriteDeadline(time.Now().Add(sockTimeout))
	n, err := u.conn.Write(u.outgoing)
	if n > 0 {
		u.outgoing = u.outgoing[n:]
	}
	if err != nil && !isTimeout(err) {
		h.removeuser(u)
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
