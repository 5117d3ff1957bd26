package main

// Account is a configured nick/password pair matched at login (spec §3
// "Account").
type Account struct {
	Nick     string
	Password string
	Op       bool
	Args     string
}

// UserCommand permission bits (spec §3 "UserCommand").
const (
	UserCommandRegular     = 1
	UserCommandOp          = 2
	UserCommandNamedInArgs = 4
	UserCommandBotExcluded = 8
)

// UserCommand is a client-menu entry pushed to clients advertising the
// UserCommand extension (spec §3).
type UserCommand struct {
	Name       string
	Permission int
	Position   float64
	Type       int
	Context    int
	Command    string
}

// Directory holds every process-wide index (spec §3 "Directory"). All
// mutation happens on the loop thread; no locking is needed (spec §5).
//
// Grounded on room.go's Room (clients map[uint16]*Client,
// GetClient/AddClient/AddOrReplaceClient/RemoveClient) — the same
// directory-of-live-sessions shape, generalized to the hub's five
// overlapping index sets.
type Directory struct {
	sockets map[*User]bool       // every accepted connection
	nicks   map[string]*User     // validated nicks
	users   map[string]*User     // logged-in users (subset of nicks)
	ops     map[string]*User     // op users (subset of users)
	bots    map[string]*Bot

	accounts     map[string]*Account
	usercommands map[string]*UserCommand

	joinTimes joinTimes
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		sockets:      make(map[*User]bool),
		nicks:        make(map[string]*User),
		users:        make(map[string]*User),
		ops:          make(map[string]*User),
		bots:         make(map[string]*Bot),
		accounts:     make(map[string]*Account),
		usercommands: make(map[string]*UserCommand),
	}
}

// AddSocket registers a freshly-accepted connection (spec §3 "enters
// sockets immediately").
func (d *Directory) AddSocket(u *User) {
	d.sockets[u] = true
}

// RemoveSocket drops u from sockets; callers should already have removed it
// from nicks/users/ops/bots via RemoveUser.
func (d *Directory) RemoveSocket(u *User) {
	delete(d.sockets, u)
}

// RegisterNick installs u under nick in the nicks index, replacing (and
// returning) any prior occupant so the caller can notify/evict it (spec
// §4.5 "same-IP collision removes the prior session").
func (d *Directory) RegisterNick(nick string, u *User) (prior *User, ok bool) {
	prior, ok = d.nicks[nick]
	d.nicks[nick] = u
	return prior, ok
}

// PromoteToUser marks a nick-validated session as fully logged in (spec §3
// "enters users and ops on successful login (MyINFO)").
func (d *Directory) PromoteToUser(u *User) {
	d.users[u.nick] = u
	if u.op {
		d.ops[u.nick] = u
	}
}

// RegisterBot installs a bot under its nick in both bots and, if visible,
// users (so it appears in broadcasts indistinguishably from a human).
func (d *Directory) RegisterBot(b *Bot) {
	d.bots[b.user.nick] = b
	d.nicks[b.user.nick] = b.user
	if b.Visible {
		d.users[b.user.nick] = b.user
	}
}

// RemoveUser removes u from every index it may occupy, but only where the
// stored value is still the same object (spec §4.3 "object-identity-scoped"
// — a later login may already have replaced the entry). u.id is compared
// in place of the source's `dict[k] is user` identity check (spec §9).
func (d *Directory) RemoveUser(u *User) {
	if u.nick != "" {
		if cur, ok := d.nicks[u.nick]; ok && cur.id == u.id {
			delete(d.nicks, u.nick)
		}
		if cur, ok := d.users[u.nick]; ok && cur.id == u.id {
			delete(d.users, u.nick)
		}
		if cur, ok := d.ops[u.nick]; ok && cur.id == u.id {
			delete(d.ops, u.nick)
		}
		if b, ok := d.bots[u.nick]; ok && b.user.id == u.id {
			delete(d.bots, u.nick)
		}
	}
	delete(d.sockets, u)
}

// LoggedInUsers returns a snapshot slice of every fully logged-in user,
// suitable for iterating during broadcast (spec §4.6).
func (d *Directory) LoggedInUsers() []*User {
	out := make([]*User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u)
	}
	return out
}

// Ops returns a snapshot slice of every op.
func (d *Directory) Ops() []*User {
	out := make([]*User, 0, len(d.ops))
	for _, u := range d.ops {
		out = append(out, u)
	}
	return out
}
