package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"dchub/store"
)

// Version is the current server version. Set at build time via -ldflags.
var Version = "0.1.0-dev"

// AdminAPI is a supplemental REST surface for operators: health, a
// directory snapshot, audit log, bans, and Prometheus metrics. It is
// outside the spec's A-G core (the protocol itself is plain NMDC text over
// TCP) but gives the teacher's admin-API pattern a home instead of being
// dropped.
//
// Grounded on the teacher's api.go APIServer/NewAPIServer/registerRoutes
// structure and middleware stack.
type AdminAPI struct {
	hub          *Hub
	store        *store.Store
	accountsPath string
	echo         *echo.Echo
}

// NewAdminAPI constructs an AdminAPI and registers all routes. accountsPath
// is where PUT /api/accounts/:nick persists operator-created accounts
// (spec §6 accounts file, kept as the accounts system of record).
func NewAdminAPI(hub *Hub, st *store.Store, accountsPath string) *AdminAPI {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Msg("admin api request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = jsonErrorHandler

	a := &AdminAPI{hub: hub, store: st, accountsPath: accountsPath, echo: e}
	a.registerRoutes()
	return a
}

func (a *AdminAPI) registerRoutes() {
	a.echo.GET("/health", a.handleHealth)
	a.echo.GET("/api/version", a.handleVersion)
	a.echo.GET("/api/directory", a.handleDirectory)
	a.echo.GET("/api/audit", a.handleGetAuditLog)
	a.echo.GET("/api/bans", a.handleGetBans)
	a.echo.POST("/api/bans", a.handleCreateBan)
	a.echo.DELETE("/api/bans/:id", a.handleDeleteBan)
	a.echo.PUT("/api/accounts/:nick", a.handlePutAccount)
	a.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Run starts the Echo HTTP server on addr and blocks until ctx is cancelled.
func (a *AdminAPI) Run(ctx context.Context, addr string) {
	go func() {
		if err := a.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("admin api server error")
		}
	}()
	<-ctx.Done()
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.echo.Shutdown(shutCtx); err != nil {
		log.Warn().Err(err).Msg("admin api shutdown")
	}
}

func (a *AdminAPI) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type versionResponse struct {
	Version string `json:"version"`
}

func (a *AdminAPI) handleVersion(c echo.Context) error {
	return c.JSON(http.StatusOK, versionResponse{Version: Version})
}

// directorySnapshot is the JSON shape returned by GET /api/directory.
type directorySnapshot struct {
	Sockets int      `json:"sockets"`
	Nicks   int      `json:"nicks"`
	Users   []string `json:"users"`
	Ops     []string `json:"ops"`
	Bots    []string `json:"bots"`
}

func (a *AdminAPI) handleDirectory(c echo.Context) error {
	d := a.hub.dir
	snap := directorySnapshot{
		Sockets: len(d.sockets),
		Nicks:   len(d.nicks),
	}
	for nick := range d.users {
		snap.Users = append(snap.Users, nick)
	}
	for nick := range d.ops {
		snap.Ops = append(snap.Ops, nick)
	}
	for nick := range d.bots {
		snap.Bots = append(snap.Bots, nick)
	}
	return c.JSON(http.StatusOK, snap)
}

func (a *AdminAPI) handleGetAuditLog(c echo.Context) error {
	action := c.QueryParam("action")
	entries, err := a.store.GetAuditLog(action, 200)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}

func (a *AdminAPI) handleGetBans(c echo.Context) error {
	bans, err := a.store.GetBans()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, bans)
}

// createBanRequest is the JSON body for POST /api/bans (SPEC_FULL.md DOMAIN
// STACK: a ban by nick and/or ip, with a reason and optional expiry).
type createBanRequest struct {
	Nick      string `json:"nick"`
	IP        string `json:"ip"`
	Reason    string `json:"reason"`
	BannedBy  string `json:"banned_by"`
	DurationS int    `json:"duration_s"`
}

func (a *AdminAPI) handleCreateBan(c echo.Context) error {
	var req createBanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Nick == "" && req.IP == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "nick or ip is required")
	}
	id, err := a.store.InsertBan(req.Nick, req.IP, req.Reason, req.BannedBy, req.DurationS)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if req.Nick != "" {
		if target, ok := a.hub.dir.users[req.Nick]; ok {
			a.hub.removeuser(target)
		}
	}
	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (a *AdminAPI) handleDeleteBan(c echo.Context) error {
	banID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ban id")
	}
	if err := a.store.DeleteBan(banID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// putAccountRequest is the JSON body for PUT /api/accounts/:nick.
type putAccountRequest struct {
	Password string `json:"password"`
	Op       bool   `json:"op"`
	Args     string `json:"args"`
}

// handlePutAccount creates or updates an account and persists the accounts
// file atomically, then refreshes the in-memory directory so the change
// takes effect without a restart (spec §6 accounts, §5 atomic rewrite).
func (a *AdminAPI) handlePutAccount(c echo.Context) error {
	nick := c.Param("nick")
	if nick == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "nick is required")
	}
	var req putAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	accounts, err := LoadAccounts(a.accountsPath)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	accounts[nick] = &Account{Nick: nick, Password: req.Password, Op: req.Op, Args: req.Args}
	if err := SaveAccounts(a.accountsPath, accounts); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	a.hub.dir.accounts[nick] = accounts[nick]
	return c.JSON(http.StatusOK, accounts[nick])
}

func jsonErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	_ = c.JSON(code, map[string]string{"error": msg})
}
