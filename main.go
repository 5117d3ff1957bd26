package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"dchub/store"
)

func main() {
	// Check for CLI subcommands before parsing flags (grounded on the
	// teacher's main.go subcommand-before-flags check).
	if len(os.Args) > 1 {
		cliDB := "dchub.db"
		if RunCLI(os.Args[1:], cliDB) {
			return
		}
	}

	configPath := flag.String("config", "dchub.conf", "hub config file (INI)")
	accountsPath := flag.String("accounts", "dchub.accounts", "accounts file (INI)")
	usercommandsPath := flag.String("usercommands", "dchub.usercommands", "usercommands file (INI)")
	welcomePath := flag.String("welcome", "dchub.welcome", "raw welcome banner text file")
	pidPath := flag.String("pidfile", "dchub.pid", "PID file path (empty to disable)")
	dbPath := flag.String("db", "dchub.db", "SQLite database path (audit log / bans)")
	apiAddr := flag.String("api-addr", ":8080", "admin REST API listen address (empty to disable)")
	logFormat := flag.String("log-format", "console", "log output format: console or json")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	setupLogging(*logFormat, *logLevel)

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	if err := writePIDFile(*pidPath); err != nil {
		log.Warn().Err(err).Msg("write pidfile")
	}
	defer removePIDFile(*pidPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		os.Interrupt, syscall.SIGTERM, syscall.SIGABRT, syscall.SIGQUIT,
		syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGHUP,
	)

	// Collectors live on the default registry, which the admin API's
	// /metrics route serves; every hub instance reuses the same set.
	metrics := newHubMetrics(prometheus.DefaultRegisterer)

	var state *PersistentState
	var prev *Hub
	for {
		hub, err := buildHub(*configPath, *accountsPath, *usercommandsPath, *welcomePath, st, state)
		if err != nil {
			if prev == nil {
				log.Fatal().Err(err).Msg("build hub")
			}
			log.Error().Err(err).Msg("reload failed, continuing with old state")
			hub = prev
			hub.reloadOnExit = false
		}

		hub.metrics = metrics

		runCtx, runCancel := context.WithCancel(ctx)
		go RunMetrics(runCtx, hub, 5*time.Second)

		var api *AdminAPI
		if *apiAddr != "" {
			api = NewAdminAPI(hub, st, *accountsPath)
			go api.Run(runCtx, *apiAddr)
		}

		go func() {
			ticker := time.NewTicker(10 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-runCtx.Done():
					return
				case <-ticker.C:
					if _, err := st.PurgeExpiredBans(); err != nil {
						log.Warn().Err(err).Msg("purge expired bans")
					}
				}
			}
		}()

		go func() {
			sig := <-sigCh
			if sig == syscall.SIGHUP {
				log.Info().Msg("SIGHUP received, reloading")
				hub.RequestReload()
			} else {
				log.Info().Str("signal", sig.String()).Msg("stop signal received")
				hub.RequestStop()
			}
		}()

		if err := hub.Run(ctx); err != nil {
			log.Error().Err(err).Msg("hub loop exited with error")
		}
		runCancel()

		if !hub.reloadOnExit {
			break
		}
		log.Info().Msg("reloading hub, clients remain connected")
		state = hub.Snapshot()
		hub.stop = false
		prev = hub
	}
}

// buildHub loads every external collaborator (spec §4.7 "Startup: load
// config, load accounts, load welcome, load user commands, load bots, bind
// listeners") and constructs a Hub, resuming from prior if given (spec §9
// "Hot-reload with attribute copy").
func buildHub(configPath, accountsPath, usercommandsPath, welcomePath string, st *store.Store, prior *PersistentState) (*Hub, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	accounts, err := LoadAccounts(accountsPath)
	if err != nil {
		return nil, err
	}

	usercommands, err := LoadUserCommands(usercommandsPath)
	if err != nil {
		return nil, err
	}

	welcome, err := LoadWelcome(welcomePath)
	if err != nil {
		return nil, err
	}
	cfg.Welcome = welcome

	if name, ok, err := st.GetSetting("server_name"); err == nil && ok {
		cfg.Name = name
	}

	hub := NewHub(cfg, prior)
	hub.dir.accounts = accounts
	hub.dir.usercommands = usercommands
	hub.store = st

	help := NewBot("TeamChat", cfg.Limits, defaultBotHandler)
	hub.dir.RegisterBot(help)

	return hub, nil
}

// setupLogging configures the global zerolog logger (AMBIENT STACK in
// SPEC_FULL.md, generalizing the teacher's [component]-tagged log.Printf
// calls into structured logging).
func setupLogging(format, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
