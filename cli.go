package main

import (
	"encoding/json"
	"fmt"
	"os"

	"dchub/store"
)

// RunCLI handles subcommand execution. Returns true if a subcommand was
// handled. Grounded on the teacher's cli.go RunCLI dispatch shape.
func RunCLI(args []string, dbPath string) bool {
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "version":
		fmt.Printf("dchub %s\n", Version)
		return true
	case "status":
		return cliStatus(dbPath)
	case "audit":
		return cliAudit(args[1:], dbPath)
	case "bans":
		return cliBans(args[1:], dbPath)
	default:
		return false
	}
}

func cliStatus(dbPath string) bool {
	st, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	name, _, _ := st.GetSetting("server_name")
	fmt.Printf("Server: %s\n", name)
	fmt.Printf("Database: %s\n", dbPath)
	fmt.Printf("Version: %s\n", Version)
	return true
}

func cliAudit(args []string, dbPath string) bool {
	st, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	action := ""
	if len(args) > 0 {
		action = args[0]
	}
	entries, err := st.GetAuditLog(action, 100)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	fmt.Println(string(out))
	return true
}

func cliBans(args []string, dbPath string) bool {
	st, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if len(args) == 0 || args[0] == "list" {
		bans, err := st.GetBans()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		for _, b := range bans {
			fmt.Printf("  [%d] %s %s reason=%q\n", b.ID, b.Nick, b.IP, b.Reason)
		}
		return true
	}

	fmt.Fprintf(os.Stderr, "Usage: dchub bans [list]\n")
	os.Exit(1)
	return true
}
