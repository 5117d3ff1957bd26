package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// LoadAccounts reads [dchub-accounts] (spec §6: "values password|opflag|args",
// opflag truthy: one of y t 1"). Missing file yields an empty account set,
// matching the "external collaborator loaded at startup" framing of spec
// §1/§3.
func LoadAccounts(path string) (map[string]*Account, error) {
	accounts := map[string]*Account{}

	f, err := ini.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return accounts, nil
		}
		return nil, fmt.Errorf("load accounts %s: %w", path, err)
	}

	sec, err := f.GetSection("dchub-accounts")
	if err != nil {
		return accounts, nil
	}
	for _, key := range sec.Keys() {
		nick := key.Name()
		parts := strings.SplitN(key.String(), "|", 3)
		acct := &Account{Nick: nick}
		if len(parts) > 0 {
			acct.Password = parts[0]
		}
		if len(parts) > 1 {
			acct.Op = isTruthy(parts[1])
		}
		if len(parts) > 2 {
			acct.Args = parts[2]
		}
		accounts[nick] = acct
	}
	return accounts, nil
}

// isTruthy implements spec §6 "opflag truthy: one of y t 1".
func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "t", "1":
		return true
	default:
		return false
	}
}

// SaveAccounts rewrites the accounts file atomically (spec §5), preserving
// any other sections already present in the file.
func SaveAccounts(path string, accounts map[string]*Account) error {
	f, err := ini.LoadSources(ini.LoadOptions{AllowShadows: true}, path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		f = ini.Empty()
	}
	f.DeleteSection("dchub-accounts")
	sec, err := f.NewSection("dchub-accounts")
	if err != nil {
		return err
	}
	for nick, acct := range accounts {
		opflag := "n"
		if acct.Op {
			opflag = "y"
		}
		if _, err := sec.NewKey(nick, fmt.Sprintf("%s|%s|%s", acct.Password, opflag, acct.Args)); err != nil {
			return err
		}
	}
	return atomicRewrite(path, func(newPath string) error {
		return f.SaveTo(newPath)
	})
}
