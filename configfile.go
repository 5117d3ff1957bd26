package main

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// LoadConfig reads the INI-shaped config file (spec §6 "Persisted files:
// config" — sections [dchub], [dchub-userlimits], [dchub-loglevels],
// [dchub-bindings]). [dchub-loglevels] is not read. Missing keys fall back
// to DefaultHubConfig's values.
//
// Grounded on store/store.go's "typed accessor over a persisted store"
// shape, retargeted at gopkg.in/ini.v1 since spec §6 requires the INI
// format verbatim rather than SQLite.
func LoadConfig(path string) (*HubConfig, error) {
	cfg := DefaultHubConfig()

	f, err := ini.LoadSources(ini.LoadOptions{AllowShadows: true}, path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if sec, err := f.GetSection("dchub"); err == nil {
		if k := sec.Key("hubname"); k.String() != "" {
			cfg.Name = k.String()
		}
		if k := sec.Key("lockstring"); k.String() != "" {
			cfg.LockString = k.String()
		}
		if k := sec.Key("privatekey"); k.String() != "" {
			cfg.PrivateKey = k.String()
		}
		if n, err := sec.Key("maxusers").Int(); err == nil && n > 0 {
			cfg.MaxUsers = n
		}
		cfg.RedirectURL = sec.Key("redirecturl").String()
	}

	if sec, err := f.GetSection("dchub-userlimits"); err == nil {
		applyLimitOverrides(&cfg.Limits, sec)
	}

	if sec, err := f.GetSection("dchub-bindings"); err == nil {
		cfg.Bindings = make(map[string]string)
		for _, key := range sec.Keys() {
			cfg.Bindings[key.Name()] = key.String()
		}
	}

	return cfg, nil
}

func applyLimitOverrides(l *Limits, sec *ini.Section) {
	setInt := func(key string, dst *int) {
		if n, err := sec.Key(key).Int(); err == nil {
			*dst = n
		}
	}
	setInt("maxcommandsize", &l.MaxCommandSize)
	setInt("maxqueuedcommands", &l.MaxQueuedCommands)
	setInt("maxcommandspertimeperiod", &l.MaxCommandsPerTimePeriod)
	setInt("maxmessagesize", &l.MaxMessageSize)
	setInt("maxnewlinespermessage", &l.MaxNewlinesPerMessage)
	setInt("maxcharacterspertimeperiod", &l.MaxCharactersPerTimePeriod)
	setInt("maxmessagespertimeperiod", &l.MaxMessagesPerTimePeriod)
	setInt("maxnewlinespertimeperiod", &l.MaxNewlinesPerTimePeriod)
	setInt("maxsearchespertimeperiod", &l.MaxSearchesPerTimePeriod)
	setInt("maxsearchsize", &l.MaxSearchSize)
	setInt("maxmyinfopertimeperiod", &l.MaxMyINFOPerTimePeriod)
	setInt("maxdescriptionlength", &l.MaxDescriptionLength)
	setInt("maxtaglength", &l.MaxTagLength)
	setInt("maxnicklength", &l.MaxNickLength)
	setInt("maxemaillength", &l.MaxEmailLength)
	setInt("pingtime", &l.PingTime)
	setInt("timeperiod", &l.TimePeriod)
	if n, err := sec.Key("minsharesize").Int64(); err == nil {
		l.MinShareSize = n
	}
}

// atomicRewrite implements spec §5 "write-out is atomic (write .new, rename
// original to .old, rename .new to original, delete .old)". write is called
// with the path to write the new content to.
func atomicRewrite(path string, write func(newPath string) error) error {
	newPath := path + ".new"
	oldPath := path + ".old"

	if err := write(newPath); err != nil {
		return fmt.Errorf("write %s: %w", newPath, err)
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, oldPath); err != nil {
			return fmt.Errorf("rename %s to %s: %w", path, oldPath, err)
		}
	}
	if err := os.Rename(newPath, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", newPath, path, err)
	}
	_ = os.Remove(oldPath)
	return nil
}
