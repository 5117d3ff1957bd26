package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// LoadUserCommands reads [dchub-usercommands] (spec §6: "values perm
// position type context command").
func LoadUserCommands(path string) (map[string]*UserCommand, error) {
	commands := map[string]*UserCommand{}

	f, err := ini.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return commands, nil
		}
		return nil, fmt.Errorf("load usercommands %s: %w", path, err)
	}

	sec, err := f.GetSection("dchub-usercommands")
	if err != nil {
		return commands, nil
	}
	for _, key := range sec.Keys() {
		name := key.Name()
		fields := strings.SplitN(key.String(), " ", 5)
		if len(fields) < 5 {
			continue
		}
		perm, _ := strconv.Atoi(fields[0])
		pos, _ := strconv.ParseFloat(fields[1], 64)
		typ, _ := strconv.Atoi(fields[2])
		ctx, _ := strconv.Atoi(fields[3])
		commands[name] = &UserCommand{
			Name:       name,
			Permission: perm,
			Position:   pos,
			Type:       typ,
			Context:    ctx,
			Command:    fields[4],
		}
	}
	return commands, nil
}
