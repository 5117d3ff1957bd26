package main

// newCommandTable builds the static command table (spec §9 "Reimplement as
// a table keyed by command name mapping to a record of four function
// values"), replacing the source's dynamic parseC/checkC/gotC/badC lookup
// by symbolic name.
func (h *Hub) newCommandTable() commandTable {
	t := commandTable{}

	trivial := func(fn func(h *Hub, u *User, arg string)) *command {
		return &command{got: func(h *Hub, u *User, args any) {
			fn(h, u, args.(string))
		}, parse: func(u *User, arg string) (any, error) { return arg, nil }}
	}

	t["Key"] = trivial(cmdKey)
	t["Supports"] = trivial(cmdSupports)
	t["Version"] = trivial(cmdVersion)
	t["GetNickList"] = trivial(cmdGetNickList)
	t["GetINFO"] = trivial(cmdGetINFO)
	t["UserIP"] = trivial(cmdUserIP)
	t["ConnectToMe"] = trivial(cmdConnectToMe)
	t["RevConnectToMe"] = trivial(cmdRevConnectToMe)
	t["OpForceMove"] = trivial(cmdOpForceMove)
	t["Kick"] = trivial(cmdKick)
	t["Close"] = trivial(cmdClose)
	t["ReloadBots"] = trivial(cmdReloadBots)

	t["ValidateNick"] = &command{
		parse: parseValidateNick,
		check: checkValidateNick,
		got:   gotValidateNick,
		bad:   badValidateNick,
	}
	t["MyPass"] = &command{
		parse: parseMyPass,
		got:   gotMyPass,
	}
	t["MyINFO"] = &command{
		parse: parseMyINFO,
		check: checkMyINFO,
		got:   gotMyINFO,
		bad:   badMyINFO,
	}
	t["_ChatMessage"] = &command{
		parse: parseChatMessage,
		check: checkChatMessage,
		got:   gotChatMessage,
	}
	t["_PrivateMessage"] = &command{
		parse: parsePrivateMessage,
		check: checkPrivateMessage,
		got:   gotPrivateMessage,
	}
	t["Search"] = &command{
		parse: parseSearch,
		check: checkSearch,
		got:   gotSearch,
	}
	t["SR"] = &command{
		parse: parseSR,
		check: checkSR,
		got:   gotSR,
	}

	return t
}
