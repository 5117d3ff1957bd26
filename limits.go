package main

import "time"

// Default per-user limits (spec §4.2). These are the factory defaults;
// a running hub may override them from the [dchub-userlimits] config
// section, but every Limits value always carries every key below.
const (
	defaultMaxCommandSize             = 25000
	defaultMaxQueuedCommands          = 20
	defaultMaxCommandsPerTimePeriod   = 20
	defaultMaxMessageSize             = 500
	defaultMaxNewlinesPerMessage      = 5
	defaultMaxCharactersPerTimePeriod = 1000
	defaultMaxMessagesPerTimePeriod   = 10
	defaultMaxNewlinesPerTimePeriod   = 10
	defaultMaxSearchesPerTimePeriod   = 10
	defaultMaxSearchSize              = 500
	defaultMaxMyINFOPerTimePeriod     = 3
	defaultMaxDescriptionLength       = 50
	defaultMaxTagLength               = 50
	defaultMaxNickLength              = 25
	defaultMaxEmailLength             = 50
	defaultMinShareSize               = 0
	defaultPingTime                   = 300
	defaultTimePeriod                 = 60
)

// joinFloodTime is the minimum interval between two admissions sharing the
// same jointimes key (spec §4.7 admission policy, §9 "unify around IP").
const joinFloodTime = 2 * time.Second

// readBufSize is the per-read chunk size for the I/O driver (spec §4.1 step 5).
const readBufSize = 1024

// tickInterval is the readiness-loop poll period (spec §4.1: "1-second tick").
const tickInterval = 1 * time.Second

// sockTimeout is the small per-op timeout applied to each connection's
// read/write deadline so a falsely-reported-ready socket cannot stall the
// loop (spec §4.1 rationale).
const sockTimeout = 10 * time.Millisecond

// Limits is the full set of per-user limits; every User carries a copy,
// normally cloned from the hub defaults.
type Limits struct {
	MaxCommandSize             int
	MaxQueuedCommands          int
	MaxCommandsPerTimePeriod   int
	MaxMessageSize             int
	MaxNewlinesPerMessage      int
	MaxCharactersPerTimePeriod int
	MaxMessagesPerTimePeriod   int
	MaxNewlinesPerTimePeriod   int
	MaxSearchesPerTimePeriod   int
	MaxSearchSize              int
	MaxMyINFOPerTimePeriod     int
	MaxDescriptionLength       int
	MaxTagLength               int
	MaxNickLength              int
	MaxEmailLength             int
	MinShareSize               int64
	PingTime                   int
	TimePeriod                 int
}

// DefaultLimits returns the factory-default limits table (spec §4.2).
func DefaultLimits() Limits {
	return Limits{
		MaxCommandSize:             defaultMaxCommandSize,
		MaxQueuedCommands:          defaultMaxQueuedCommands,
		MaxCommandsPerTimePeriod:   defaultMaxCommandsPerTimePeriod,
		MaxMessageSize:             defaultMaxMessageSize,
		MaxNewlinesPerMessage:      defaultMaxNewlinesPerMessage,
		MaxCharactersPerTimePeriod: defaultMaxCharactersPerTimePeriod,
		MaxMessagesPerTimePeriod:   defaultMaxMessagesPerTimePeriod,
		MaxNewlinesPerTimePeriod:   defaultMaxNewlinesPerTimePeriod,
		MaxSearchesPerTimePeriod:   defaultMaxSearchesPerTimePeriod,
		MaxSearchSize:              defaultMaxSearchSize,
		MaxMyINFOPerTimePeriod:     defaultMaxMyINFOPerTimePeriod,
		MaxDescriptionLength:       defaultMaxDescriptionLength,
		MaxTagLength:               defaultMaxTagLength,
		MaxNickLength:              defaultMaxNickLength,
		MaxEmailLength:             defaultMaxEmailLength,
		MinShareSize:               defaultMinShareSize,
		PingTime:                   defaultPingTime,
		TimePeriod:                 defaultTimePeriod,
	}
}
