package bot

import (
	"go.uber.org/zap"
)

// Version information reported in the default quit message
var (
	Version  = "dev"
	Homepage = "https://github.com/dalnet/bot74"
)

// Config is the part of the bot configuration the core needs.
type Config struct {
	Nick            string
	Username        string
	Realname        string
	AddresseeSuffix string
}

// AdminChecker decides whether a sender holds the Admin level. The check may
// fail, e.g. when its backing store cannot be read.
type AdminChecker interface {
	IsAdmin(p MsgPrefix) (bool, error)
}

type noAdmins struct{}

func (noAdmins) IsAdmin(MsgPrefix) (bool, error) { return false, nil }

// State is shared by every message the bot handles. Apart from the prefix
// tracker and the handshake (phase and current nick) it is not modified after
// NewState returns.
type State struct {
	config       Config
	commands     *Registry
	admins       AdminChecker
	errorHandler ErrorHandler
	msgPrefix    PrefixTracker
	handshake    handshake
	log          *zap.Logger
}

// NewState builds the shared bot state. A nil admins denies every Admin
// command, a nil onError logs and proceeds, and a nil log discards output.
func NewState(cfg Config, commands *Registry, admins AdminChecker, onError ErrorHandler, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	if admins == nil {
		admins = noAdmins{}
	}
	if commands == nil {
		commands = &Registry{commands: map[string]*BotCommand{}}
	}
	s := &State{
		config:   cfg,
		commands: commands,
		admins:   admins,
		log:      log,
	}
	if onError == nil {
		onError = func(err error) ErrorReaction {
			s.log.Error("error while handling message", zap.Error(err))
			return Proceed
		}
	}
	s.errorHandler = onError
	return s
}

// Config returns the configuration the state was built with
func (s *State) Config() Config {
	return s.config
}

// Commands returns the command registry
func (s *State) Commands() *Registry {
	return s.commands
}

// Prefix returns the tracker of the bot's own prefix
func (s *State) Prefix() *PrefixTracker {
	return &s.msgPrefix
}

// Logger returns the state's logger
func (s *State) Logger() *zap.Logger {
	return s.log
}

// HandleError passes err to the configured error handler
func (s *State) HandleError(err error) ErrorReaction {
	return s.errorHandler(err)
}

// Nick is the bot's current nick: the one the server registered us under or
// last renamed us to, or the configured one before registration.
func (s *State) Nick() string {
	if nick := s.handshake.currentNick(); nick != "" {
		return nick
	}
	if p, ok := s.msgPrefix.Get(); ok && p.Nick != "" {
		return p.Nick
	}
	return s.config.Nick
}

// IsPrivate reports whether md describes a message sent to the bot directly
// rather than to a channel.
func (s *State) IsPrivate(md MsgMetadata) bool {
	return nickEqual(string(md.Target), s.Nick())
}

func (s *State) haveAdmin(p MsgPrefix) (bool, error) {
	return s.admins.IsAdmin(p)
}

// prefixLen is the length of our prefix, estimated from the configuration
// until the server has shown us the real one.
func (s *State) prefixLen() int {
	estimate := len(s.Nick()) + len("!~") + len(s.config.Username) + len("@") + maxHostLen
	return s.msgPrefix.Len(estimate)
}
