package bot

import (
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

// MsgPrefix is the identity a server attaches to a message. Empty fields are
// unknown.
type MsgPrefix struct {
	Nick string
	User string
	Host string
}

// prefixFromMessage reads the sender of an inbound message. Messages without
// a source yield a zero MsgPrefix.
func prefixFromMessage(msg *ircmsg.Message) MsgPrefix {
	if msg.Source == "" {
		return MsgPrefix{}
	}
	nuh, err := ircmsg.ParseNUH(msg.Source)
	if err != nil {
		return MsgPrefix{Nick: msg.Source}
	}
	return MsgPrefix{Nick: nuh.Name, User: nuh.User, Host: nuh.Host}
}

// String renders the prefix as nick!user@host, leaving out absent parts
func (p MsgPrefix) String() string {
	var b strings.Builder
	b.WriteString(p.Nick)
	if p.User != "" {
		b.WriteByte('!')
		b.WriteString(p.User)
	}
	if p.Host != "" {
		b.WriteByte('@')
		b.WriteString(p.Host)
	}
	return b.String()
}

// Len is the number of bytes the prefix occupies on the wire, without the
// leading colon and trailing space.
func (p MsgPrefix) Len() int {
	n := len(p.Nick)
	if p.User != "" {
		n += 1 + len(p.User)
	}
	if p.Host != "" {
		n += 1 + len(p.Host)
	}
	return n
}

// MsgTarget is the channel or nick a message is addressed to.
type MsgTarget string

// MsgMetadata pairs the target of an inbound message with its sender.
type MsgMetadata struct {
	Target MsgTarget
	Prefix MsgPrefix
}

// AuthLvl is the permission tier a command requires.
type AuthLvl int

const (
	Public AuthLvl = iota
	Admin
)

func (l AuthLvl) String() string {
	switch l {
	case Public:
		return "Public"
	case Admin:
		return "Admin"
	default:
		return "Unknown"
	}
}

// Handler runs a bot command. args is the text following the command name.
type Handler interface {
	Run(s *State, md MsgMetadata, args string) BotCmdResult
}

// HandlerFunc adapts an ordinary function to a Handler.
type HandlerFunc func(s *State, md MsgMetadata, args string) BotCmdResult

// Run calls f(s, md, args).
func (f HandlerFunc) Run(s *State, md MsgMetadata, args string) BotCmdResult {
	return f(s, md, args)
}

// Module is a named set of commands contributed at startup.
type Module struct {
	Name     string
	Commands []BotCommand
}

// BotCommand describes one command. Descriptors are not modified once they
// are registered.
type BotCommand struct {
	Name    string
	Module  *Module
	AuthLvl AuthLvl
	Handler Handler
	Usage   string
	Help    string
}

func (c *BotCommand) moduleName() string {
	if c.Module == nil {
		return ""
	}
	return c.Module.Name
}

// privMsg is an inbound PRIVMSG split into its parts.
type privMsg struct {
	Metadata MsgMetadata
	Text     string
}

func parsePrivMsg(msg *ircmsg.Message) (*privMsg, bool) {
	if msg.Command != "PRIVMSG" || len(msg.Params) < 2 {
		return nil, false
	}
	return &privMsg{
		Metadata: MsgMetadata{
			Target: MsgTarget(msg.Params[0]),
			Prefix: prefixFromMessage(msg),
		},
		Text: msg.Params[1],
	}, true
}
