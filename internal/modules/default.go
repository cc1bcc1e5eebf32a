package modules

import (
	"fmt"
	"strings"

	"github.com/dalnet/bot74/internal/bot"
)

// Default returns the module with the commands every bot needs
func Default() *bot.Module {
	return &bot.Module{
		Name: "default",
		Commands: []bot.BotCommand{
			{
				Name:    "help",
				AuthLvl: bot.Public,
				Handler: bot.HandlerFunc(help),
				Usage:   "[command]",
				Help:    "Lists my commands, or describes the given one.",
			},
			{
				Name:    "quit",
				AuthLvl: bot.Admin,
				Handler: bot.HandlerFunc(quit),
				Usage:   "[message]",
				Help:    "Disconnects me from the server.",
			},
			{
				Name:    "join",
				AuthLvl: bot.Admin,
				Handler: bot.HandlerFunc(join),
				Usage:   "<channel>",
				Help:    "Makes me join a channel.",
			},
			{
				Name:    "part",
				AuthLvl: bot.Admin,
				Handler: bot.HandlerFunc(part),
				Usage:   "[channel]",
				Help:    "Makes me leave a channel; in a channel, that channel by default.",
			},
			{
				Name:    "refresh-prefix",
				AuthLvl: bot.Admin,
				Handler: bot.HandlerFunc(refreshPrefix),
				Help:    "Makes me look up how the server currently sees my nick, user and host.",
			},
		},
	}
}

func help(s *bot.State, _ bot.MsgMetadata, args string) bot.BotCmdResult {
	name := strings.TrimSpace(args)
	if name == "" {
		return bot.OK{Reaction: bot.Reply("Available commands: " + strings.Join(s.Commands().Names(), ", "))}
	}

	cmd, ok := s.Commands().Lookup(name)
	if !ok {
		return bot.UserErrMsg(fmt.Sprintf("I have no command named %q.", name))
	}

	replies := bot.Replies{fmt.Sprintf("%s %s", cmd.Name, cmd.Usage)}
	if cmd.Help != "" {
		replies = append(replies, cmd.Help)
	}
	replies = append(replies, fmt.Sprintf("Provided by module %q; requires authorization level %v.",
		cmd.Module.Name, cmd.AuthLvl))
	return bot.OK{Reaction: replies}
}

func quit(_ *bot.State, _ bot.MsgMetadata, args string) bot.BotCmdResult {
	return bot.OK{Reaction: bot.Quit{Msg: strings.TrimSpace(args)}}
}

func join(_ *bot.State, _ bot.MsgMetadata, args string) bot.BotCmdResult {
	fields := strings.Fields(args)
	switch len(fields) {
	case 0:
		return bot.ArgMissing("channel")
	case 1:
		return bot.OK{Reaction: bot.RawMsg("JOIN " + fields[0])}
	default:
		return bot.SyntaxErr{}
	}
}

func part(s *bot.State, md bot.MsgMetadata, args string) bot.BotCmdResult {
	channel := strings.TrimSpace(args)
	if channel == "" {
		if s.IsPrivate(md) {
			return bot.ArgMissing1To1("channel")
		}
		channel = string(md.Target)
	}
	if strings.ContainsAny(channel, " ,") {
		return bot.SyntaxErr{}
	}
	return bot.OK{Reaction: bot.RawMsg("PART " + channel)}
}

func refreshPrefix(s *bot.State, _ bot.MsgMetadata, _ string) bot.BotCmdResult {
	req := s.PrefixUpdateMessage()
	line, err := req.Line()
	if err != nil {
		return bot.LibErr{Err: err}
	}
	return bot.OK{Reaction: bot.RawMsg(strings.TrimRight(line, "\r\n"))}
}
