package modules

import (
	"errors"
	"strings"

	"github.com/dalnet/bot74/internal/bot"
)

// Test returns commands that exercise the reaction machinery
func Test() *bot.Module {
	return &bot.Module{
		Name: "test",
		Commands: []bot.BotCommand{
			{
				Name:    "echo",
				AuthLvl: bot.Public,
				Handler: bot.HandlerFunc(echo),
				Usage:   "<text>",
				Help:    "Repeats the given text back to you.",
			},
			{
				Name:    "test-line-wrap",
				AuthLvl: bot.Public,
				Handler: bot.HandlerFunc(testLineWrap),
				Help:    "Sends a message long enough to need several lines.",
			},
			{
				Name:    "test-bot-cmd",
				AuthLvl: bot.Public,
				Handler: bot.HandlerFunc(testBotCmd),
				Usage:   "<command line>",
				Help:    "Runs the given command line as if you had sent it.",
			},
			{
				Name:    "test-quit",
				AuthLvl: bot.Public,
				Handler: bot.HandlerFunc(testQuit),
				Help:    "Tries to make me quit without the authority to do so.",
			},
			{
				Name:    "test-error",
				AuthLvl: bot.Public,
				Handler: bot.HandlerFunc(testError),
				Usage:   "user|bot|lib|syntax",
				Help:    "Fails in the given way.",
			},
		},
	}
}

func echo(_ *bot.State, _ bot.MsgMetadata, args string) bot.BotCmdResult {
	if strings.TrimSpace(args) == "" {
		return bot.ArgMissing("text")
	}
	return bot.OK{Reaction: bot.Reply(args)}
}

func testLineWrap(_ *bot.State, _ bot.MsgMetadata, _ string) bot.BotCmdResult {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("This is a test of line wrapping.")
	}
	return bot.OK{Reaction: bot.Msg(b.String())}
}

func testBotCmd(_ *bot.State, _ bot.MsgMetadata, args string) bot.BotCmdResult {
	if strings.TrimSpace(args) == "" {
		return bot.ArgMissing("command line")
	}
	return bot.OK{Reaction: bot.BotCmd(args)}
}

func testQuit(_ *bot.State, _ bot.MsgMetadata, _ string) bot.BotCmdResult {
	return bot.OK{Reaction: bot.Quit{Msg: "I should not be able to do this."}}
}

func testError(_ *bot.State, _ bot.MsgMetadata, args string) bot.BotCmdResult {
	switch strings.TrimSpace(args) {
	case "user":
		return bot.UserErrMsg("This is a test user error.")
	case "bot":
		return bot.BotErrMsg("This is a test internal error.")
	case "lib":
		return bot.LibErr{Err: errors.New("this is a test library error")}
	default:
		return bot.SyntaxErr{}
	}
}
