package bot

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ergochat/irc-go/ircmsg"
	"go.uber.org/zap"
)

// maxBotCmdDepth bounds how many times BotCmd reactions may re-enter command
// dispatch while handling one message.
const maxBotCmdDepth = 8

// splitCommandLine separates the command name from its arguments at the
// first run of whitespace.
func splitCommandLine(line string) (name, args string) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimLeftFunc(line[i:], unicode.IsSpace)
}

func (s *State) handleBotCommand(msg *privMsg, line string, depth int) ([]ircmsg.Message, error) {
	if depth > maxBotCmdDepth {
		return s.handleReaction(msg, Reply(fmt.Sprintf(
			"Internal error: Command line %q was reached through more than %d nested commands.",
			line, maxBotCmdDepth)), depth)
	}

	name, args := splitCommandLine(line)
	return s.handleReaction(msg, s.botCommandReaction(msg, name, args), depth)
}

// authorize reports whether the sender of md may run cmd
func (s *State) authorize(cmd *BotCommand, md MsgMetadata) (bool, error) {
	switch cmd.AuthLvl {
	case Public:
		return true, nil
	case Admin:
		return s.haveAdmin(md.Prefix)
	default:
		return false, fmt.Errorf("command %q has unknown authorization level %d", cmd.Name, cmd.AuthLvl)
	}
}

func (s *State) runBotCommand(msg *privMsg, cmd *BotCommand, args string) BotCmdResult {
	var result BotCmdResult
	switch ok, err := s.authorize(cmd, msg.Metadata); {
	case err != nil:
		result = LibErr{Err: err}
	case !ok:
		result = Unauthorized{}
	default:
		result = cmd.Handler.Run(s, msg.Metadata, args)
	}

	if res, isOK := result.(OK); isOK {
		if q, isQuit := res.Reaction.(Quit); isQuit && cmd.AuthLvl != Admin {
			return BotErrMsg(fmt.Sprintf(
				"Only commands at authorization level %v may tell the bot to quit, but the command %q "+
					"from module %q, at authorization level %v, has told the bot to quit with quit message %q.",
				Admin, cmd.Name, cmd.moduleName(), cmd.AuthLvl, q.Msg))
		}
	}

	return result
}

func (s *State) botCommandReaction(msg *privMsg, name, args string) Reaction {
	cmd, ok := s.commands.Lookup(name)
	if !ok {
		return Reply(fmt.Sprintf("Unknown command %q; apologies.", name))
	}

	s.log.Debug("running command",
		zap.String("command", cmd.Name),
		zap.String("module", cmd.moduleName()),
		zap.Stringer("sender", msg.Metadata.Prefix))

	var reply string
	switch r := s.runBotCommand(msg, cmd, args).(type) {
	case OK:
		if r.Reaction == nil {
			return None{}
		}
		return r.Reaction
	case Unauthorized:
		reply = fmt.Sprintf("My apologies, but you do not appear to have sufficient authority to use my %q command.", cmd.Name)
	case SyntaxErr:
		reply = fmt.Sprintf("Syntax: %s %s", cmd.Name, cmd.Usage)
	case ArgMissing:
		reply = fmt.Sprintf("Syntax error: For command %q, the argument %q is required, but it was not given.",
			cmd.Name, string(r))
	case ArgMissing1To1:
		reply = fmt.Sprintf("Syntax error: When command %q is used outside of a channel, the argument %q is "+
			"required, but it was not given.", cmd.Name, string(r))
	case LibErr:
		s.errorHandler(r.Err)
		reply = fmt.Sprintf("Error: %v", r.Err)
	case UserErrMsg:
		reply = fmt.Sprintf("User error: %s", string(r))
	case BotErrMsg:
		reply = fmt.Sprintf("Internal error: %s", string(r))
	default:
		reply = fmt.Sprintf("Internal error: Command %q returned an unrecognized result of type %T.", cmd.Name, r)
	}

	return Reply(reply)
}
