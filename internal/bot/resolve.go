package bot

import (
	"fmt"

	"github.com/ergochat/irc-go/ircmsg"
	"go.uber.org/zap"
)

// replyTarget decides where answers to msg go, and who they are addressed to.
// Private messages are answered privately with no addressee; channel messages
// are answered in the channel, addressed to the sender.
func (s *State) replyTarget(msg *privMsg) (MsgTarget, string, error) {
	nick := msg.Metadata.Prefix.Nick
	if s.IsPrivate(msg.Metadata) {
		if nick == "" {
			return "", "", ErrNoSender
		}
		return MsgTarget(nick), "", nil
	}
	return msg.Metadata.Target, nick, nil
}

func (s *State) handleReaction(msg *privMsg, reaction Reaction, depth int) ([]ircmsg.Message, error) {
	target, addressee, err := s.replyTarget(msg)
	if err != nil {
		return nil, err
	}

	switch r := reaction.(type) {
	case nil, None:
		return nil, nil
	case Msg:
		return s.say(target, "", string(r))
	case Msgs:
		return s.sayAll(target, "", r)
	case Reply:
		return s.say(target, addressee, string(r))
	case Replies:
		return s.sayAll(target, addressee, r)
	case RawMsg:
		m, err := ircmsg.ParseLine(string(r))
		if err != nil {
			return nil, fmt.Errorf("failed to parse raw message %q: %w", string(r), err)
		}
		if s.isOwnPrefixRequest(&m) {
			s.handshake.set(PrefixUpdateRequested)
		}
		return []ircmsg.Message{m}, nil
	case BotCmd:
		return s.handleBotCommand(msg, string(r), depth+1)
	case Quit:
		return nil, &QuitRequest{Msg: r.Msg}
	default:
		return nil, fmt.Errorf("unrecognized reaction of type %T", reaction)
	}
}

func (s *State) sayAll(target MsgTarget, addressee string, msgs []string) ([]ircmsg.Message, error) {
	var out []ircmsg.Message
	for _, m := range msgs {
		lines, err := s.say(target, addressee, m)
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}
	return out, nil
}

// say formats msg for target, prefixed with the addressee if there is one, and
// wraps it into as many PRIVMSG lines as it needs.
func (s *State) say(target MsgTarget, addressee, msg string) ([]ircmsg.Message, error) {
	text := msg
	if addressee != "" {
		text = addressee + s.config.AddresseeSuffix + msg
	}

	s.log.Info("sending message", zap.String("target", string(target)), zap.String("text", text))

	limit := lineBudget(s.prefixLen(), "PRIVMSG", string(target))
	var out []ircmsg.Message
	err := wrapMsg(text, limit, func(line string) error {
		m := ircmsg.MakeMessage(nil, "", "PRIVMSG", string(target), line)
		if _, err := m.Line(); err != nil {
			return fmt.Errorf("failed to build message to %s: %w", target, err)
		}
		out = append(out, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// QuitMessage builds the QUIT line that answers a QuitRequest. An empty msg
// selects the default farewell. If the line cannot be built the error is
// reported to the error handler and ok is false.
func (s *State) QuitMessage(msg string) (quit ircmsg.Message, ok bool) {
	if msg == "" {
		msg = fmt.Sprintf("<%s> v%s", Homepage, Version)
	}

	s.log.Info("quitting", zap.String("message", msg))

	quit, err := ircmsg.ParseLine("QUIT :" + msg)
	if err != nil {
		s.errorHandler(fmt.Errorf("failed to construct quit message: %w", err))
		s.log.Error("failed to construct quit message")
		return ircmsg.Message{}, false
	}
	return quit, true
}
