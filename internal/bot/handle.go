package bot

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ergochat/irc-go/ircmsg"
	"go.uber.org/zap"
)

const (
	rplWelcome     = "001"
	rplMyInfo      = "004"
	rplVisibleHost = "396"
)

// HandleMsg decides how the bot reacts to one inbound message and returns the
// messages to send in response. A *QuitRequest error means an authorized
// command asked the bot to quit; see QuitMessage.
func (s *State) HandleMsg(msg ircmsg.Message) ([]ircmsg.Message, error) {
	if pm, ok := parsePrivMsg(&msg); ok {
		return s.handlePrivMsg(pm)
	}

	switch msg.Command {
	case rplWelcome:
		s.handleRegistered(&msg)
	case "NICK":
		s.handleNickChange(&msg)
	case rplMyInfo:
		// The server has finished sending the protocol-mandated welcome
		// messages.
		return s.handleWelcome(), nil
	case rplVisibleHost:
		return s.RequestPrefixUpdate(), nil
	}

	return nil, nil
}

func (s *State) handlePrivMsg(msg *privMsg) ([]ircmsg.Message, error) {
	s.log.Debug("handling PRIVMSG",
		zap.String("target", string(msg.Metadata.Target)),
		zap.Stringer("sender", msg.Metadata.Prefix),
		zap.String("text", msg.Text))

	if msg.Text == UpdatePrefixText {
		if s.isPrefixUpdate(msg) {
			s.updatePrefixInfo(msg.Metadata.Prefix)
		}
		return nil, nil
	}

	if isCTCP(msg.Text) {
		// CTCP requests are not commands; the transport answers the ones
		// it supports.
		return nil, nil
	}

	line, ok := s.addressedText(msg)
	if !ok {
		return nil, nil
	}

	if line == "" {
		return s.handleReaction(msg, Reply("Yes?"), 0)
	}
	return s.handleBotCommand(msg, line, 0)
}

// addressedText returns the part of msg meant for the bot. Private messages
// are meant for the bot in full; channel messages only if they start with the
// bot's nick followed by ':', ',' or whitespace.
func (s *State) addressedText(msg *privMsg) (string, bool) {
	nick := s.Nick()
	if s.IsPrivate(msg.Metadata) {
		return strings.TrimSpace(msg.Text), true
	}

	text := msg.Text
	if len(text) < len(nick) || !nickEqual(text[:len(nick)], nick) {
		return "", false
	}
	rest := text[len(nick):]
	if rest == "" {
		return "", true
	}
	r, size := utf8.DecodeRuneInString(rest)
	if r != ':' && r != ',' && !unicode.IsSpace(r) {
		return "", false
	}
	return strings.TrimSpace(rest[size:]), true
}

func nickEqual(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}

func isCTCP(text string) bool {
	return strings.HasPrefix(text, "\x01")
}
