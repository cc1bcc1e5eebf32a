package bot

import (
	"sync"

	"github.com/ergochat/irc-go/ircmsg"
	"go.uber.org/zap"
)

// UpdatePrefixText is sent by the bot to itself. When the server relays it
// back, the message carries the bot's full prefix as other users see it.
const UpdatePrefixText = "!!! UPDATE MESSAGE PREFIX !!!"

// Phase is a step of the connection handshake.
type Phase int

const (
	Connecting Phase = iota
	IdentitySent
	AwaitingWelcome
	WelcomeReceived
	PrefixUpdateRequested
	PrefixKnown
)

var phaseNames = [...]string{
	Connecting:            "Connecting",
	IdentitySent:          "IdentitySent",
	AwaitingWelcome:       "AwaitingWelcome",
	WelcomeReceived:       "WelcomeReceived",
	PrefixUpdateRequested: "PrefixUpdateRequested",
	PrefixKnown:           "PrefixKnown",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Unknown"
	}
	return phaseNames[p]
}

type handshake struct {
	mu    sync.Mutex
	phase Phase
	nick  string
}

func (h *handshake) set(p Phase) {
	h.mu.Lock()
	h.phase = p
	h.mu.Unlock()
}

func (h *handshake) get() Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase
}

func (h *handshake) setNick(nick string) {
	h.mu.Lock()
	h.nick = nick
	h.mu.Unlock()
}

func (h *handshake) currentNick() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.nick
}

// Phase returns the current handshake phase
func (s *State) Phase() Phase {
	return s.handshake.get()
}

// ConnectionSequence returns the registration messages to send right after
// connecting: NICK, then USER.
func (s *State) ConnectionSequence() []ircmsg.Message {
	msgs := []ircmsg.Message{
		ircmsg.MakeMessage(nil, "", "NICK", s.config.Nick),
		ircmsg.MakeMessage(nil, "", "USER", s.config.Username, "0", "*", s.config.Realname),
	}
	s.handshake.set(IdentitySent)
	s.handshake.set(AwaitingWelcome)
	return msgs
}

// RequestPrefixUpdate returns the self-addressed message whose echo refreshes
// the stored prefix. It may be used at any time, e.g. after a host change.
func (s *State) RequestPrefixUpdate() []ircmsg.Message {
	s.handshake.set(PrefixUpdateRequested)
	return []ircmsg.Message{s.PrefixUpdateMessage()}
}

// PrefixUpdateMessage builds the self-addressed update request without
// recording that it was sent.
func (s *State) PrefixUpdateMessage() ircmsg.Message {
	return ircmsg.MakeMessage(nil, "", "PRIVMSG", s.Nick(), UpdatePrefixText)
}

// isOwnPrefixRequest reports whether m is an update request addressed to us
func (s *State) isOwnPrefixRequest(m *ircmsg.Message) bool {
	return m.Command == "PRIVMSG" && len(m.Params) == 2 &&
		nickEqual(m.Params[0], s.Nick()) && m.Params[1] == UpdatePrefixText
}

// handleRegistered records the nick the server accepted us under, which
// differs from the configured one when that was taken.
func (s *State) handleRegistered(msg *ircmsg.Message) {
	if len(msg.Params) == 0 || msg.Params[0] == "" || msg.Params[0] == "*" {
		return
	}
	s.log.Debug("registered", zap.String("nick", msg.Params[0]))
	s.handshake.setNick(msg.Params[0])
}

// handleNickChange follows our own NICK changes. Changes by other users are
// ignored.
func (s *State) handleNickChange(msg *ircmsg.Message) {
	if len(msg.Params) == 0 || msg.Params[0] == "" {
		return
	}
	if !nickEqual(prefixFromMessage(msg).Nick, s.Nick()) {
		return
	}

	nick := msg.Params[0]
	s.log.Info("nick changed", zap.String("nick", nick))
	s.handshake.setNick(nick)
	if p, ok := s.msgPrefix.Get(); ok {
		p.Nick = nick
		s.msgPrefix.Update(p)
	}
}

// handleWelcome runs once the server has finished its welcome burst.
func (s *State) handleWelcome() []ircmsg.Message {
	s.handshake.set(WelcomeReceived)
	return s.RequestPrefixUpdate()
}

// isPrefixUpdate reports whether msg is our own update request relayed back
// to us.
func (s *State) isPrefixUpdate(msg *privMsg) bool {
	nick := s.Nick()
	return msg.Text == UpdatePrefixText &&
		nickEqual(msg.Metadata.Prefix.Nick, nick) &&
		nickEqual(string(msg.Metadata.Target), nick)
}

func (s *State) updatePrefixInfo(p MsgPrefix) {
	s.log.Debug("updating stored message prefix", zap.Stringer("prefix", p))
	s.msgPrefix.Update(p)
	s.handshake.set(PrefixKnown)
}
