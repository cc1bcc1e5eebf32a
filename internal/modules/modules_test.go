package modules

import (
	"strings"
	"testing"

	"github.com/dalnet/bot74/internal/bot"
	"github.com/ergochat/irc-go/ircmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice   = "alice!al@users.example.com"
	mallory = "mallory!m@evil.example"
)

type admins map[string]bool

func (a admins) IsAdmin(p bot.MsgPrefix) (bool, error) { return a[p.Nick], nil }

func newState(t *testing.T) *bot.State {
	t.Helper()
	reg, err := bot.NewRegistry(Default(), Test())
	require.NoError(t, err)
	cfg := bot.Config{Nick: "bot74", Username: "bot", Realname: "bot74", AddresseeSuffix: ": "}
	return bot.NewState(cfg, reg, admins{"alice": true}, nil, nil)
}

func send(t *testing.T, s *bot.State, from, target, text string) []ircmsg.Message {
	t.Helper()
	out, err := s.HandleMsg(ircmsg.MakeMessage(nil, from, "PRIVMSG", target, text))
	require.NoError(t, err)
	return out
}

func lines(msgs []ircmsg.Message) []string {
	var out []string
	for _, m := range msgs {
		out = append(out, m.Params[len(m.Params)-1])
	}
	return out
}

func TestModulesRegisterTogether(t *testing.T) {
	reg, err := bot.NewRegistry(Default(), Test())
	require.NoError(t, err)
	assert.Equal(t, len(Default().Commands)+len(Test().Commands), reg.Len())
}

func TestHelp(t *testing.T) {
	s := newState(t)

	out := lines(send(t, s, alice, "bot74", "help"))
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "Available commands: echo, help, join, part, quit"), out[0])

	out = lines(send(t, s, alice, "#chan", "bot74: help part"))
	assert.Equal(t, []string{
		"alice: part [channel]",
		"alice: Makes me leave a channel; in a channel, that channel by default.",
		`alice: Provided by module "default"; requires authorization level Admin.`,
	}, out)

	out = lines(send(t, s, alice, "bot74", "help nope"))
	assert.Equal(t, []string{`User error: I have no command named "nope".`}, out)
}

func TestQuit(t *testing.T) {
	s := newState(t)

	_, err := s.HandleMsg(ircmsg.MakeMessage(nil, alice, "PRIVMSG", "bot74", "quit  goodbye "))
	q, ok := bot.IsQuit(err)
	require.True(t, ok)
	assert.Equal(t, "goodbye", q.Msg)

	out := lines(send(t, s, mallory, "bot74", "quit"))
	assert.Equal(t, []string{
		`My apologies, but you do not appear to have sufficient authority to use my "quit" command.`,
	}, out)
}

func TestJoinPart(t *testing.T) {
	s := newState(t)

	out := send(t, s, alice, "bot74", "join #lobby")
	require.Len(t, out, 1)
	assert.Equal(t, "JOIN", out[0].Command)
	assert.Equal(t, []string{"#lobby"}, out[0].Params)

	out = send(t, s, alice, "bot74", "join")
	assert.Equal(t, []string{`Syntax error: For command "join", the argument "channel" is required, but it was not given.`}, lines(out))

	out = send(t, s, alice, "#lobby", "bot74: part")
	require.Len(t, out, 1)
	assert.Equal(t, "PART", out[0].Command)
	assert.Equal(t, []string{"#lobby"}, out[0].Params)

	out = send(t, s, alice, "bot74", "part")
	assert.Equal(t, []string{
		`Syntax error: When command "part" is used outside of a channel, the argument "channel" is required, but it was not given.`,
	}, lines(out))
}

func TestRefreshPrefix(t *testing.T) {
	s := newState(t)

	// the handler only builds the line; the phase moves when it is sent
	_ = refreshPrefix(s, bot.MsgMetadata{Target: "bot74"}, "")
	assert.Equal(t, bot.Connecting, s.Phase())

	out := send(t, s, alice, "bot74", "refresh-prefix")
	require.Len(t, out, 1)
	assert.Equal(t, "PRIVMSG", out[0].Command)
	assert.Equal(t, []string{"bot74", bot.UpdatePrefixText}, out[0].Params)
	assert.Equal(t, bot.PrefixUpdateRequested, s.Phase())
}

func TestEcho(t *testing.T) {
	s := newState(t)

	assert.Equal(t, []string{"mallory: hello there"}, lines(send(t, s, mallory, "#chan", "bot74: echo hello there")))
	assert.Equal(t, []string{"hello"}, lines(send(t, s, mallory, "bot74", "test-bot-cmd echo hello")))
}

func TestLineWrapCommand(t *testing.T) {
	s := newState(t)

	out := send(t, s, mallory, "#chan", "bot74: test-line-wrap")
	require.Greater(t, len(out), 1)
	got := lines(out)
	assert.True(t, strings.HasPrefix(got[0], "This is a test of line wrapping."), "Msg output must not be addressed")
	assert.Equal(t, 100, strings.Count(strings.Join(got, " "), "This is a test of line wrapping."))
}

func TestQuitGovernance(t *testing.T) {
	s := newState(t)

	out := lines(send(t, s, alice, "bot74", "test-quit"))
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "Internal error: Only commands at authorization level Admin may tell the bot to quit"))
	assert.Contains(t, out[0], `"test-quit" from module "test", at authorization level Public`)
	assert.Contains(t, out[0], `"I should not be able to do this."`)
}

func TestTestError(t *testing.T) {
	s := newState(t)

	assert.Equal(t, []string{"User error: This is a test user error."}, lines(send(t, s, alice, "bot74", "test-error user")))
	assert.Equal(t, []string{"Internal error: This is a test internal error."}, lines(send(t, s, alice, "bot74", "test-error bot")))
	assert.Equal(t, []string{"Error: this is a test library error"}, lines(send(t, s, alice, "bot74", "test-error lib")))
	assert.Equal(t, []string{"Syntax: test-error user|bot|lib|syntax"}, lines(send(t, s, alice, "bot74", "test-error")))
}
