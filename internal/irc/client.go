package irc

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"

	"github.com/dalnet/bot74/internal/bot"
	"github.com/dalnet/bot74/internal/config"
	"github.com/ergochat/irc-go/ircevent"
	"github.com/ergochat/irc-go/ircmsg"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const outboxSize = 256

// transport is the part of the connection the client writes to
type transport interface {
	Send(command string, params ...string) error
	SendQuit(quit ircmsg.Message)
}

// eventConn adapts an ircevent connection to transport
type eventConn struct {
	*ircevent.Connection
}

// SendQuit hands the QUIT text to ircevent, which writes the line and stops
// reconnecting.
func (c eventConn) SendQuit(quit ircmsg.Message) {
	if len(quit.Params) > 0 {
		c.QuitMessage = quit.Params[0]
	}
	c.Quit()
}

// Client connects the bot core to an IRC server
type Client struct {
	conn    *ircevent.Connection
	out     transport
	state   *bot.State
	log     *zap.Logger
	limiter *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc
	outbox chan ircmsg.Message
	done   chan struct{}

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewClient creates a new IRC client
func NewClient(cfg *config.Config, state *bot.State, log *zap.Logger) (*Client, error) {
	conn := newConnection(cfg, log)
	if err := applyRegistration(conn, state.ConnectionSequence()); err != nil {
		return nil, err
	}

	limiter := rate.NewLimiter(rate.Every(cfg.Flood.Interval.Duration), cfg.Flood.Burst)
	c := newClient(state, eventConn{conn}, limiter, log)
	c.attach(conn)

	return c, nil
}

// newConnection builds the ircevent connection. CTCP is enabled so that
// requests arrive as CTCP_* events instead of PRIVMSG.
func newConnection(cfg *config.Config, log *zap.Logger) *ircevent.Connection {
	return &ircevent.Connection{
		Server:     fmt.Sprintf("%s:%d", cfg.Server, cfg.Port),
		Password:   cfg.ServerPass,
		UseTLS:     cfg.TLS,
		TLSConfig:  &tls.Config{InsecureSkipVerify: cfg.TLSInsecure},
		EnableCTCP: true,
		Log:        zap.NewStdLog(log.Named("ircevent")),
	}
}

func versionReply() string {
	return "bot74 " + bot.Version
}

func newClient(state *bot.State, out transport, limiter *rate.Limiter, log *zap.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		out:     out,
		state:   state,
		log:     log,
		limiter: limiter,
		ctx:     ctx,
		cancel:  cancel,
		outbox:  make(chan ircmsg.Message, outboxSize),
		done:    make(chan struct{}),
	}
}

// applyRegistration hands the NICK and USER messages of the handshake to
// ircevent, which sends them in that order once the socket is up.
func applyRegistration(conn *ircevent.Connection, msgs []ircmsg.Message) error {
	for _, m := range msgs {
		switch {
		case m.Command == "NICK" && len(m.Params) == 1:
			conn.Nick = m.Params[0]
		case m.Command == "USER" && len(m.Params) == 4:
			conn.User = m.Params[0]
			conn.RealName = m.Params[3]
		default:
			return fmt.Errorf("unexpected registration message %s %v", m.Command, m.Params)
		}
	}
	return nil
}

func (c *Client) attach(conn *ircevent.Connection) {
	c.conn = conn
	c.registerHandlers()
}

func (c *Client) registerHandlers() {
	// Registered; the target is the nick we actually got
	c.conn.AddCallback("001", c.onMessage)

	// Our own nick changes
	c.conn.AddCallback("NICK", c.onMessage)

	// End of welcome burst, start of the prefix round trip
	c.conn.AddCallback("004", c.onMessage)

	// Our displayed host changed
	c.conn.AddCallback("396", c.onMessage)

	c.conn.AddCallback("PRIVMSG", c.onMessage)

	c.conn.AddCallback("CTCP_VERSION", c.onCtcpVersion)
}

// Connect initiates the IRC connection
func (c *Client) Connect() error {
	c.start()
	return c.conn.Connect()
}

// Loop runs the IRC event loop (blocking)
func (c *Client) Loop() {
	c.conn.Loop()
}

func (c *Client) start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed {
		return
	}
	c.started = true
	go c.pump()
}

// pump writes queued messages in order, no faster than the flood limiter
// allows.
func (c *Client) pump() {
	defer close(c.done)
	for m := range c.outbox {
		if err := c.limiter.Wait(c.ctx); err != nil {
			c.log.Warn("dropping outgoing message", zap.String("command", m.Command), zap.Error(err))
			continue
		}
		if err := c.out.Send(m.Command, m.Params...); err != nil {
			c.log.Error("failed to send message", zap.String("command", m.Command), zap.Error(err))
		}
	}
}

func (c *Client) enqueue(msgs []ircmsg.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for _, m := range msgs {
		c.outbox <- m
	}
}

func (c *Client) onMessage(e ircmsg.Message) {
	out, err := c.state.HandleMsg(e)
	if err != nil {
		if q, ok := bot.IsQuit(err); ok {
			c.Quit(q.Msg)
			return
		}
		if c.state.HandleError(err) == bot.Stop {
			c.Quit("")
			return
		}
	}
	c.enqueue(out)
}

func (c *Client) onCtcpVersion(e ircmsg.Message) {
	nick := e.Nick()
	if nick == "" {
		return
	}
	c.enqueue([]ircmsg.Message{
		ircmsg.MakeMessage(nil, "", "NOTICE", nick, "\x01VERSION "+versionReply()+"\x01"),
	})
}

// Quit flushes everything queued so far, sends QUIT with the given farewell
// (or the default one) and closes the connection. Messages queued after Quit
// are dropped.
func (c *Client) Quit(message string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	started := c.started
	close(c.outbox)
	c.mu.Unlock()

	if started {
		<-c.done
	}
	c.cancel()

	quit, ok := c.state.QuitMessage(message)
	if !ok {
		// QuitMessage has reported the error. The line it refused is not
		// sent, but the connection still has to close, so QUIT goes out
		// without a farewell.
		quit = ircmsg.MakeMessage(nil, "", "QUIT")
	}
	c.out.SendQuit(quit)
}
