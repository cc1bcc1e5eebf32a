package irc

// This file contains documentation for the IRC event handlers.
// The handler implementations live in client.go; everything they decide is
// delegated to bot.State.HandleMsg.

/*
Handler Summary:

Connection:
- NICK/USER are taken from bot.State.ConnectionSequence and sent by ircevent
  when the socket comes up.
- 004 (onMessage): RPL_MYINFO - welcome burst finished
  - Bot sends itself the prefix update message

Private and channel messages:
- PRIVMSG (onMessage): Passed to the bot core
  - Our own update message coming back refreshes the stored prefix
  - Messages addressed to the bot are dispatched as commands
  - Replies are queued on the outbox

Host changes:
- 396 (onMessage): RPL_VISIBLEHOST - displayed host changed
  - Bot repeats the prefix update round trip

CTCP:
- CTCP_VERSION: Responds with bot version information

Outbox:
- One goroutine writes queued messages, paced by the flood limiter
- Quit drains the outbox before the QUIT line is written
*/
