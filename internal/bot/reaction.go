package bot

// Reaction describes what should happen in response to one message. The set
// of variants is closed; consumers switch over all of them.
type Reaction interface {
	isReaction()
}

type (
	// None does nothing.
	None struct{}
	// Msg is sent to the reply target without an addressee.
	Msg string
	// Msgs is a sequence of Msg.
	Msgs []string
	// Reply is sent to the reply target, addressed to the sender in channels.
	Reply string
	// Replies is a sequence of Reply.
	Replies []string
	// RawMsg is a literal protocol line, sent unmodified.
	RawMsg string
	// BotCmd is dispatched as if the sender had issued this command line.
	BotCmd string
	// Quit asks the bot to shut down. An empty Msg selects the default
	// farewell.
	Quit struct {
		Msg string
	}
)

func (None) isReaction() {}
func (Msg) isReaction() {}
func (Msgs) isReaction() {}
func (Reply) isReaction() {}
func (Replies) isReaction() {}
func (RawMsg) isReaction() {}
func (BotCmd) isReaction() {}
func (Quit) isReaction() {}

// BotCmdResult is what a command handler returns.
type BotCmdResult interface {
	isBotCmdResult()
}

type (
	// OK carries the reaction of a successful command.
	OK struct {
		Reaction Reaction
	}
	// Unauthorized means the sender may not run the command.
	Unauthorized struct{}
	// SyntaxErr means the arguments did not match the usage string.
	SyntaxErr struct{}
	// ArgMissing names a required argument that was not given.
	ArgMissing string
	// ArgMissing1To1 names an argument that is required only in private
	// messages, where there is no channel to default to.
	ArgMissing1To1 string
	// LibErr wraps an error from a library or collaborator.
	LibErr struct {
		Err error
	}
	// UserErrMsg reports misuse by the sender.
	UserErrMsg string
	// BotErrMsg reports a defect in the bot or one of its modules.
	BotErrMsg string
)

func (OK) isBotCmdResult() {}
func (Unauthorized) isBotCmdResult() {}
func (SyntaxErr) isBotCmdResult() {}
func (ArgMissing) isBotCmdResult() {}
func (ArgMissing1To1) isBotCmdResult() {}
func (LibErr) isBotCmdResult() {}
func (UserErrMsg) isBotCmdResult() {}
func (BotErrMsg) isBotCmdResult() {}
