package bot

import "github.com/AzamovUSA/debt-control/internal/bot/keyboard"

// Telegram bot commands.
const (
	CommandStart  = "/start"
	CommandAdd    = "/add"
	CommandList   = "/list"
	CommandCancel = "/cancel"
)

// Callback prefixes routed to inline button handlers. Payload-carrying
// actions end with the encoder separator so prefix matching cannot collide.
const (
	CallbackFilter     = keyboard.UniqueFilter + keyboard.CallbackDataSeparator
	CallbackPage       = keyboard.UniquePage + keyboard.CallbackDataSeparator
	CallbackPaid       = keyboard.UniquePaid + keyboard.CallbackDataSeparator
	CallbackCurrency   = keyboard.UniqueCurrency + keyboard.CallbackDataSeparator
	CallbackSkip       = keyboard.UniqueSkip + keyboard.CallbackDataSeparator
	CallbackAddConfirm = keyboard.UniqueAddConfirm
	CallbackAddCancel  = keyboard.UniqueAddCancel
)
