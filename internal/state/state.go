package state

import "time"

// State represents a finite-state machine state.
type State string

const (
	// StateIdle indicates that the bot is waiting for the next user command.
	StateIdle State = "idle"
	// StateAddName indicates that the user is entering the debtor's name.
	StateAddName State = "add_name"
	// StateAddPhone indicates that the user is entering the debtor's phone.
	StateAddPhone State = "add_phone"
	// StateAddAmount indicates that the user is entering the debt amount.
	StateAddAmount State = "add_amount"
	// StateAddCurrency indicates that the user is picking a currency.
	StateAddCurrency State = "add_currency"
	// StateAddDueDate indicates that the user is entering the due date.
	StateAddDueDate State = "add_due_date"
	// StateAddNote indicates that the user is entering an optional note.
	StateAddNote State = "add_note"
	// StateAddConfirm indicates that the user is confirming the new debt.
	StateAddConfirm State = "add_confirm"
	// StateError indicates that the bot is in an error state and requires recovery.
	StateError State = "error"
)

// Draft field keys stored in the FSM context while the add flow collects input.
const (
	DraftDebtorName = "debtor_name"
	DraftPhone      = "phone"
	DraftAmount     = "amount"
	DraftCurrency   = "currency"
	DraftDueDate    = "due_date"
	DraftNote       = "note"
)

// UserState captures the current FSM state for a Telegram user.
type UserState struct {
	UserID       int64                  `json:"user_id"`
	CurrentState State                  `json:"current_state"`
	Context      map[string]interface{} `json:"context"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
