package domain

import "time"

// User represents an application user stored in the database.
// One record exists per distinct Telegram identity; records are
// never deleted by the application.
type User struct {
	ID         string
	TelegramID int64
	Name       string
	IsPremium  bool
	CreatedAt  time.Time
}
