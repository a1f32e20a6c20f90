package model

import "time"

// User stores Telegram user metadata together with per-chat karma ratings.
type User struct {
	ID         uint   `gorm:"primaryKey"`
	TelegramID int64  `gorm:"uniqueIndex:idx_user_identity"`
	Username   string `gorm:"uniqueIndex:idx_user_identity"`
	FirstName  string
	LastName   string
	ChatRates  []ChatRate
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ChatRateIn returns the user's rating entry for the chat, or nil if the
// user has never been rated there.
func (u *User) ChatRateIn(chatID int64) *ChatRate {
	for i := range u.ChatRates {
		if u.ChatRates[i].ChatID == chatID {
			return &u.ChatRates[i]
		}
	}
	return nil
}
