package model

import "time"

// DefaultRate is the rating every user implicitly starts with in a chat.
// An entry is not materialized until the first vote touches it.
const DefaultRate = 1

// ChatRate is a single (user, chat) karma value. One row per chat a user
// has ever been rated in.
type ChatRate struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    uint  `gorm:"uniqueIndex:idx_chat_rate"`
	ChatID    int64 `gorm:"uniqueIndex:idx_chat_rate"`
	Value     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
