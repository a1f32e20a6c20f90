package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"karma-bot/internal/model"
)

// UserRepository handles persistence of users and their chat ratings.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertFromTelegram finds or creates a user based on TelegramID and updates
// basic profile info. Called for every observed message, so display fields
// track the sender's current Telegram profile.
func (r *UserRepository) UpsertFromTelegram(ctx context.Context, telegramID int64, firstName, lastName, username string) (*model.User, error) {
	var user model.User
	db := r.db.WithContext(ctx)
	err := db.Where("telegram_id = ?", telegramID).First(&user).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"first_name": firstName,
			"last_name":  lastName,
			"username":   username,
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return &user, nil
	case err == gorm.ErrRecordNotFound:
		user = model.User{
			TelegramID: telegramID,
			FirstName:  firstName,
			LastName:   lastName,
			Username:   username,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

// FindByTelegramID loads a user and their chat ratings by Telegram id.
func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("ChatRates").
		Where("telegram_id = ?", telegramID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername loads a user and their chat ratings by Telegram handle.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("ChatRates").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveChatRate persists a rating entry: insert when it was just
// materialized, otherwise a single-row update keyed by primary key. The
// affected-row count lets the caller detect a lost update (row deleted
// concurrently).
func (r *UserRepository) SaveChatRate(ctx context.Context, rate *model.ChatRate) (int64, error) {
	db := r.db.WithContext(ctx)

	if rate.ID == 0 {
		if err := db.Create(rate).Error; err != nil {
			return 0, fmt.Errorf("create chat rate: %w", err)
		}
		return 1, nil
	}

	res := db.Model(&model.ChatRate{}).
		Where("id = ?", rate.ID).
		Update("value", rate.Value)
	if res.Error != nil {
		return 0, fmt.Errorf("update chat rate: %w", res.Error)
	}
	return res.RowsAffected, nil
}
