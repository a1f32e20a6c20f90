package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"karma-bot/internal/model"
	"karma-bot/internal/repository"
)

func newTestVoteService(t *testing.T) (*VoteService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.ChatRate{}))

	users := repository.NewUserRepository(db)
	return NewVoteService(users, NewRatingService(), zap.NewNop()), db
}

func seedUser(t *testing.T, db *gorm.DB, telegramID int64, username string, rates ...model.ChatRate) *model.User {
	t.Helper()

	user := &model.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  "Test",
		ChatRates:  rates,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestHandle_VoteByReplyPersists(t *testing.T) {
	svc, db := newTestVoteService(t)
	seedUser(t, db, 100, "voter")
	pretender := seedUser(t, db, 200, "pretender")

	outcome, err := svc.Handle(context.Background(), VoteCommand{
		ChatID:    testChatID,
		VoterID:   100,
		RateUp:    true,
		ReplyToID: 200,
	})
	require.NoError(t, err)

	assert.True(t, outcome.RateUp)
	assert.Equal(t, 1.0, outcome.VoterRate)
	assert.Equal(t, 2.0, outcome.PretenderRate)
	assert.Equal(t, "voter", outcome.Voter.Username)
	assert.Equal(t, "pretender", outcome.Pretender.Username)

	// Round-trip: the stored entry carries the exact computed value.
	var stored model.ChatRate
	require.NoError(t, db.Where("user_id = ? AND chat_id = ?", pretender.ID, testChatID).First(&stored).Error)
	assert.Equal(t, 2.0, stored.Value)
}

func TestHandle_VoteByUsername(t *testing.T) {
	svc, db := newTestVoteService(t)
	seedUser(t, db, 100, "voter")
	seedUser(t, db, 200, "pretender")

	outcome, err := svc.Handle(context.Background(), VoteCommand{
		ChatID:         testChatID,
		VoterID:        100,
		RateUp:         false,
		TargetUsername: "pretender",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, outcome.PretenderRate)
}

func TestHandle_UpdatesExistingEntry(t *testing.T) {
	svc, db := newTestVoteService(t)
	seedUser(t, db, 100, "voter",
		model.ChatRate{ChatID: testChatID, Value: 4},
	)
	pretender := seedUser(t, db, 200, "pretender",
		model.ChatRate{ChatID: testChatID, Value: 5},
	)

	outcome, err := svc.Handle(context.Background(), VoteCommand{
		ChatID:    testChatID,
		VoterID:   100,
		RateUp:    true,
		ReplyToID: 200,
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, outcome.PretenderRate)

	var count int64
	require.NoError(t, db.Model(&model.ChatRate{}).Where("user_id = ?", pretender.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestHandle_VotesAccumulate(t *testing.T) {
	svc, db := newTestVoteService(t)
	seedUser(t, db, 100, "voter")
	pretender := seedUser(t, db, 200, "pretender")

	cmd := VoteCommand{ChatID: testChatID, VoterID: 100, RateUp: true, ReplyToID: 200}

	first, err := svc.Handle(context.Background(), cmd)
	require.NoError(t, err)

	// Reload happens inside Handle, so the second vote sees the new base.
	second, err := svc.Handle(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, 2.0, first.PretenderRate)
	assert.Equal(t, 3.0, second.PretenderRate)

	var stored model.ChatRate
	require.NoError(t, db.Where("user_id = ?", pretender.ID).First(&stored).Error)
	assert.Equal(t, 3.0, stored.Value)
}

func TestHandle_VoterNotFound(t *testing.T) {
	svc, db := newTestVoteService(t)
	seedUser(t, db, 200, "pretender")

	_, err := svc.Handle(context.Background(), VoteCommand{
		ChatID:    testChatID,
		VoterID:   100,
		RateUp:    true,
		ReplyToID: 200,
	})
	assert.ErrorIs(t, err, ErrVoterNotFound)
}

func TestHandle_PretenderNotFound(t *testing.T) {
	svc, db := newTestVoteService(t)
	seedUser(t, db, 100, "voter")

	_, err := svc.Handle(context.Background(), VoteCommand{
		ChatID:         testChatID,
		VoterID:        100,
		RateUp:         true,
		TargetUsername: "nobody",
	})
	assert.ErrorIs(t, err, ErrPretenderNotFound)
}

func TestHandle_PolicyRejectionsPropagate(t *testing.T) {
	svc, db := newTestVoteService(t)
	seedUser(t, db, 100, "voter",
		model.ChatRate{ChatID: testChatID, Value: -2},
	)
	pretender := seedUser(t, db, 200, "pretender")

	_, err := svc.Handle(context.Background(), VoteCommand{
		ChatID:    testChatID,
		VoterID:   100,
		RateUp:    true,
		ReplyToID: 200,
	})
	assert.ErrorIs(t, err, ErrVoterNegativeRate)

	_, err = svc.Handle(context.Background(), VoteCommand{
		ChatID:    testChatID,
		VoterID:   100,
		RateUp:    true,
		ReplyToID: 100,
	})
	assert.ErrorIs(t, err, ErrSelfVote)

	// Rejections leave the store untouched.
	var count int64
	require.NoError(t, db.Model(&model.ChatRate{}).Where("user_id = ?", pretender.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
