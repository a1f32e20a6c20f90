package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"karma-bot/internal/service"
)

// handleRateUpdate runs the vote pipeline for a matched vote command and
// reports the result or a specific failure to the chat.
func (b *Bot) handleRateUpdate(ctx context.Context, msg *tgbotapi.Message, alias, handle string) error {
	cmd := service.VoteCommand{
		ChatID:         msg.Chat.ID,
		VoterID:        msg.From.ID,
		RateUp:         service.IsRateUpAlias(alias),
		TargetUsername: handle,
	}

	// A reply target wins over a mentioned handle.
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		cmd.ReplyToID = msg.ReplyToMessage.From.ID
		cmd.TargetUsername = ""
	}

	// A bare +/- aimed at nobody is ignored, not an error.
	if cmd.ReplyToID == 0 && cmd.TargetUsername == "" {
		return nil
	}

	outcome, err := b.voteSvc.Handle(ctx, cmd)
	if err != nil {
		b.log.Error("vote rejected",
			zap.Error(err),
			zap.Int64("chat_id", cmd.ChatID),
			zap.Int64("voter_id", cmd.VoterID),
		)
		text, rerr := renderReply(failureEvent(err), nil)
		if rerr != nil {
			return rerr
		}
		return b.send(msg.Chat.ID, text)
	}

	text, err := renderRateUpdate(outcome)
	if err != nil {
		return err
	}
	return b.send(msg.Chat.ID, text)
}

// failureEvent maps a pipeline rejection to its reply template. Anything
// without a dedicated message, including a missing voter record and a lost
// persist, falls back to the generic one.
func failureEvent(err error) string {
	switch {
	case errors.Is(err, service.ErrPretenderNotFound):
		return eventPretenderNotFound
	case errors.Is(err, service.ErrVoterNegativeRate):
		return eventVoterHasNegativeRate
	case errors.Is(err, service.ErrSelfVote):
		return eventSelfUp
	default:
		return eventWrong
	}
}
