package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"karma-bot/internal/model"
	"karma-bot/internal/repository"
)

// VoteCommand is one parsed karma command. Exactly one of ReplyToID and
// TargetUsername identifies the pretender; the bot layer guarantees at
// least one is set before calling Handle.
type VoteCommand struct {
	ChatID         int64
	VoterID        int64
	RateUp         bool
	ReplyToID      int64
	TargetUsername string
}

// VoteOutcome is a successfully applied vote, ready for rendering.
type VoteOutcome struct {
	RateUp        bool
	Voter         *model.User
	Pretender     *model.User
	VoterRate     float64
	PretenderRate float64
}

// VoteService orchestrates a single vote: resolve both users, apply the
// rating policy and persist the mutated entry. Every failure short-circuits
// with one of the sentinel rejections.
type VoteService struct {
	users  *repository.UserRepository
	rating *RatingService
	log    *zap.Logger
}

func NewVoteService(users *repository.UserRepository, rating *RatingService, log *zap.Logger) *VoteService {
	return &VoteService{
		users:  users,
		rating: rating,
		log:    log.With(zap.String("component", "vote")),
	}
}

// Handle runs the vote pipeline for one command.
func (s *VoteService) Handle(ctx context.Context, cmd VoteCommand) (*VoteOutcome, error) {
	voter, err := s.users.FindByTelegramID(ctx, cmd.VoterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoterNotFound
		}
		return nil, fmt.Errorf("find voter: %w", err)
	}

	pretender, err := s.resolvePretender(ctx, cmd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPretenderNotFound
		}
		return nil, fmt.Errorf("find pretender: %w", err)
	}

	result, err := s.rating.Apply(voter, pretender, cmd.ChatID, cmd.RateUp)
	if err != nil {
		return nil, err
	}

	// Single-row write; no cross-document atomicity is needed because the
	// voter record stays untouched. Two concurrent votes against the same
	// pretender can still race on the base value, an accepted limitation.
	affected, err := s.users.SaveChatRate(ctx, result.Entry)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNothingPersisted
	}

	s.log.Info("chat rate updated",
		zap.Int64("chat_id", cmd.ChatID),
		zap.Int64("voter_id", voter.TelegramID),
		zap.Int64("pretender_id", pretender.TelegramID),
		zap.Bool("rate_up", cmd.RateUp),
		zap.Float64("prev", result.PrevRate),
		zap.Float64("new", result.NewRate),
	)

	return &VoteOutcome{
		RateUp:        cmd.RateUp,
		Voter:         voter,
		Pretender:     pretender,
		VoterRate:     result.VoterRate,
		PretenderRate: result.NewRate,
	}, nil
}

func (s *VoteService) resolvePretender(ctx context.Context, cmd VoteCommand) (*model.User, error) {
	if cmd.ReplyToID != 0 {
		return s.users.FindByTelegramID(ctx, cmd.ReplyToID)
	}
	return s.users.FindByUsername(ctx, cmd.TargetUsername)
}

// IsRateUpAlias reports whether the matched command token means an up-vote.
func IsRateUpAlias(alias string) bool {
	switch alias {
	case "+", "++", "up":
		return true
	}
	return false
}
