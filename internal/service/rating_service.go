package service

import (
	"math"

	"karma-bot/internal/model"
)

// RatingService implements the karma arithmetic over already-loaded user
// records. It performs no I/O; persistence of the mutated entry is the
// caller's job.
type RatingService struct{}

func NewRatingService() *RatingService {
	return &RatingService{}
}

// RatingResult describes one applied vote. Entry points into the
// pretender's ChatRates and already carries the new value.
type RatingResult struct {
	Entry     *model.ChatRate
	VoterRate float64
	PrevRate  float64
	NewRate   float64
}

// Apply validates a vote and computes the pretender's new rating in the
// chat.
//
// A voter's influence is sqrt of their own rating, so karma grows
// sub-linearly with the voter's weight. The result is rounded to two
// decimals (half away from zero) and is not clamped: ratings may go
// negative.
func (s *RatingService) Apply(voter, pretender *model.User, chatID int64, rateUp bool) (*RatingResult, error) {
	if voter.TelegramID == pretender.TelegramID {
		return nil, ErrSelfVote
	}

	// The voter's own record is never mutated; an absent entry just reads
	// as the default.
	voterRate := float64(model.DefaultRate)
	if entry := voter.ChatRateIn(chatID); entry != nil {
		voterRate = entry.Value
	}
	if voterRate <= 0 {
		return nil, ErrVoterNegativeRate
	}

	entry := pretender.ChatRateIn(chatID)
	if entry == nil {
		pretender.ChatRates = append(pretender.ChatRates, model.ChatRate{
			UserID: pretender.ID,
			ChatID: chatID,
			Value:  model.DefaultRate,
		})
		entry = &pretender.ChatRates[len(pretender.ChatRates)-1]
	}

	sign := 1.0
	if !rateUp {
		sign = -1.0
	}

	prev := entry.Value
	entry.Value = round2(prev + sign*math.Sqrt(voterRate))

	return &RatingResult{
		Entry:     entry,
		VoterRate: voterRate,
		PrevRate:  prev,
		NewRate:   entry.Value,
	}, nil
}

// round2 rounds half away from zero at two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
