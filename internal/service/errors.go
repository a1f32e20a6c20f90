package service

import "errors"

// Vote pipeline rejections. Each one is terminal for a single command; the
// bot layer maps them to a chat-visible reply.
var (
	// ErrVoterNotFound means no record exists for the voting user. Every
	// message upserts its sender, so this only happens on a racing or
	// failed lookup.
	ErrVoterNotFound = errors.New("voter not found")

	// ErrPretenderNotFound means the vote target could not be resolved.
	ErrPretenderNotFound = errors.New("pretender not found")

	// ErrSelfVote means the voter tried to rate themself.
	ErrSelfVote = errors.New("voter and pretender are the same user")

	// ErrVoterNegativeRate means the voter's own rating in the chat is not
	// positive, which revokes their right to vote there.
	ErrVoterNegativeRate = errors.New("voter rate is not positive")

	// ErrNothingPersisted means the store reported zero modified rows when
	// writing the new rating.
	ErrNothingPersisted = errors.New("rate update modified no rows")
)
