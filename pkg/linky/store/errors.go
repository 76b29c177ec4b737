package store

import "errors"

var (
	// ErrLinkNotFound is returned when a link id does not exist.
	ErrLinkNotFound = errors.New("link not found")
	// ErrNoVotes is returned when removing a vote from a link that has none.
	ErrNoVotes = errors.New("no votes found for this link")
	// ErrInvalidVoteType is returned for vote types other than like and dislike.
	ErrInvalidVoteType = errors.New("invalid vote type")
)
